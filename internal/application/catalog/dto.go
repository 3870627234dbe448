package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/catalog"
)

// ListProductsQuery carries the raw filter values of a product listing
type ListProductsQuery struct {
	Category string `form:"category"`
	Brand    string `form:"brand"`
	MinPrice string `form:"minPrice"`
	MaxPrice string `form:"maxPrice"`
}

// Criteria converts the query into domain filter criteria
func (q ListProductsQuery) Criteria() catalog.FilterCriteria {
	return catalog.FilterCriteria{
		Category: q.Category,
		Brand:    q.Brand,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
	}
}

// ProductResponse is the wire representation of a catalog product
type ProductResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Category    string            `json:"category"`
	Brand       string            `json:"brand"`
	Price       PriceResponse     `json:"price"`
	Stock       int               `json:"stock"`
	InStock     bool              `json:"inStock"`
	Images      []string          `json:"images"`
	Seller      catalog.Seller    `json:"seller"`
	Rating      *catalog.Rating   `json:"rating,omitempty"`
	Condition   catalog.Condition `json:"condition"`
	Shipping    catalog.Shipping  `json:"shipping"`
}

// PriceResponse is the wire representation of a product price
type PriceResponse struct {
	Amount        decimal.Decimal  `json:"amount"`
	Currency      string           `json:"currency"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Discount      *int             `json:"discount,omitempty"`
}

// ToProductResponse converts a domain product. Slices are copied so callers
// cannot reach the catalog's backing arrays.
func ToProductResponse(p *catalog.Product) ProductResponse {
	images := make([]string, len(p.Images))
	copy(images, p.Images)

	var rating *catalog.Rating
	if p.Rating != nil {
		r := *p.Rating
		rating = &r
	}

	return ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Brand:       p.Brand,
		Price: PriceResponse{
			Amount:        p.Price.Amount,
			Currency:      p.Price.Currency,
			OriginalPrice: p.Price.OriginalPrice,
			Discount:      p.Price.Discount,
		},
		Stock:     p.Stock,
		InStock:   p.InStock(),
		Images:    images,
		Seller:    p.Seller,
		Rating:    rating,
		Condition: p.Condition,
		Shipping:  p.Shipping,
	}
}

// ToProductResponses converts a list of domain products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
