package catalog

import (
	"github.com/shopspring/decimal"
)

// Condition is the physical condition a product is sold in
type Condition string

const (
	ConditionNew  Condition = "new"
	ConditionUsed Condition = "used"
)

// Product is a read-only catalog record. Products are loaded once at startup
// and never mutated afterwards.
type Product struct {
	ID          string    `json:"id" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Brand       string    `json:"brand"`
	Price       Price     `json:"price"`
	Stock       int       `json:"stock" validate:"gte=0"`
	Images      []string  `json:"images" validate:"dive,url"`
	Seller      Seller    `json:"seller"`
	Rating      *Rating   `json:"rating,omitempty"`
	Condition   Condition `json:"condition" validate:"oneof=new used"`
	Shipping    Shipping  `json:"shipping"`
}

// Price holds the selling price and optional promotional information
type Price struct {
	Amount        decimal.Decimal  `json:"amount"`
	Currency      string           `json:"currency" validate:"required"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Discount      *int             `json:"discount,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// Seller describes who sells the product
type Seller struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Reputation string `json:"reputation,omitempty"`
	Sales      int    `json:"sales,omitempty" validate:"gte=0"`
	Location   string `json:"location,omitempty"`
}

// Rating is the aggregated review score
type Rating struct {
	Average      float64 `json:"average" validate:"gte=0,lte=5"`
	TotalReviews int     `json:"totalReviews" validate:"gte=0"`
}

// Shipping describes delivery options
type Shipping struct {
	Free          bool   `json:"free"`
	EstimatedDays string `json:"estimatedDays,omitempty"`
	Method        string `json:"method,omitempty"`
}

// InStock reports whether at least one unit is available
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// HasDiscount reports whether the product is sold below its original price
func (p *Product) HasDiscount() bool {
	return p.Price.OriginalPrice != nil && p.Price.OriginalPrice.GreaterThan(p.Price.Amount)
}
