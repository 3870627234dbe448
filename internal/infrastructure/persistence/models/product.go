package models

import (
	"github.com/shopspring/decimal"

	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/catalog"
)

// ProductModel is the persistence model of a catalog product. Nested value
// objects are stored as JSON columns.
type ProductModel struct {
	ID              string              `gorm:"type:varchar(64);primaryKey"`
	SortOrder       int                 `gorm:"not null;default:0;index"`
	Title           string              `gorm:"type:varchar(255);not null"`
	Description     string              `gorm:"type:text"`
	Category        string              `gorm:"type:varchar(255);index"`
	Brand           string              `gorm:"type:varchar(100);index"`
	PriceAmount     decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Currency        string              `gorm:"type:varchar(3);not null"`
	OriginalPrice   decimal.NullDecimal `gorm:"type:decimal(18,2)"`
	DiscountPercent *int
	Stock           int              `gorm:"not null;default:0"`
	Images          []string         `gorm:"serializer:json"`
	Seller          catalog.Seller   `gorm:"serializer:json"`
	Rating          *catalog.Rating  `gorm:"serializer:json"`
	Condition       string           `gorm:"type:varchar(10);not null;default:'new'"`
	Shipping        catalog.Shipping `gorm:"serializer:json"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() catalog.Product {
	p := catalog.Product{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		Brand:       m.Brand,
		Price: catalog.Price{
			Amount:   m.PriceAmount,
			Currency: m.Currency,
			Discount: m.DiscountPercent,
		},
		Stock:     m.Stock,
		Images:    m.Images,
		Seller:    m.Seller,
		Rating:    m.Rating,
		Condition: catalog.Condition(m.Condition),
		Shipping:  m.Shipping,
	}
	if m.OriginalPrice.Valid {
		original := m.OriginalPrice.Decimal
		p.Price.OriginalPrice = &original
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p
}

// ProductModelFromDomain creates a persistence model; sortOrder fixes the
// product's position in the catalog.
func ProductModelFromDomain(p *catalog.Product, sortOrder int) *ProductModel {
	m := &ProductModel{
		ID:              p.ID,
		SortOrder:       sortOrder,
		Title:           p.Title,
		Description:     p.Description,
		Category:        p.Category,
		Brand:           p.Brand,
		PriceAmount:     p.Price.Amount,
		Currency:        p.Price.Currency,
		DiscountPercent: p.Price.Discount,
		Stock:           p.Stock,
		Images:          p.Images,
		Seller:          p.Seller,
		Rating:          p.Rating,
		Condition:       string(p.Condition),
		Shipping:        p.Shipping,
	}
	if p.Price.OriginalPrice != nil {
		m.OriginalPrice = decimal.NewNullDecimal(*p.Price.OriginalPrice)
	}
	return m
}
