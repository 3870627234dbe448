package catalog

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/shared"
)

func newTestProduct(id string, amount int64) Product {
	return Product{
		ID:        id,
		Title:     "Product " + id,
		Category:  "Celulares y Teléfonos",
		Brand:     "Samsung",
		Price:     Price{Amount: decimal.NewFromInt(amount), Currency: "ARS"},
		Stock:     5,
		Images:    []string{"https://example.com/" + id + ".jpg"},
		Seller:    Seller{ID: "seller-1", Name: "Tienda Oficial"},
		Condition: ConditionNew,
	}
}

func TestProduct_Validate(t *testing.T) {
	t.Run("accepts a well-formed product", func(t *testing.T) {
		p := newTestProduct("MLA-1", 100)
		assert.NoError(t, p.Validate())
	})

	t.Run("accepts a product without images", func(t *testing.T) {
		p := newTestProduct("MLA-1", 100)
		p.Images = nil
		assert.NoError(t, p.Validate())
	})

	tests := []struct {
		name   string
		mutate func(p *Product)
	}{
		{"missing id", func(p *Product) { p.ID = "" }},
		{"missing title", func(p *Product) { p.Title = "" }},
		{"negative stock", func(p *Product) { p.Stock = -1 }},
		{"negative amount", func(p *Product) { p.Price.Amount = decimal.NewFromInt(-1) }},
		{"unknown condition", func(p *Product) { p.Condition = "refurbished" }},
		{"invalid image url", func(p *Product) { p.Images = []string{"not a url"} }},
		{"missing currency", func(p *Product) { p.Price.Currency = "" }},
		{"rating above five", func(p *Product) { p.Rating = &Rating{Average: 5.5, TotalReviews: 3} }},
		{"discount above 100", func(p *Product) {
			d := 120
			p.Price.Discount = &d
		}},
	}
	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			p := newTestProduct("MLA-1", 100)
			tt.mutate(&p)

			err := p.Validate()
			require.Error(t, err)

			var domainErr *shared.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, shared.CodeValidation, domainErr.Code)
		})
	}
}

func TestValidateAll(t *testing.T) {
	t.Run("accepts distinct ids", func(t *testing.T) {
		err := ValidateAll([]Product{newTestProduct("A", 1), newTestProduct("B", 2)})
		assert.NoError(t, err)
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		err := ValidateAll([]Product{newTestProduct("A", 1), newTestProduct("A", 2)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate product id")
	})
}

func TestProduct_HasDiscount(t *testing.T) {
	p := newTestProduct("A", 100)
	assert.False(t, p.HasDiscount())

	original := decimal.NewFromInt(150)
	p.Price.OriginalPrice = &original
	assert.True(t, p.HasDiscount())

	lower := decimal.NewFromInt(50)
	p.Price.OriginalPrice = &lower
	assert.False(t, p.HasDiscount())
}

func TestProduct_InStock(t *testing.T) {
	p := newTestProduct("A", 100)
	assert.True(t, p.InStock())
	p.Stock = 0
	assert.False(t, p.InStock())
}
