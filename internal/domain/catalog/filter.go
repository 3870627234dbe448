package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/shared"
)

// FilterCriteria holds the optional, conjunctive product filters.
// Values arrive as raw text; an empty field imposes no constraint.
type FilterCriteria struct {
	Category string
	Brand    string
	MinPrice string
	MaxPrice string
}

// IsEmpty reports whether no criterion constrains the result
func (c FilterCriteria) IsEmpty() bool {
	return len(c.predicates()) == 0
}

// predicate decides whether a product passes one criterion
type predicate func(p *Product) bool

// predicates compiles the supplied criteria. Blank text criteria and price
// bounds that do not parse to a finite number are skipped.
func (c FilterCriteria) predicates() []predicate {
	var preds []predicate

	if category := strings.TrimSpace(c.Category); category != "" {
		needle := shared.Fold(category)
		preds = append(preds, func(p *Product) bool {
			return strings.Contains(shared.Fold(p.Category), needle)
		})
	}
	if brand := strings.TrimSpace(c.Brand); brand != "" {
		needle := shared.Fold(brand)
		preds = append(preds, func(p *Product) bool {
			return strings.Contains(shared.Fold(p.Brand), needle)
		})
	}
	if minPrice, ok := ParsePriceBound(c.MinPrice); ok {
		preds = append(preds, func(p *Product) bool {
			return p.Price.Amount.GreaterThanOrEqual(minPrice)
		})
	}
	if maxPrice, ok := ParsePriceBound(c.MaxPrice); ok {
		preds = append(preds, func(p *Product) bool {
			return p.Price.Amount.LessThanOrEqual(maxPrice)
		})
	}

	return preds
}

// ParsePriceBound parses a textual price bound into a whole number.
// Only plain decimal notation is accepted; fractional input is truncated
// toward zero. The second result is false when the input is blank, uses an
// exponent or is not a number, in which case the bound is ignored.
func ParsePriceBound(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.ContainsAny(raw, "eE") {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d.Truncate(0), true
}

// FilterProducts returns the products that satisfy every supplied criterion,
// preserving catalog order. The input slice is never modified and the result
// is never nil.
func FilterProducts(products []Product, criteria FilterCriteria) []Product {
	preds := criteria.predicates()
	result := make([]Product, 0, len(products))

	for i := range products {
		if matchesAll(&products[i], preds) {
			result = append(result, products[i])
		}
	}

	return result
}

func matchesAll(p *Product, preds []predicate) bool {
	for _, pred := range preds {
		if !pred(p) {
			return false
		}
	}
	return true
}
