package catalog

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/shared"
)

var productValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the product invariants: identity, non-negative amount and
// stock, a known condition and well-formed image URLs.
func (p *Product) Validate() error {
	if err := productValidator.Struct(p); err != nil {
		return shared.NewDomainError(shared.CodeValidation, fmt.Sprintf("invalid product %q: %v", p.ID, err))
	}
	if p.Price.Amount.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, fmt.Sprintf("invalid product %q: price amount must be non-negative", p.ID))
	}
	if p.Price.OriginalPrice != nil && p.Price.OriginalPrice.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, fmt.Sprintf("invalid product %q: original price must be non-negative", p.ID))
	}
	return nil
}

// ValidateAll validates every product and rejects duplicate identifiers
func ValidateAll(products []Product) error {
	seen := make(map[string]struct{}, len(products))
	for i := range products {
		if err := products[i].Validate(); err != nil {
			return err
		}
		if _, dup := seen[products[i].ID]; dup {
			return shared.NewDomainError(shared.CodeValidation, fmt.Sprintf("duplicate product id %q", products[i].ID))
		}
		seen[products[i].ID] = struct{}{}
	}
	return nil
}
