package catalog

import (
	"context"

	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/shared"
)

// Catalog lookup errors
var (
	ErrProductIDRequired = shared.NewDomainError(shared.CodeValidation, "Product ID is required")
	ErrProductNotFound   = shared.NewDomainError(shared.CodeNotFound, "Product not found")
)

// ProductRepository gives read-only access to the product catalog.
// FindByID returns ErrProductIDRequired for a blank id and ErrProductNotFound
// for an unknown one. FindAll returns products in catalog order.
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*Product, error)
	FindAll(ctx context.Context) ([]Product, error)
	Count(ctx context.Context) (int, error)
}
