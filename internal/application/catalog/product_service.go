package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/catalog"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/shared"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/infrastructure/logger"
)

// ProductService answers the read-only product queries of the storefront
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// List returns the catalog products matching query, in catalog order.
// Unparsable price bounds are ignored.
func (s *ProductService) List(ctx context.Context, query ListProductsQuery) ([]ProductResponse, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		logger.L(ctx).Error("Failed to read catalog", zap.Error(err))
		return nil, fmt.Errorf("list products: %w", err)
	}

	filtered := catalog.FilterProducts(products, query.Criteria())
	logger.L(ctx).Debug("Products filtered",
		zap.Int("total", len(products)),
		zap.Int("matched", len(filtered)),
	)
	return ToProductResponses(filtered), nil
}

// GetByID returns one product. A blank id is a validation error and an
// unknown id is not found; any other failure is reported as internal.
func (s *ProductService) GetByID(ctx context.Context, id string) (*ProductResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, catalog.ErrProductIDRequired
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		logger.L(ctx).Error("Failed to read product", zap.String("product_id", id), zap.Error(err))
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Count returns the number of products in the catalog
func (s *ProductService) Count(ctx context.Context) (int, error) {
	return s.productRepo.Count(ctx)
}
