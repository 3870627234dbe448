package persistence

import (
	"context"
	"strings"

	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/catalog"
)

// StaticProductRepository serves an immutable catalog snapshot from memory.
// It is safe for concurrent use without locking because nothing mutates it
// after construction.
type StaticProductRepository struct {
	products []catalog.Product
	index    map[string]int
}

// NewStaticProductRepository validates products and takes a private copy
func NewStaticProductRepository(products []catalog.Product) (*StaticProductRepository, error) {
	if err := catalog.ValidateAll(products); err != nil {
		return nil, err
	}

	snapshot := make([]catalog.Product, len(products))
	copy(snapshot, products)

	index := make(map[string]int, len(snapshot))
	for i := range snapshot {
		index[snapshot[i].ID] = i
	}
	return &StaticProductRepository{products: snapshot, index: index}, nil
}

// FindByID implements catalog.ProductRepository
func (r *StaticProductRepository) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, catalog.ErrProductIDRequired
	}
	i, ok := r.index[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	product := r.products[i]
	return &product, nil
}

// FindAll implements catalog.ProductRepository
func (r *StaticProductRepository) FindAll(ctx context.Context) ([]catalog.Product, error) {
	out := make([]catalog.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

// Count implements catalog.ProductRepository
func (r *StaticProductRepository) Count(ctx context.Context) (int, error) {
	return len(r.products), nil
}

var _ catalog.ProductRepository = (*StaticProductRepository)(nil)
