package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/catalog"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/shared"
)

func testProduct(id string, amount int64) catalog.Product {
	return catalog.Product{
		ID:        id,
		Title:     "Producto " + id,
		Category:  "Celulares",
		Brand:     "Samsung",
		Price:     catalog.Price{Amount: decimal.NewFromInt(amount), Currency: "ARS"},
		Stock:     1,
		Images:    []string{},
		Condition: catalog.ConditionNew,
	}
}

func TestStaticProductRepository(t *testing.T) {
	ctx := context.Background()
	repo, err := NewStaticProductRepository([]catalog.Product{
		testProduct("A", 100),
		testProduct("B", 200),
	})
	require.NoError(t, err)

	t.Run("find by id", func(t *testing.T) {
		p, err := repo.FindByID(ctx, "B")
		require.NoError(t, err)
		assert.Equal(t, "B", p.ID)
	})

	t.Run("blank id is a validation error", func(t *testing.T) {
		_, err := repo.FindByID(ctx, " ")
		assert.ErrorIs(t, err, catalog.ErrProductIDRequired)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeValidation, domainErr.Code)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "unknown-id")
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})

	t.Run("find all preserves order", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "A", all[0].ID)
		assert.Equal(t, "B", all[1].ID)
	})

	t.Run("results do not alias the snapshot", func(t *testing.T) {
		all, _ := repo.FindAll(ctx)
		all[0].Title = "changed"
		p, _ := repo.FindByID(ctx, "A")
		p.Stock = 99

		again, err := repo.FindByID(ctx, "A")
		require.NoError(t, err)
		assert.Equal(t, "Producto A", again.Title)
		assert.Equal(t, 1, again.Stock)
	})

	t.Run("count", func(t *testing.T) {
		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}

func TestNewStaticProductRepository_Invalid(t *testing.T) {
	negative := testProduct("A", 100)
	negative.Stock = -1

	_, err := NewStaticProductRepository([]catalog.Product{negative})
	assert.Error(t, err)

	_, err = NewStaticProductRepository([]catalog.Product{testProduct("A", 1), testProduct("A", 2)})
	assert.ErrorContains(t, err, "duplicate")
}
