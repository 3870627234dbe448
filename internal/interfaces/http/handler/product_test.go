package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/ipiccardo/item-detail-ML-sub001/internal/application/catalog"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/catalog"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/infrastructure/persistence"
)

// MockProductRepository implements catalog.ProductRepository for testing
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func testProduct(id, category, brand string, amount int64) catalog.Product {
	return catalog.Product{
		ID:        id,
		Title:     brand + " " + id,
		Category:  category,
		Brand:     brand,
		Price:     catalog.Price{Amount: decimal.NewFromInt(amount), Currency: "ARS"},
		Stock:     5,
		Images:    []string{},
		Condition: catalog.ConditionNew,
	}
}

func newTestRepository(t *testing.T) *persistence.StaticProductRepository {
	t.Helper()
	repo, err := persistence.NewStaticProductRepository([]catalog.Product{
		testProduct("MLA1", "Celulares Samsung", "Samsung", 500000),
		testProduct("MLA2", "Celulares Apple", "Apple", 900000),
		testProduct("MLA3", "Televisores Samsung", "Samsung", 1200000),
	})
	require.NoError(t, err)
	return repo
}

func setupProductRouter(repo catalog.ProductRepository) *gin.Engine {
	r := gin.New()
	h := NewProductHandler(catalogapp.NewProductService(repo))
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func productIDs(t *testing.T, resp map[string]any) []string {
	t.Helper()
	data, ok := resp["data"].([]any)
	require.True(t, ok, "data should be a list")
	ids := make([]string, 0, len(data))
	for _, item := range data {
		ids = append(ids, item.(map[string]any)["id"].(string))
	}
	return ids
}

func TestProductHandler_List(t *testing.T) {
	router := setupProductRouter(newTestRepository(t))

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"no criteria", "", []string{"MLA1", "MLA2", "MLA3"}},
		{"category case insensitive", "?category=SAMSUNG", []string{"MLA1", "MLA3"}},
		{"brand", "?brand=app", []string{"MLA2"}},
		{"price bounds", "?minPrice=600000&maxPrice=1000000", []string{"MLA2"}},
		{"snake case bounds", "?min_price=600000&max_price=1000000", []string{"MLA2"}},
		{"unparsable bound ignored", "?minPrice=abc", []string{"MLA1", "MLA2", "MLA3"}},
		{"conjunctive", "?category=samsung&maxPrice=600000", []string{"MLA1"}},
		{"no match", "?brand=nokia", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products"+tt.query, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			resp := decodeMap(t, w)
			assert.Equal(t, true, resp["success"])
			assert.Equal(t, tt.expected, productIDs(t, resp))
		})
	}
}

func TestProductHandler_List_RepositoryError(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("FindAll", mock.Anything).Return(nil, errors.New("disk on fire"))
	router := setupProductRouter(repo)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "Internal server error", resp.Error)
	assert.NotContains(t, w.Body.String(), "disk on fire")
	repo.AssertExpectations(t)
}

func TestProductHandler_GetByID(t *testing.T) {
	router := setupProductRouter(newTestRepository(t))

	t.Run("found", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/MLA2", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeMap(t, w)
		assert.Equal(t, true, resp["success"])
		data := resp["data"].(map[string]any)
		assert.Equal(t, "MLA2", data["id"])
		assert.Equal(t, true, data["inStock"])
	})

	t.Run("blank id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/%20", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "Product ID is required", resp.Error)
	})

	t.Run("not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/MLA404", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "Product not found", resp.Error)
	})
}

func TestProductHandler_GetByID_UnexpectedError(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("FindByID", mock.Anything, "MLA1").Return(nil, errors.New("connection reset"))
	router := setupProductRouter(repo)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/MLA1", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decodeResponse(t, w).Error)
	repo.AssertExpectations(t)
}
