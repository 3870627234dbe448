package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/ipiccardo/item-detail-ML-sub001/internal/application/catalog"
)

// ProductHandler handles the read-only product endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.GET("", h.List)
	products.GET("/:id", h.GetByID)
}

// List godoc
// @Summary      List products
// @Description  Filter the catalog by category, brand and price bounds. Bounds that do not parse are ignored.
// @Tags         products
// @Produce      json
// @Param        category query string false "Category substring"
// @Param        brand    query string false "Brand substring"
// @Param        minPrice query string false "Minimum price"
// @Param        maxPrice query string false "Maximum price"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse}
// @Failure      500 {object} dto.Response
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var query catalogapp.ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	// snake_case aliases
	if query.MinPrice == "" {
		query.MinPrice = c.Query("min_price")
	}
	if query.MaxPrice == "" {
		query.MaxPrice = c.Query("max_price")
	}

	products, err := h.productService.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}

// GetByID godoc
// @Summary      Get product by ID
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	product, err := h.productService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}
