package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
)

// CatalogHandler обслуживает товары и категории. Чтение открыто всем,
// запись закрыта за RequireAdmin на уровне маршрутов.
type CatalogHandler struct {
	catalog *catalog.Service
}

// NewCatalogHandler создаёт handler поверх сервиса каталога.
func NewCatalogHandler(catalogSvc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalogSvc}
}

type productRequest struct {
	SKU           string          `json:"sku" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	StockQuantity int32           `json:"stock_quantity" binding:"gte=0"`
	CategoryID    string          `json:"category_id"`
}

// CreateProduct обрабатывает POST /api/v1/admin/products.
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	product, err := h.catalog.CreateProduct(catalog.ProductInput{
		SKU:           req.SKU,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		CategoryID:    req.CategoryID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toProductResponse(product))
}

// UpdateProduct обрабатывает PUT /api/v1/admin/products/:id.
// Остаток через этот маршрут не меняется: стоком владеют оформление
// и отмена заказов.
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	product, err := h.catalog.UpdateProduct(c.Param("id"), catalog.ProductInput{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

// GetProduct обрабатывает GET /api/v1/products/:id.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

// ListProducts обрабатывает GET /api/v1/products; query-параметр
// category сужает выборку до одной категории.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	req := pageRequestFromQuery(c)

	var (
		page domain.Page[domain.Product]
		err  error
	)
	if categoryID := c.Query("category"); categoryID != "" {
		page, err = h.catalog.ListProductsByCategory(categoryID, req)
	} else {
		page, err = h.catalog.ListProducts(req)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPageResponse(page, toProductResponse))
}

type categoryRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID string `json:"parent_id"`
}

// CreateCategory обрабатывает POST /api/v1/admin/categories.
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	category, err := h.catalog.CreateCategory(req.Name, req.ParentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// UpdateCategory обрабатывает PUT /api/v1/admin/categories/:id.
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	category, err := h.catalog.UpdateCategory(c.Param("id"), req.Name, req.ParentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCategoryResponse(category))
}

// GetCategory обрабатывает GET /api/v1/categories/:id.
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	category, err := h.catalog.GetCategory(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCategoryResponse(category))
}

// ListCategories обрабатывает GET /api/v1/categories.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	page, err := h.catalog.ListCategories(pageRequestFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPageResponse(page, toCategoryResponse))
}
