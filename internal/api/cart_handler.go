package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/storefront/internal/service/cart"
)

// CartHandler обслуживает корзину текущего пользователя. Все маршруты
// закрыты за RequireAuth, владелец корзины берётся из identity.
type CartHandler struct {
	carts *cart.Service
}

// NewCartHandler создаёт handler поверх сервиса корзин.
func NewCartHandler(carts *cart.Service) *CartHandler {
	return &CartHandler{carts: carts}
}

// GetCart обрабатывает GET /api/v1/cart.
func (h *CartHandler) GetCart(c *gin.Context) {
	details, err := h.carts.GetCart(identityFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCartResponse(details))
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// AddItem обрабатывает POST /api/v1/cart/items: добавляет товар с
// количеством 1 или наращивает количество существующей позиции.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	item, err := h.carts.AddItem(identityFrom(c).UserID, req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})
}

type updateItemRequest struct {
	Quantity int32 `json:"quantity" binding:"gte=0"`
}

// UpdateItem обрабатывает PUT /api/v1/cart/items/:product_id.
// Нулевое количество удаляет позицию.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	userID := identityFrom(c).UserID
	productID := c.Param("product_id")

	if req.Quantity == 0 {
		if err := h.carts.RemoveItem(userID, productID); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
		return
	}

	item, err := h.carts.UpdateItem(userID, productID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})
}

// RemoveItem обрабатывает DELETE /api/v1/cart/items/:product_id.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	if err := h.carts.RemoveItem(identityFrom(c).UserID, c.Param("product_id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ClearCart обрабатывает DELETE /api/v1/cart.
func (h *CartHandler) ClearCart(c *gin.Context) {
	removed, err := h.carts.ClearCart(identityFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed_items": removed})
}

func toCartResponse(details cart.Details) cartResponse {
	lines := make([]cartLineResponse, 0, len(details.Lines))
	for _, line := range details.Lines {
		lines = append(lines, cartLineResponse{
			ProductID:   line.Item.ProductID,
			ProductName: line.Product.Name,
			SKU:         line.Product.SKU,
			UnitPrice:   line.Product.Price,
			Quantity:    line.Item.Quantity,
			LineTotal:   line.LineTotal,
			AddedAt:     line.Item.AddedAt,
		})
	}
	return cartResponse{
		ID:    details.Cart.ID,
		Lines: lines,
		Total: details.Total,
	}
}
