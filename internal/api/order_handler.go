package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/order"
)

// OrderHandler обслуживает заказы: пользовательские маршруты за
// RequireAuth и административные за RequireAdmin.
type OrderHandler struct {
	orders *order.Service
}

// NewOrderHandler создаёт handler поверх сервиса заказов.
func NewOrderHandler(orders *order.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type createOrderRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
}

// CreateOrder обрабатывает POST /api/v1/orders: оформляет заказ из
// корзины текущего пользователя.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	created, err := h.orders.CreateOrder(identityFrom(c), req.ShippingAddress)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(created))
}

// GetOrder обрабатывает GET /api/v1/orders/:id и возвращает заказ
// вместе с историей событий.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	details, err := h.orders.GetOrderDetails(identityFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":   toOrderResponse(details.Order),
		"history": toOrderEventResponses(details.History),
	})
}

// ListOrders обрабатывает GET /api/v1/orders: заказы текущего
// пользователя, новые первыми.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, err := h.orders.ListUserOrders(identityFrom(c), pageRequestFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPageResponse(page, toOrderResponse))
}

// CancelOrder обрабатывает POST /api/v1/orders/:id/cancel.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	cancelled, err := h.orders.CancelOrder(identityFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(cancelled))
}

// ListAllOrders обрабатывает GET /api/v1/admin/orders; query-параметр
// status сужает выборку до одного статуса.
func (h *OrderHandler) ListAllOrders(c *gin.Context) {
	page, err := h.orders.GetAllOrders(pageRequestFromQuery(c), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPageResponse(page, toOrderResponse))
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus обрабатывает PATCH /api/v1/admin/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.orders.UpdateOrderStatus(identityFrom(c), c.Param("id"), status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(updated))
}
