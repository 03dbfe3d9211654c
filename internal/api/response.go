package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// respondError переводит доменную ошибку в HTTP-код по её виду:
// unauthenticated 401, forbidden 403, not found 404, conflict 409,
// invalid state 422. Всё неизвестное — 500 без деталей наружу.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidState):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// pageRequestFromQuery читает пагинацию из query-параметров page и size;
// значения вне допустимых границ нормализуются, а не отклоняются.
func pageRequestFromQuery(c *gin.Context) domain.PageRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "0"))
	return domain.NewPageRequest(page, size)
}

type pageResponse[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalPages    int   `json:"total_pages"`
	TotalElements int64 `json:"total_elements"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

func toPageResponse[D, T any](page domain.Page[D], convert func(D) T) pageResponse[T] {
	content := make([]T, 0, len(page.Content))
	for _, item := range page.Content {
		content = append(content, convert(item))
	}
	return pageResponse[T]{
		Content:       content,
		Page:          page.Page,
		Size:          page.Size,
		TotalPages:    page.TotalPages,
		TotalElements: page.TotalElements,
		First:         page.First,
		Last:          page.Last,
	}
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(user domain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}

type categoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  string    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCategoryResponse(category domain.Category) categoryResponse {
	return categoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		ParentID:  category.ParentID,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

type productResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int32           `json:"stock_quantity"`
	Active        bool            `json:"active"`
	CategoryID    string          `json:"category_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func toProductResponse(product domain.Product) productResponse {
	return productResponse{
		ID:            product.ID,
		SKU:           product.SKU,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		StockQuantity: product.StockQuantity,
		Active:        product.Active,
		CategoryID:    product.CategoryID,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

type cartLineResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int32           `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
	AddedAt     time.Time       `json:"added_at"`
}

type cartResponse struct {
	ID    string             `json:"id"`
	Lines []cartLineResponse `json:"lines"`
	Total decimal.Decimal    `json:"total"`
}

type orderItemResponse struct {
	ProductID  string          `json:"product_id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Quantity   int32           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	Number          string              `json:"number"`
	UserID          string              `json:"user_id"`
	Status          string              `json:"status"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	ShippingAddress string              `json:"shipping_address"`
	Items           []orderItemResponse `json:"items"`
	OrderedAt       time.Time           `json:"ordered_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func toOrderResponse(order domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ProductID:  item.ProductID,
			SKU:        item.SKU,
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}
	return orderResponse{
		ID:              order.ID,
		Number:          order.Number,
		UserID:          order.UserID,
		Status:          string(order.Status),
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
		Items:           items,
		OrderedAt:       order.OrderedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

type orderEventResponse struct {
	Type     string    `json:"type"`
	Reason   string    `json:"reason,omitempty"`
	Occurred time.Time `json:"occurred_at"`
}

func toOrderEventResponses(events []domain.OrderEvent) []orderEventResponse {
	result := make([]orderEventResponse, 0, len(events))
	for _, event := range events {
		result = append(result, orderEventResponse{
			Type:     event.Type,
			Reason:   event.Reason,
			Occurred: event.Occurred,
		})
	}
	return result
}
