package api

import (
	"github.com/gin-gonic/gin"
)

// Handlers собирает всё, что нужно роутеру для сборки маршрутов.
type Handlers struct {
	Auth    *AuthHandler
	Catalog *CatalogHandler
	Cart    *CartHandler
	Order   *OrderHandler
	Access  *AuthMiddleware
}

// NewRouter собирает HTTP-роутер магазина. Чтение каталога открыто,
// корзина и заказы требуют аутентификации, административные маршруты
// дополнительно требуют роль admin.
func NewRouter(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
	}

	v1.GET("/products", h.Catalog.ListProducts)
	v1.GET("/products/:id", h.Catalog.GetProduct)
	v1.GET("/categories", h.Catalog.ListCategories)
	v1.GET("/categories/:id", h.Catalog.GetCategory)

	cartGroup := v1.Group("/cart", h.Access.RequireAuth())
	{
		cartGroup.GET("", h.Cart.GetCart)
		cartGroup.DELETE("", h.Cart.ClearCart)
		cartGroup.POST("/items", h.Cart.AddItem)
		cartGroup.PUT("/items/:product_id", h.Cart.UpdateItem)
		cartGroup.DELETE("/items/:product_id", h.Cart.RemoveItem)
	}

	orderGroup := v1.Group("/orders", h.Access.RequireAuth())
	{
		orderGroup.POST("", h.Order.CreateOrder)
		orderGroup.GET("", h.Order.ListOrders)
		orderGroup.GET("/:id", h.Order.GetOrder)
		orderGroup.POST("/:id/cancel", h.Order.CancelOrder)
	}

	adminGroup := v1.Group("/admin", h.Access.RequireAdmin())
	{
		adminGroup.POST("/products", h.Catalog.CreateProduct)
		adminGroup.PUT("/products/:id", h.Catalog.UpdateProduct)
		adminGroup.POST("/categories", h.Catalog.CreateCategory)
		adminGroup.PUT("/categories/:id", h.Catalog.UpdateCategory)
		adminGroup.GET("/orders", h.Order.ListAllOrders)
		adminGroup.PATCH("/orders/:id/status", h.Order.UpdateStatus)
	}

	return router
}
