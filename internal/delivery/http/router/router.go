// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/router/handler"
	"storefront/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	ProductHandler *handler.ProductHandler
	CartHandler    *handler.CartHandler
	OrderHandler   *handler.OrderHandler
	ReviewHandler  *handler.ReviewHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	productHandler *handler.ProductHandler
	cartHandler    *handler.CartHandler
	orderHandler   *handler.OrderHandler
	reviewHandler  *handler.ReviewHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		productHandler: params.ProductHandler,
		cartHandler:    params.CartHandler,
		orderHandler:   params.OrderHandler,
		reviewHandler:  params.ReviewHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register/user", r.userHandler.RegisterUser)
		authGroup.POST("/register/admin", r.userHandler.RegisterAdmin)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.POST("/refresh", r.userHandler.RefreshToken)
		authGroup.POST("/logout", r.userHandler.Logout)
	}

	// Public catalog routes
	e.GET("/products", r.productHandler.ListProducts)
	e.GET("/products/:id", r.productHandler.GetProduct)
	e.GET("/products/:id/reviews", r.reviewHandler.ListProductReviews)
	e.GET("/categories", r.productHandler.ListCategories)
	e.GET("/shipping-methods", r.orderHandler.ListShippingMethods)

	// Cart routes that require authentication
	cartGroup := e.Group("/cart")
	cartGroup.Use(r.authMiddleware.Authenticate)
	{
		cartGroup.GET("", r.cartHandler.GetCart)
		cartGroup.POST("/items", r.cartHandler.AddItem)
		cartGroup.PUT("/items/:productID", r.cartHandler.UpdateItem)
		cartGroup.DELETE("/items/:productID", r.cartHandler.RemoveItem)
	}

	// Order routes that require authentication
	orderGroup := e.Group("/orders")
	orderGroup.Use(r.authMiddleware.Authenticate)
	{
		orderGroup.POST("/checkout", r.orderHandler.Checkout)
		orderGroup.GET("", r.orderHandler.ListOrders)
		orderGroup.GET("/:id", r.orderHandler.GetOrder)
		orderGroup.POST("/:id/cancel", r.orderHandler.CancelOrder)
		orderGroup.GET("/:id/payment-qr", r.orderHandler.PaymentQR)
	}

	// Review routes that require authentication
	reviewGroup := e.Group("/reviews")
	reviewGroup.Use(r.authMiddleware.Authenticate)
	{
		reviewGroup.POST("", r.reviewHandler.CreateReview)
	}

	// Admin routes that require authentication and the "admin" role
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)                 // First, check if logged in
	adminGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin)) // Then, check for the role
	{
		adminGroup.GET("/products", r.productHandler.ListOwnProducts)
		adminGroup.POST("/products", r.productHandler.CreateProduct)
		adminGroup.PUT("/products/:id", r.productHandler.UpdateProduct)
		adminGroup.DELETE("/products/:id", r.productHandler.DeleteProduct)

		adminGroup.POST("/categories", r.productHandler.CreateCategory)
		adminGroup.DELETE("/categories/:id", r.productHandler.DeleteCategory)

		adminGroup.PUT("/orders/:id/status", r.orderHandler.UpdateStatus)
		adminGroup.POST("/orders/:id/confirm-payment", r.orderHandler.ConfirmPayment)
	}
}
