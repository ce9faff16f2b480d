package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/greenbasket/storefront/internal/admin"
	"github.com/greenbasket/storefront/internal/api/handlers"
	"github.com/greenbasket/storefront/internal/api/middleware"
	"github.com/greenbasket/storefront/internal/cart"
	"github.com/greenbasket/storefront/internal/checkout"
	"github.com/greenbasket/storefront/internal/config"
	"github.com/greenbasket/storefront/internal/platform"
	"github.com/greenbasket/storefront/internal/repository"
)

// Dependencies carries everything the route handlers need.
type Dependencies struct {
	Config   *config.Config
	Platform *platform.Client
	Carts    *cart.Store
	Checkout *checkout.Service
	Repos    *repository.Repositories
	Redis    *redis.Client
	Logger   *zap.Logger
}

// NewRouter creates and configures the Gin router
func NewRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	logger := deps.Logger

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "GreenBasket Storefront API",
			"endpoints": []string{
				"GET /health",
				"GET /v1/catalog/products",
				"GET /v1/catalog/categories",
				"GET /v1/cart",
				"POST /v1/checkout",
				"GET /v1/payments/:provider/callback",
				"GET /v1/orders",
				"GET /v1/account",
				"POST /v1/feedback",
				"GET /v1/admin/orders",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Wallet gateways land shoppers here after the hosted payment page;
	// there is no session to require, verification happens server-side.
	router.GET("/v1/payments/:provider/callback",
		middleware.OptionalAuthMiddleware(logger),
		handlers.HandleWalletCallback(deps.Checkout, logger))

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Public catalog
		v1.GET("/catalog/products", handlers.HandleListProducts(deps.Platform, logger))
		v1.GET("/catalog/products/:id", handlers.HandleGetProduct(deps.Platform, logger))
		v1.GET("/catalog/categories", handlers.HandleListCategories(deps.Platform, logger))

		// Card tokenization config for browsing clients
		v1.GET("/payments/config", handlers.HandlePaymentConfig(cfg.CardGateway))

		// Shopper routes (require authentication)
		shopperRoutes := v1.Group("")
		shopperRoutes.Use(middleware.AuthMiddleware(logger))
		{
			shopperRoutes.GET("/cart", handlers.HandleGetCart(deps.Carts, logger))
			shopperRoutes.POST("/cart/items", handlers.HandleAddCartItem(deps.Carts, logger))
			shopperRoutes.PUT("/cart/items/:productID", handlers.HandleUpdateCartItem(deps.Carts, logger))
			shopperRoutes.DELETE("/cart/items/:productID", handlers.HandleRemoveCartItem(deps.Carts, logger))
			shopperRoutes.DELETE("/cart", handlers.HandleClearCart(deps.Carts, logger))

			shopperRoutes.POST("/checkout",
				middleware.IdempotencyMiddleware(deps.Repos, logger),
				middleware.CheckoutLockMiddleware(deps.Redis, logger),
				handlers.HandleCheckout(deps.Checkout, deps.Platform, deps.Repos, logger))

			shopperRoutes.GET("/orders", handlers.HandleListOrders(deps.Platform, logger))
			shopperRoutes.GET("/orders/:id", handlers.HandleGetOrder(deps.Platform, logger))
			shopperRoutes.GET("/account", handlers.HandleAccount())
			shopperRoutes.POST("/feedback", handlers.HandleSubmitFeedback(deps.Platform, logger))
		}

		// Back-office routes (admin role or service key)
		orderCache := admin.NewOrderCache(30 * time.Second)
		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(middleware.AuthMiddleware(logger))
		adminRoutes.Use(middleware.RequireAdmin(cfg.Admin.ServiceKeyHash, logger))
		{
			adminRoutes.GET("/products", handlers.HandleAdminListProducts(deps.Platform, logger))
			adminRoutes.POST("/products", handlers.HandleAdminCreateProduct(deps.Platform, logger))
			adminRoutes.PUT("/products/:id", handlers.HandleAdminUpdateProduct(deps.Platform, logger))
			adminRoutes.DELETE("/products/:id", handlers.HandleAdminDeleteProduct(deps.Platform, logger))

			adminRoutes.GET("/categories", handlers.HandleAdminListCategories(deps.Platform, logger))
			adminRoutes.POST("/categories", handlers.HandleAdminCreateCategory(deps.Platform, logger))
			adminRoutes.PUT("/categories/:id", handlers.HandleAdminUpdateCategory(deps.Platform, logger))
			adminRoutes.DELETE("/categories/:id", handlers.HandleAdminDeleteCategory(deps.Platform, logger))

			adminRoutes.GET("/orders", handlers.HandleAdminListOrders(deps.Platform, orderCache, logger))
			adminRoutes.PUT("/orders/:id/status", handlers.HandleAdminUpdateOrderStatus(deps.Platform, orderCache, logger))
			adminRoutes.GET("/orders/summary", handlers.HandleAdminOrdersSummary(deps.Platform, orderCache, logger))
			adminRoutes.GET("/reports/orders.pdf", handlers.HandleAdminOrdersPDF(deps.Platform, orderCache, logger))

			adminRoutes.GET("/feedback", handlers.HandleAdminListFeedback(deps.Platform, logger))
			adminRoutes.DELETE("/feedback/:id", handlers.HandleAdminDeleteFeedback(deps.Platform, logger))
		}
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
