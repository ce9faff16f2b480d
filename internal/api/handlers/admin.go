package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/greenbasket/storefront/internal/admin"
	"github.com/greenbasket/storefront/internal/api/middleware"
	"github.com/greenbasket/storefront/internal/domain"
	"github.com/greenbasket/storefront/internal/platform"
	"github.com/greenbasket/storefront/pkg/errors"
)

// parseDateParam accepts a date-only or RFC 3339 value.
func parseDateParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// fetchAdminOrders returns orders from the cache when fresh, otherwise
// fetches from the platform and repopulates it. The cache is only used
// for unfiltered fetches; a status filter always goes to the platform.
func fetchAdminOrders(c *gin.Context, client *platform.Client, cache *admin.OrderCache, status domain.OrderStatus) ([]domain.Order, error) {
	token := middleware.GetToken(c)
	if status != "" {
		return client.AdminListOrders(c.Request.Context(), token, platform.OrderListFilter{Status: status})
	}
	if orders, ok := cache.Get(); ok {
		return orders, nil
	}
	orders, err := client.AdminListOrders(c.Request.Context(), token, platform.OrderListFilter{})
	if err != nil {
		return nil, err
	}
	cache.Put(orders)
	return orders, nil
}

// HandleAdminListOrders handles GET /v1/admin/orders
func HandleAdminListOrders(client *platform.Client, cache *admin.OrderCache, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := domain.OrderStatus(c.Query("status"))
		if status != "" && !status.IsValid() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("unknown order status %q", status)})
			return
		}
		from, err := parseDateParam(c.Query("from"))
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid from date"})
			return
		}
		to, err := parseDateParam(c.Query("to"))
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid to date"})
			return
		}

		orders, err := fetchAdminOrders(c, client, cache, status)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		filtered := admin.FilterOrders(orders, c.Query("search"), from, to)
		c.JSON(http.StatusOK, gin.H{"orders": filtered, "count": len(filtered)})
	}
}

// UpdateOrderStatusRequest is the admin status-change payload.
type UpdateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

// HandleAdminUpdateOrderStatus handles PUT /v1/admin/orders/:id/status.
// The cached order list is updated optimistically and rolled back if
// the platform rejects the change.
func HandleAdminUpdateOrderStatus(client *platform.Client, cache *admin.OrderCache, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("id")

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}
		if !req.Status.IsValid() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("unknown order status %q", req.Status)})
			return
		}

		token := middleware.GetToken(c)
		order, err := client.GetOrder(c.Request.Context(), token, orderID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		if !order.OrderStatus.CanTransitionTo(req.Status) {
			respondError(c, logger, &errors.ErrInvalidStateTransition{
				From: order.OrderStatus,
				To:   req.Status,
			})
			return
		}

		var applied bool
		mutation := admin.OptimisticMutation[domain.OrderStatus]{
			Apply: func() domain.OrderStatus {
				prev, ok := cache.SetStatus(orderID, req.Status)
				applied = ok
				return prev
			},
			Remote: func() error {
				return client.AdminUpdateOrderStatus(c.Request.Context(), token, orderID, req.Status)
			},
			Rollback: func(prev domain.OrderStatus) {
				if applied {
					cache.SetStatus(orderID, prev)
				}
			},
		}
		if err := mutation.Run(); err != nil {
			respondError(c, logger, err)
			return
		}

		logger.Info("Order status updated",
			zap.String("order_id", orderID),
			zap.String("from", string(order.OrderStatus)),
			zap.String("to", string(req.Status)),
		)
		c.JSON(http.StatusOK, gin.H{
			"order_id": orderID,
			"status":   req.Status,
		})
	}
}

// HandleAdminOrdersSummary handles GET /v1/admin/orders/summary
func HandleAdminOrdersSummary(client *platform.Client, cache *admin.OrderCache, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := fetchAdminOrders(c, client, cache, "")
		if err != nil {
			respondError(c, logger, err)
			return
		}
		summaries := admin.GroupByCustomer(orders)
		c.JSON(http.StatusOK, gin.H{"customers": summaries, "count": len(summaries)})
	}
}

// HandleAdminOrdersPDF handles GET /v1/admin/reports/orders.pdf
func HandleAdminOrdersPDF(client *platform.Client, cache *admin.OrderCache, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := fetchAdminOrders(c, client, cache, "")
		if err != nil {
			respondError(c, logger, err)
			return
		}
		report, err := admin.BuildOrderCountPDF(admin.GroupByCustomer(orders), time.Now())
		if err != nil {
			logger.Error("Failed to build orders report", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="orders-by-customer.pdf"`)
		c.Data(http.StatusOK, "application/pdf", report)
	}
}

// HandleAdminListProducts handles GET /v1/admin/products
func HandleAdminListProducts(client *platform.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		result, err := client.ListProducts(c.Request.Context(), c.Query("search"), c.Query("category"), page, 100)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// HandleAdminCreateProduct handles POST /v1/admin/products
func HandleAdminCreateProduct(client *platform.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input platform.ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}
		product, err := client.AdminCreateProduct(c.Request.Context(), middleware.GetToken(c), input)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// HandleAdminUpdateProduct handles PUT /v1/admin/products/:id
func HandleAdminUpdateProduct(client *platform.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input platform.ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}
		product, err := client.AdminUpdateProduct(c.Request.Context(), middleware.GetToken(c), c.Param("id"), input)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// HandleAdminDeleteProduct handles DELETE /v1/admin/products/:id
func HandleAdminDeleteProduct(client *platform.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := client.AdminDeleteProduct(c.Request.Context(), middleware.GetToken(c), c.Param("id")); err != nil {
			respondError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// HandleAdminListCategories handles GET /v1/admin/categories
func HandleAdminListCategories(client *platform.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := client.ListCategories(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories, "count": len(categories)})
	}
}

// HandleAdminCreateCategory handles POST /v1/admin/categories
func HandleAdminCreateCategory(client *platform.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input platform.CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}
		category, err := client.AdminCreateCategory(c.Request.Context(), middleware.GetToken(c), input)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

// HandleAdminUpdateCategory handles PUT /v1/admin/categories/:id
func HandleAdminUpdateCategory(client *platform.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input platform.CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}
		category, err := client.AdminUpdateCategory(c.Request.Context(), middleware.GetToken(c), c.Param("id"), input)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// HandleAdminDeleteCategory handles DELETE /v1/admin/categories/:id
func HandleAdminDeleteCategory(client *platform.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := client.AdminDeleteCategory(c.Request.Context(), middleware.GetToken(c), c.Param("id")); err != nil {
			respondError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// HandleAdminListFeedback handles GET /v1/admin/feedback
func HandleAdminListFeedback(client *platform.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		feedback, err := client.AdminListFeedback(c.Request.Context(), middleware.GetToken(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"feedback": feedback, "count": len(feedback)})
	}
}

// HandleAdminDeleteFeedback handles DELETE /v1/admin/feedback/:id
func HandleAdminDeleteFeedback(client *platform.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := client.AdminDeleteFeedback(c.Request.Context(), middleware.GetToken(c), c.Param("id")); err != nil {
			respondError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
