package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/greenbasket/storefront/internal/api/middleware"
	"github.com/greenbasket/storefront/internal/platform"
)

// HandleListOrders handles GET /v1/orders
func HandleListOrders(client *platform.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := middleware.GetToken(c)
		orders, err := client.ListOrders(c.Request.Context(), token)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
	}
}

// HandleGetOrder handles GET /v1/orders/:id
func HandleGetOrder(client *platform.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := middleware.GetToken(c)
		order, err := client.GetOrder(c.Request.Context(), token, c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// HandleAccount handles GET /v1/account. It echoes the claims the
// request authenticated with so clients can gate UI without decoding
// the token themselves.
func HandleAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.GetClaims(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in to continue", "sign_in": "/signin"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user_id": claims.UserID,
			"email":   claims.Email,
			"name":    claims.Name,
			"role":    claims.Role,
			"admin":   claims.IsAdmin(),
		})
	}
}

// HandleSubmitFeedback handles POST /v1/feedback
func HandleSubmitFeedback(client *platform.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input platform.FeedbackInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		token := middleware.GetToken(c)
		if err := client.SubmitFeedback(c.Request.Context(), token, input); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Thanks for your feedback"})
	}
}
