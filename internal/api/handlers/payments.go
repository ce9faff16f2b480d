package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenbasket/storefront/internal/config"
)

// HandlePaymentConfig handles GET /v1/payments/config. Clients need
// the publishable key to tokenize cards before checkout; it is the
// only gateway credential safe to serve.
func HandlePaymentConfig(cfg config.CardGatewayConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"card_publishable_key": cfg.PublishableKey,
		})
	}
}
