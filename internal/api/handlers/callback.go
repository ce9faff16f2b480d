package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/greenbasket/storefront/internal/checkout"
)

// HandleWalletCallback handles GET /v1/payments/:provider/callback.
// This is where the wallet gateway lands the shopper after the hosted
// payment page. The query parameters are only a hint; the service
// verifies the actual payment status against the platform before the
// cart is touched.
func HandleWalletCallback(svc *checkout.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		provider := c.Param("provider")

		params := make(map[string]string)
		for name, values := range c.Request.URL.Query() {
			if len(values) > 0 {
				params[name] = values[0]
			}
		}

		result, err := svc.CompleteWalletCallback(c.Request.Context(), provider, params)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		// Always 200: the gateway lands the shopper here regardless of
		// outcome and the body carries the state plus where to go next.
		c.JSON(http.StatusOK, result)
	}
}
