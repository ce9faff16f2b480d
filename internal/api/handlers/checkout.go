package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/greenbasket/storefront/internal/api/middleware"
	"github.com/greenbasket/storefront/internal/checkout"
	"github.com/greenbasket/storefront/internal/domain"
	"github.com/greenbasket/storefront/internal/platform"
	"github.com/greenbasket/storefront/internal/repository"
)

// redirectFormTmpl is the auto-submitting form page for wallet
// redirects: a full-page POST to the gateway, the browser-native
// equivalent of the hidden-form hop.
var redirectFormTmpl = template.Must(template.New("redirect").Parse(`<!DOCTYPE html>
<html>
<head><title>Redirecting to payment</title></head>
<body onload="document.forms[0].submit()">
<p>Redirecting you to the payment page&hellip;</p>
<form method="POST" action="{{.GatewayURL}}">
{{- range $name, $value := .Fields}}
<input type="hidden" name="{{$name}}" value="{{$value}}">
{{- end}}
<noscript><button type="submit">Continue to payment</button></noscript>
</form>
</body>
</html>
`))

// HandleCheckout handles POST /v1/checkout
func HandleCheckout(svc *checkout.Service, client *platform.Client, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.GetClaims(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in to continue", "sign_in": "/signin"})
			return
		}
		token := middleware.GetToken(c)

		// Replay: same idempotency key and payload returns the original
		// order instead of creating another one.
		if _, _, existingOrderID, isExisting := middleware.GetIdempotencyInfo(c); isExisting {
			order, err := client.GetOrder(c.Request.Context(), token, existingOrderID)
			if err != nil {
				respondError(c, logger, err)
				return
			}
			c.JSON(http.StatusOK, checkout.Result{
				State:   domain.StateSuccess,
				Order:   order,
				Message: "Order " + order.OrderNumber + " already placed",
			})
			return
		}

		var req checkout.SubmitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		result, err := svc.Submit(c.Request.Context(), claims, token, req)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		// Store the idempotency key only once payment is confirmed. A
		// failed or still-pending attempt must stay retryable with the
		// same key; replaying it as a success would declare an order
		// paid that never was.
		if key, requestHash, _, _ := middleware.GetIdempotencyInfo(c); key != "" &&
			result.State == domain.StateSuccess && result.Order != nil {
			record := &domain.IdempotencyKey{
				Key:         key,
				UserID:      claims.UserID,
				OrderID:     result.Order.ID,
				RequestHash: requestHash,
			}
			if err := repos.IdempotencyKey.Create(c.Request.Context(), record); err != nil {
				logger.Warn("Failed to store idempotency key", zap.Error(err))
			}
		}

		// Wallet redirects can be rendered as an auto-submitting form
		// page for browsers that want the hop served directly.
		if result.State == domain.StateRedirectPending && c.Query("format") == "html" {
			c.Header("Content-Type", "text/html; charset=utf-8")
			c.Status(http.StatusOK)
			if err := redirectFormTmpl.Execute(c.Writer, result.Redirect); err != nil {
				logger.Error("Failed to render redirect form", zap.Error(err))
			}
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
