package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/greenbasket/storefront/internal/config"
)

func TestPaymentConfig_ServesPublishableKeyOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/v1/payments/config", HandlePaymentConfig(config.CardGatewayConfig{
		SecretKey:      "sk_live_secret",
		PublishableKey: "pk_live_abc",
	}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/payments/config", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pk_live_abc")
	assert.NotContains(t, w.Body.String(), "sk_live_secret")
}
