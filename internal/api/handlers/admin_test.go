package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/greenbasket/storefront/internal/admin"
	"github.com/greenbasket/storefront/internal/config"
	"github.com/greenbasket/storefront/internal/domain"
	"github.com/greenbasket/storefront/internal/platform"
)

func adminTestOrders() []domain.Order {
	return []domain.Order{
		{
			ID:          "order-1",
			OrderNumber: "ON-1001",
			Shipping:    domain.ShippingAddress{Name: "Amina Tariq"},
			Total:       450,
			OrderStatus: domain.OrderStatusPlaced,
			CreatedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:          "order-2",
			OrderNumber: "ON-1002",
			Shipping:    domain.ShippingAddress{Name: "Bilal Khan"},
			Total:       130,
			OrderStatus: domain.OrderStatusDelivered,
			CreatedAt:   time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC),
		},
	}
}

// adminTestPlatform serves the platform endpoints the admin handlers
// call, returning canned orders.
func adminTestPlatform(t *testing.T, orders []domain.Order, updateStatus int) (*platform.Client, *int) {
	t.Helper()
	updateCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v1/admin/orders":
			json.NewEncoder(w).Encode(orders)
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/orders/"):
			id := strings.TrimPrefix(r.URL.Path, "/v1/orders/")
			for i := range orders {
				if orders[i].ID == id {
					json.NewEncoder(w).Encode(orders[i])
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/status"):
			updateCalls++
			w.WriteHeader(updateStatus)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	client := platform.NewClient(config.PlatformConfig{BaseURL: srv.URL}, zap.NewNop())
	return client, &updateCalls
}

func TestAdminListOrders_SearchFilter(t *testing.T) {
	client, _ := adminTestPlatform(t, adminTestOrders(), http.StatusOK)
	cache := admin.NewOrderCache(time.Minute)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/v1/admin/orders", HandleAdminListOrders(client, cache, zap.NewNop()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/admin/orders?search=amina", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ON-1001")
	assert.NotContains(t, w.Body.String(), "ON-1002")
	assert.Contains(t, w.Body.String(), `"count":1`)
}

func TestAdminListOrders_DateRange(t *testing.T) {
	client, _ := adminTestPlatform(t, adminTestOrders(), http.StatusOK)
	cache := admin.NewOrderCache(time.Minute)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/v1/admin/orders", HandleAdminListOrders(client, cache, zap.NewNop()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/admin/orders?from=2026-03-03", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "ON-1001")
	assert.Contains(t, w.Body.String(), "ON-1002")
}

func TestAdminUpdateOrderStatus_ValidTransition(t *testing.T) {
	client, updateCalls := adminTestPlatform(t, adminTestOrders(), http.StatusOK)
	cache := admin.NewOrderCache(time.Minute)
	cache.Put(adminTestOrders())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.PUT("/v1/admin/orders/:id/status", HandleAdminUpdateOrderStatus(client, cache, zap.NewNop()))

	body := strings.NewReader(`{"status":"CONFIRMED"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/v1/admin/orders/order-1/status", body))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *updateCalls)

	// Cached copy reflects the new status
	cached, ok := cache.Get()
	require.True(t, ok)
	assert.Equal(t, domain.OrderStatusConfirmed, cached[0].OrderStatus)
}

func TestAdminUpdateOrderStatus_TerminalOrderRejected(t *testing.T) {
	client, updateCalls := adminTestPlatform(t, adminTestOrders(), http.StatusOK)
	cache := admin.NewOrderCache(time.Minute)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.PUT("/v1/admin/orders/:id/status", HandleAdminUpdateOrderStatus(client, cache, zap.NewNop()))

	// order-2 is DELIVERED; no further transitions allowed
	body := strings.NewReader(`{"status":"PREPARING"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/v1/admin/orders/order-2/status", body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, *updateCalls)
}

func TestAdminUpdateOrderStatus_RemoteFailureRollsBack(t *testing.T) {
	client, _ := adminTestPlatform(t, adminTestOrders(), http.StatusInternalServerError)
	cache := admin.NewOrderCache(time.Minute)
	cache.Put(adminTestOrders())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.PUT("/v1/admin/orders/:id/status", HandleAdminUpdateOrderStatus(client, cache, zap.NewNop()))

	body := strings.NewReader(`{"status":"CONFIRMED"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/v1/admin/orders/order-1/status", body))

	assert.Equal(t, http.StatusBadGateway, w.Code)

	cached, ok := cache.Get()
	require.True(t, ok)
	assert.Equal(t, domain.OrderStatusPlaced, cached[0].OrderStatus)
}

func TestAdminOrdersSummary(t *testing.T) {
	client, _ := adminTestPlatform(t, adminTestOrders(), http.StatusOK)
	cache := admin.NewOrderCache(time.Minute)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/v1/admin/orders/summary", HandleAdminOrdersSummary(client, cache, zap.NewNop()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/admin/orders/summary", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Amina Tariq")
	assert.Contains(t, w.Body.String(), `"count":2`)
}

func TestAdminOrdersPDF(t *testing.T) {
	client, _ := adminTestPlatform(t, adminTestOrders(), http.StatusOK)
	cache := admin.NewOrderCache(time.Minute)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/v1/admin/reports/orders.pdf", HandleAdminOrdersPDF(client, cache, zap.NewNop()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/admin/reports/orders.pdf", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}
