package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/greenbasket/storefront/internal/checkout"
	"github.com/greenbasket/storefront/internal/config"
	"github.com/greenbasket/storefront/internal/domain"
	"github.com/greenbasket/storefront/internal/payments/card"
	"github.com/greenbasket/storefront/internal/payments/wallet"
	"github.com/greenbasket/storefront/internal/platform"
)

type stubPlatform struct {
	createResp  *platform.CreateOrderResponse
	createCalls int
	status      *platform.PaymentStatusResult
	statusErr   error
	statusCalls int
	redirect    *platform.WalletRedirect
}

func (p *stubPlatform) CreateOrder(context.Context, string, platform.CreateOrderRequest) (*platform.CreateOrderResponse, error) {
	p.createCalls++
	return p.createResp, nil
}

func (p *stubPlatform) GetPaymentStatus(context.Context, string, string) (*platform.PaymentStatusResult, error) {
	p.statusCalls++
	return p.status, p.statusErr
}

func (p *stubPlatform) InitiateWalletPayment(context.Context, string, string, string, string) (*platform.WalletRedirect, error) {
	return p.redirect, nil
}

func (p *stubPlatform) NotifyPaymentFailed(context.Context, string, string, string) error {
	return nil
}

type stubCarts struct {
	cart    *domain.Cart
	cleared []string
}

func (s *stubCarts) GetOrEmpty(_ context.Context, userID string) (*domain.Cart, error) {
	if s.cart != nil {
		return s.cart, nil
	}
	return &domain.Cart{UserID: userID}, nil
}

func (s *stubCarts) Clear(_ context.Context, userID string) error {
	s.cleared = append(s.cleared, userID)
	return nil
}

type stubCards struct {
	confirm *card.ConfirmResult
}

func (s stubCards) ConfirmIntent(context.Context, *domain.PaymentIntent, string, card.BillingDetails) (*card.ConfirmResult, error) {
	return s.confirm, nil
}


func callbackTestRouter(p *stubPlatform, carts *stubCarts, gw *wallet.Gateway) *gin.Engine {
	gin.SetMode(gin.TestMode)
	gateways := map[string]*wallet.Gateway{wallet.ProviderPayFast: gw}
	svc := checkout.NewService(p, stubCards{}, carts, gateways, nil, zap.NewNop())
	router := gin.New()
	router.GET("/v1/payments/:provider/callback", HandleWalletCallback(svc, zap.NewNop()))
	return router
}

func signedQuery(gw *wallet.Gateway, params map[string]string) string {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	q.Set("signature", gw.Sign(params))
	return q.Encode()
}

func TestWalletCallback_VerifiedSuccess(t *testing.T) {
	gw := wallet.NewGateway(wallet.ProviderPayFast, config.WalletGatewayConfig{Secret: "shh"})
	stub := &stubPlatform{status: &platform.PaymentStatusResult{
		OrderID:       "order-1",
		OrderNumber:   "ON-1001",
		UserID:        "user-1",
		PaymentStatus: domain.PaymentStatusPaid,
	}}
	carts := &stubCarts{}
	router := callbackTestRouter(stub, carts, gw)

	query := signedQuery(gw, map[string]string{
		"order_id": "order-1",
		"status":   "success",
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/payments/payfast/callback?"+query, nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"success"`)
	assert.Contains(t, w.Body.String(), "ON-1001")
	assert.Contains(t, w.Body.String(), `"redirect_to":"/orders"`)
	assert.Equal(t, []string{"user-1"}, carts.cleared)
}

func TestWalletCallback_PlatformDisagrees(t *testing.T) {
	gw := wallet.NewGateway(wallet.ProviderPayFast, config.WalletGatewayConfig{Secret: "shh"})
	stub := &stubPlatform{status: &platform.PaymentStatusResult{
		OrderID:       "order-1",
		PaymentStatus: domain.PaymentStatusPending,
	}}
	carts := &stubCarts{}
	router := callbackTestRouter(stub, carts, gw)

	query := signedQuery(gw, map[string]string{
		"order_id": "order-1",
		"status":   "success",
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/payments/payfast/callback?"+query, nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"failed"`)
	assert.Empty(t, carts.cleared)
}

func TestWalletCallback_GatewayFailureSkipsVerification(t *testing.T) {
	gw := wallet.NewGateway(wallet.ProviderPayFast, config.WalletGatewayConfig{Secret: "shh"})
	stub := &stubPlatform{}
	router := callbackTestRouter(stub, &stubCarts{}, gw)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/v1/payments/payfast/callback?order_id=order-1&status=failed&message=Insufficient+funds", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient funds")
	assert.Zero(t, stub.statusCalls)
}

func TestWalletCallback_UnknownProvider(t *testing.T) {
	gw := wallet.NewGateway(wallet.ProviderPayFast, config.WalletGatewayConfig{Secret: "shh"})
	router := callbackTestRouter(&stubPlatform{}, &stubCarts{}, gw)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/payments/bitcoin/callback?status=success", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
