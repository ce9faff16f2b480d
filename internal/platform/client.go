package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/greenbasket/storefront/internal/config"
	"github.com/greenbasket/storefront/internal/domain"
	"github.com/greenbasket/storefront/pkg/errors"
)

// Client calls the platform API that owns products, orders, users and
// payments. Requests carry the shopper's bearer token plus the
// storefront service key; the platform is the authorization boundary.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a platform API client.
func NewClient(cfg config.PlatformConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// do issues a JSON request and decodes the response into out (when out
// is non-nil). Non-2xx responses become *errors.ErrUpstream carrying
// the platform's error description when one is present.
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.serviceKey != "" {
		req.Header.Set("X-Service-Key", c.serviceKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Platform request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("platform request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return &errors.ErrNotFound{Resource: "platform resource", ID: path}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &errors.ErrUpstream{
			Operation: method + " " + path,
			Status:    resp.StatusCode,
			Message:   upstreamMessage(respBody),
		}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshal response: %w, body: %s", err, string(respBody))
		}
	}
	return nil
}

// upstreamMessage extracts the platform's error description, if any.
func upstreamMessage(body []byte) string {
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	if parsed.Error != "" {
		return parsed.Error
	}
	return parsed.Message
}

// ListProducts fetches a catalog page, optionally filtered by search
// text and category.
func (c *Client) ListProducts(ctx context.Context, search, category string, page, limit int) (*ProductPage, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if category != "" {
		q.Set("category", category)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	path := "/v1/products"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var result ProductPage
	if err := c.do(ctx, http.MethodGet, path, "", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodGet, "/v1/products/"+url.PathEscape(id), "", nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListCategories fetches all catalog categories.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.do(ctx, http.MethodGet, "/v1/categories", "", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateOrder submits a cart snapshot as a new order. For card payments
// the response carries the payment intent to confirm.
func (c *Client) CreateOrder(ctx context.Context, token string, req CreateOrderRequest) (*CreateOrderResponse, error) {
	var result CreateOrderResponse
	if err := c.do(ctx, http.MethodPost, "/v1/orders", token, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListOrders fetches the shopper's order history.
func (c *Client) ListOrders(ctx context.Context, token string) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, "/v1/orders", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches one of the shopper's orders.
func (c *Client) GetOrder(ctx context.Context, token, orderID string) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodGet, "/v1/orders/"+url.PathEscape(orderID), token, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetPaymentStatus asks the platform for an order's payment state. The
// wallet callback handler uses this to verify redirects before trusting
// them, and the card flow uses it to resolve a processing intent.
func (c *Client) GetPaymentStatus(ctx context.Context, token, orderID string) (*PaymentStatusResult, error) {
	var result PaymentStatusResult
	path := "/v1/orders/" + url.PathEscape(orderID) + "/payment-status"
	if err := c.do(ctx, http.MethodGet, path, token, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// InitiateWalletPayment starts a wallet payment for an order and
// returns the gateway redirect target.
func (c *Client) InitiateWalletPayment(ctx context.Context, token, provider, orderID, accountNumber string) (*WalletRedirect, error) {
	req := map[string]string{
		"order_id":       orderID,
		"account_number": accountNumber,
	}
	var result WalletRedirect
	path := "/v1/payments/" + url.PathEscape(provider) + "/initiate"
	if err := c.do(ctx, http.MethodPost, path, token, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// NotifyPaymentFailed tells the platform a card intent failed so the
// order record reflects it. Best effort; callers log but do not fail on
// an error here.
func (c *Client) NotifyPaymentFailed(ctx context.Context, token, intentID, reason string) error {
	req := map[string]string{
		"intent_id": intentID,
		"reason":    reason,
	}
	return c.do(ctx, http.MethodPost, "/v1/payments/card/failed", token, req, nil)
}

// SubmitFeedback forwards a customer feedback message.
func (c *Client) SubmitFeedback(ctx context.Context, token string, input FeedbackInput) error {
	return c.do(ctx, http.MethodPost, "/v1/feedback", token, input, nil)
}

// --- Back-office operations ---

// AdminListOrders fetches orders across all customers.
func (c *Client) AdminListOrders(ctx context.Context, token string, filter OrderListFilter) ([]domain.Order, error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Offset > 0 {
		q.Set("offset", strconv.Itoa(filter.Offset))
	}

	path := "/v1/admin/orders"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, path, token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AdminUpdateOrderStatus sets an order's fulfillment status.
func (c *Client) AdminUpdateOrderStatus(ctx context.Context, token, orderID string, status domain.OrderStatus) error {
	req := map[string]string{"status": string(status)}
	path := "/v1/admin/orders/" + url.PathEscape(orderID) + "/status"
	return c.do(ctx, http.MethodPut, path, token, req, nil)
}

// AdminCreateProduct creates a catalog product.
func (c *Client) AdminCreateProduct(ctx context.Context, token string, input ProductInput) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPost, "/v1/admin/products", token, input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// AdminUpdateProduct updates a catalog product.
func (c *Client) AdminUpdateProduct(ctx context.Context, token, id string, input ProductInput) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPut, "/v1/admin/products/"+url.PathEscape(id), token, input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// AdminDeleteProduct removes a catalog product.
func (c *Client) AdminDeleteProduct(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/admin/products/"+url.PathEscape(id), token, nil, nil)
}

// AdminCreateCategory creates a category.
func (c *Client) AdminCreateCategory(ctx context.Context, token string, input CategoryInput) (*domain.Category, error) {
	var category domain.Category
	if err := c.do(ctx, http.MethodPost, "/v1/admin/categories", token, input, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// AdminUpdateCategory updates a category.
func (c *Client) AdminUpdateCategory(ctx context.Context, token, id string, input CategoryInput) (*domain.Category, error) {
	var category domain.Category
	if err := c.do(ctx, http.MethodPut, "/v1/admin/categories/"+url.PathEscape(id), token, input, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// AdminDeleteCategory removes a category.
func (c *Client) AdminDeleteCategory(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/admin/categories/"+url.PathEscape(id), token, nil, nil)
}

// AdminListFeedback fetches customer feedback for the back office.
func (c *Client) AdminListFeedback(ctx context.Context, token string) ([]domain.Feedback, error) {
	var feedback []domain.Feedback
	if err := c.do(ctx, http.MethodGet, "/v1/admin/feedback", token, nil, &feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// AdminDeleteFeedback removes a feedback entry.
func (c *Client) AdminDeleteFeedback(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/admin/feedback/"+url.PathEscape(id), token, nil, nil)
}
