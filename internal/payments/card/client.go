package card

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/greenbasket/storefront/internal/config"
	"github.com/greenbasket/storefront/internal/domain"
)

const defaultBaseURL = "https://api.cardgateway.com"

// IntentStatus is the processor's payment-intent state.
type IntentStatus string

const (
	StatusSucceeded             IntentStatus = "succeeded"
	StatusProcessing            IntentStatus = "processing"
	StatusRequiresAction        IntentStatus = "requires_action"
	StatusRequiresPaymentMethod IntentStatus = "requires_payment_method"
)

// Error is a structured processor error. Validation-class errors mean
// the card form was incomplete and the shopper should be re-prompted;
// everything else is surfaced as-is.
type Error struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("card gateway error: %s", e.Type)
}

// IsValidationError reports whether the error means an incomplete or
// malformed card form rather than a declined payment.
func IsValidationError(err error) bool {
	var ge *Error
	if !errors.As(err, &ge) {
		return false
	}
	return ge.Type == "validation_error" || ge.Type == "invalid_request_error" ||
		(ge.Type == "card_error" && strings.HasPrefix(ge.Code, "incomplete_"))
}

// BillingDetails accompany a confirmation so the processor can run
// address verification. Postal code comes from the shipping form, not a
// placeholder.
type BillingDetails struct {
	Name       string
	Email      string
	Phone      string
	Address    string
	PostalCode string
}

// ConfirmResult is the intent state after a confirm or status call.
type ConfirmResult struct {
	IntentID string       `json:"id"`
	Status   IntentStatus `json:"status"`
}

// Client talks to the card processor's server-side API. The shopper's
// browser tokenizes the raw card with the publishable key; only the
// resulting token reaches this client.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a card processor client.
func NewClient(cfg config.CardGatewayConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		secretKey:  cfg.SecretKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// ConfirmIntent confirms a payment intent with a tokenized card and
// billing details.
func (c *Client) ConfirmIntent(ctx context.Context, intent *domain.PaymentIntent, cardToken string, billing BillingDetails) (*ConfirmResult, error) {
	form := url.Values{}
	form.Set("client_secret", intent.ClientSecret)
	form.Set("payment_method_data[token]", cardToken)
	form.Set("payment_method_data[billing_details][name]", billing.Name)
	form.Set("payment_method_data[billing_details][email]", billing.Email)
	form.Set("payment_method_data[billing_details][phone]", billing.Phone)
	form.Set("payment_method_data[billing_details][address][line1]", billing.Address)
	form.Set("payment_method_data[billing_details][address][postal_code]", billing.PostalCode)

	path := "/v1/payment_intents/" + url.PathEscape(intent.ID) + "/confirm"
	return c.post(ctx, path, form)
}

func (c *Client) post(ctx context.Context, path string, form url.Values) (*ConfirmResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.send(req)
}

func (c *Client) send(req *http.Request) (*ConfirmResult, error) {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Card gateway request failed", zap.Error(err))
		return nil, fmt.Errorf("card gateway request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var wrapped struct {
			Error *Error `json:"error"`
		}
		if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Error != nil {
			return nil, wrapped.Error
		}
		return nil, fmt.Errorf("card gateway returned %d: %s", resp.StatusCode, string(body))
	}

	var result ConfirmResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &result, nil
}
