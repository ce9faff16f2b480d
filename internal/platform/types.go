package platform

import (
	"github.com/greenbasket/storefront/internal/domain"
)

// CreateOrderRequest is the order-create payload sent to the platform
// API: the cart snapshot plus shipping and delivery metadata. Tax and
// shipping fee are carried but currently always zero.
type CreateOrderRequest struct {
	Items                []domain.CartItem      `json:"items"`
	Shipping             domain.ShippingAddress `json:"shipping"`
	DeliverySlot         string                 `json:"delivery_slot"`
	DeliveryInstructions string                 `json:"delivery_instructions,omitempty"`
	PaymentMethod        domain.PaymentMethod   `json:"payment_method"`
	Tax                  float64                `json:"tax"`
	ShippingFee          float64                `json:"shipping_fee"`
	Total                float64                `json:"total"`
}

// CreateOrderResponse carries the created order and, for card payments
// only, the payment intent to confirm.
type CreateOrderResponse struct {
	Order         domain.Order          `json:"order"`
	PaymentIntent *domain.PaymentIntent `json:"payment_intent,omitempty"`
}

// PaymentStatusResult is the platform's view of an order's payment.
type PaymentStatusResult struct {
	OrderID       string               `json:"order_id"`
	OrderNumber   string               `json:"order_number"`
	UserID        string               `json:"user_id"`
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
	OrderStatus   domain.OrderStatus   `json:"order_status"`
}

// WalletRedirect is the platform's answer to an initiate-payment call:
// the gateway URL and the flat form fields to POST there.
type WalletRedirect struct {
	GatewayURL string            `json:"gateway_url"`
	Fields     map[string]string `json:"fields"`
}

// ProductPage is one page of catalog results.
type ProductPage struct {
	Products []domain.Product `json:"products"`
	Page     int              `json:"page"`
	HasMore  bool             `json:"has_more"`
}

// ProductInput is the admin create/update payload for a product.
type ProductInput struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Category      string   `json:"category"`
	UnitPrice     float64  `json:"unit_price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	InStock       bool     `json:"in_stock"`
}

// CategoryInput is the admin create/update payload for a category.
type CategoryInput struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}

// FeedbackInput is a customer feedback submission.
type FeedbackInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// OrderListFilter narrows admin order listings. Zero values mean no
// filtering on that axis; the platform applies status, the storefront
// applies search and date range in memory.
type OrderListFilter struct {
	Status domain.OrderStatus
	Limit  int
	Offset int
}
