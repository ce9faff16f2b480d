package domain

import (
	"time"
)

// CartItem is a product selection held in a user's cart.
type CartItem struct {
	ProductID     string   `json:"product_id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	UnitPrice     float64  `json:"unit_price"`
	OriginalPrice *float64 `json:"original_price,omitempty"` // pre-discount price, when the product is on sale
	Quantity      int      `json:"quantity"`
	ImageURL      string   `json:"image_url,omitempty"`
}

// Subtotal returns unit price times quantity for this line.
func (i CartItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Cart is the session-scoped list of items a user intends to purchase.
// It lives in Redis until checkout confirms an order.
type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TotalPrice is always recomputed from current items; it excludes
// delivery fee and tax.
func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ShippingAddress is the delivery destination captured at checkout.
type ShippingAddress struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Address    string   `json:"address"`
	PostalCode string   `json:"postal_code,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

// Order is the client view of a platform-persisted order. The platform
// API owns the record; this type mirrors what checkout and order-history
// screens need.
type Order struct {
	ID                   string          `json:"id"`
	OrderNumber          string          `json:"order_number"`
	UserID               string          `json:"user_id"`
	Items                []CartItem      `json:"items"`
	Shipping             ShippingAddress `json:"shipping"`
	DeliverySlot         string          `json:"delivery_slot"`
	DeliveryInstructions string          `json:"delivery_instructions,omitempty"`
	PaymentMethod        PaymentMethod   `json:"payment_method"`
	Tax                  float64         `json:"tax"`
	ShippingFee          float64         `json:"shipping_fee"`
	Total                float64         `json:"total"`
	PaymentStatus        PaymentStatus   `json:"payment_status"`
	OrderStatus          OrderStatus     `json:"order_status"`
	CreatedAt            time.Time       `json:"created_at"`
}

// CustomerName returns the shipping name, the only customer identity an
// order carries on the storefront side.
func (o *Order) CustomerName() string {
	return o.Shipping.Name
}

// PaymentIntent is the card-processor object backing a card payment
// attempt. Only the card path produces one.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// Product is the catalog view served to browsing screens. The platform
// API is the source of truth.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Category      string   `json:"category"`
	UnitPrice     float64  `json:"unit_price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	InStock       bool     `json:"in_stock"`
}

// Category groups catalog products.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}

// Feedback is a customer message managed from the back office.
type Feedback struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// IdempotencyKey records a checkout submission so the same key replays
// the original order instead of creating a duplicate.
type IdempotencyKey struct {
	Key         string
	UserID      string
	OrderID     string
	RequestHash string
	CreatedAt   time.Time
}

// PaymentEvent is an audit record of a payment outcome observed by the
// storefront: wallet callbacks, card confirmations, verification results.
type PaymentEvent struct {
	ID         string
	OrderID    string
	Provider   string
	Status     string
	Verified   bool
	RawParams  map[string]string
	RecordedAt time.Time
}
