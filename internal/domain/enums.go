package domain

// PaymentMethod identifies how a checkout pays for its order.
type PaymentMethod string

const (
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodPayFast PaymentMethod = "payfast"
	PaymentMethodEasyPay PaymentMethod = "easypay"
	PaymentMethodCOD     PaymentMethod = "cod"
)

// IsValid checks if the payment method is one the storefront supports.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodPayFast, PaymentMethodEasyPay, PaymentMethodCOD:
		return true
	default:
		return false
	}
}

// IsWallet reports whether the method pays through a redirect-based
// mobile-wallet gateway.
func (m PaymentMethod) IsWallet() bool {
	return m == PaymentMethodPayFast || m == PaymentMethodEasyPay
}

// WalletProvider returns the gateway tag for wallet methods, empty
// otherwise.
func (m PaymentMethod) WalletProvider() string {
	if m.IsWallet() {
		return string(m)
	}
	return ""
}

// PaymentStatus is the platform-reported payment state of an order.
type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "PENDING"
	PaymentStatusPaid              PaymentStatus = "PAID"
	PaymentStatusFailed            PaymentStatus = "FAILED"
	PaymentStatusRefunded          PaymentStatus = "REFUNDED"
	PaymentStatusCollectOnDelivery PaymentStatus = "COLLECT_ON_DELIVERY"
)

// OrderStatus is the platform-reported fulfillment state of an order.
type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "PLACED"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusPreparing  OrderStatus = "PREPARING"
	OrderStatusDispatched OrderStatus = "DISPATCHED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// IsValid checks if the order status is one the admin screens may set.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPlaced, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusDispatched, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if an admin status change is valid. Delivered
// and cancelled are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPlaced:
		return next == OrderStatusConfirmed || next == OrderStatusCancelled
	case OrderStatusConfirmed:
		return next == OrderStatusPreparing || next == OrderStatusCancelled
	case OrderStatusPreparing:
		return next == OrderStatusDispatched || next == OrderStatusCancelled
	case OrderStatusDispatched:
		return next == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false
	default:
		return false
	}
}

// CheckoutState tracks a checkout attempt through its stages. Wallet
// payments leave the flow in StateRedirectPending; the callback handler
// finishes the attempt later.
type CheckoutState string

const (
	StateIdle              CheckoutState = "idle"
	StateValidating        CheckoutState = "validating"
	StateCreatingOrder     CheckoutState = "creating_order"
	StateConfirmingPayment CheckoutState = "confirming_payment"
	StateRedirectPending   CheckoutState = "redirect_pending"
	StateSuccess           CheckoutState = "success"
	StateFailed            CheckoutState = "failed"
)

// DeliverySlots is the fixed set of selectable delivery windows.
var DeliverySlots = []string{
	"09:00-12:00",
	"12:00-15:00",
	"15:00-18:00",
	"18:00-21:00",
}

// IsValidDeliverySlot checks membership in the fixed slot set.
func IsValidDeliverySlot(slot string) bool {
	for _, s := range DeliverySlots {
		if s == slot {
			return true
		}
	}
	return false
}
