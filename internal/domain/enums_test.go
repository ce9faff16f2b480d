package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentMethod_IsValid(t *testing.T) {
	assert.True(t, PaymentMethodCard.IsValid())
	assert.True(t, PaymentMethodPayFast.IsValid())
	assert.True(t, PaymentMethodEasyPay.IsValid())
	assert.True(t, PaymentMethodCOD.IsValid())
	assert.False(t, PaymentMethod("paypal").IsValid())
	assert.False(t, PaymentMethod("").IsValid())
}

func TestPaymentMethod_IsWallet(t *testing.T) {
	assert.True(t, PaymentMethodPayFast.IsWallet())
	assert.True(t, PaymentMethodEasyPay.IsWallet())
	assert.False(t, PaymentMethodCard.IsWallet())
	assert.False(t, PaymentMethodCOD.IsWallet())
}

func TestOrderStatus_Transitions(t *testing.T) {
	assert.True(t, OrderStatusPlaced.CanTransitionTo(OrderStatusConfirmed))
	assert.True(t, OrderStatusConfirmed.CanTransitionTo(OrderStatusPreparing))
	assert.True(t, OrderStatusPreparing.CanTransitionTo(OrderStatusDispatched))
	assert.True(t, OrderStatusDispatched.CanTransitionTo(OrderStatusDelivered))

	// Terminal states
	assert.False(t, OrderStatusDelivered.CanTransitionTo(OrderStatusPlaced))
	assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusConfirmed))

	// No skipping ahead
	assert.False(t, OrderStatusPlaced.CanTransitionTo(OrderStatusDelivered))
}

func TestIsValidDeliverySlot(t *testing.T) {
	for _, slot := range DeliverySlots {
		assert.True(t, IsValidDeliverySlot(slot))
	}
	assert.False(t, IsValidDeliverySlot(""))
	assert.False(t, IsValidDeliverySlot("10:00-11:00"))
}

func TestCart_TotalPrice(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{
			{ProductID: "a", UnitPrice: 50, Quantity: 2},
			{ProductID: "b", UnitPrice: 30, Quantity: 1},
		},
	}
	assert.Equal(t, 130.0, cart.TotalPrice())

	cart.Items[1].Quantity = 3
	assert.Equal(t, 190.0, cart.TotalPrice())

	cart.Items = nil
	assert.Equal(t, 0.0, cart.TotalPrice())
	assert.True(t, cart.IsEmpty())
}
