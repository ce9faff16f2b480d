package errors

import (
	"fmt"

	"github.com/greenbasket/storefront/internal/domain"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when authentication fails
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrConflict is returned when there's a conflict (e.g., idempotency)
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "conflict"
}

// ErrValidation is returned when checkout or form validation fails
// before any network call is made.
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrInvalidStateTransition is returned when an invalid order status
// transition is attempted from the back office.
type ErrInvalidStateTransition struct {
	From domain.OrderStatus
	To   domain.OrderStatus
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// ErrPaymentDeclined is returned when the card processor rejects a
// confirmation for a non-validation reason.
type ErrPaymentDeclined struct {
	IntentID string
	Message  string
}

func (e *ErrPaymentDeclined) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("payment declined: %s", e.IntentID)
}

// ErrUpstream is returned when the platform API rejects a request or
// cannot be reached.
type ErrUpstream struct {
	Operation string
	Status    int
	Message   string
}

func (e *ErrUpstream) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("%s: upstream returned %d", e.Operation, e.Status)
}
