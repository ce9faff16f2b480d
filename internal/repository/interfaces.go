package repository

import (
	"context"

	"github.com/greenbasket/storefront/internal/domain"
)

// IdempotencyKeyRepository defines idempotency key data access methods
type IdempotencyKeyRepository interface {
	GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error)
	Create(ctx context.Context, key *domain.IdempotencyKey) error
}

// PaymentEventRepository records payment outcomes the storefront
// observes: wallet callbacks with their verification result, card
// confirmations, failures.
type PaymentEventRepository interface {
	Create(ctx context.Context, event *domain.PaymentEvent) error
	GetByOrderID(ctx context.Context, orderID string) ([]*domain.PaymentEvent, error)
}

// Repositories aggregates all repositories
type Repositories struct {
	IdempotencyKey IdempotencyKeyRepository
	PaymentEvent   PaymentEventRepository
}
