package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/greenbasket/storefront/internal/domain"
)

const (
	// MinQuantity and MaxQuantity bound a single cart line. Out-of-range
	// values clamp rather than error so a broken stepper never drops an
	// item from the cart.
	MinQuantity = 1
	MaxQuantity = 10
)

// baseTTL keeps carts alive across a wallet-gateway redirect round-trip
// and ordinary browsing sessions. Jitter spreads expiry.
const baseTTL = 7 * 24 * time.Hour

// ErrNotFound is returned by Get when no cart exists for the user.
// Callers that want an empty cart should use GetOrEmpty.
var ErrNotFound = errors.New("cart not found")

// Store keeps per-user carts in Redis. The cart is the only state the
// storefront owns; it is cleared exclusively on confirmed order success.
type Store struct {
	client *redis.Client
	logger *zap.Logger
}

// NewStore creates a Redis-backed cart store.
func NewStore(client *redis.Client, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, logger: logger}
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

// Get returns the user's cart, or ErrNotFound.
func (s *Store) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &cart, nil
}

// GetOrEmpty returns the user's cart, or a fresh empty cart when none
// exists yet.
func (s *Store) GetOrEmpty(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		now := time.Now()
		return &domain.Cart{UserID: userID, CreatedAt: now, UpdatedAt: now}, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem inserts the item, or bumps quantity if the product is already
// in the cart. The resulting quantity is clamped to [MinQuantity, MaxQuantity].
func (s *Store) AddItem(ctx context.Context, userID string, item domain.CartItem) (*domain.Cart, error) {
	cart, err := s.GetOrEmpty(ctx, userID)
	if err != nil {
		return nil, err
	}

	item.Quantity = ClampQuantity(item.Quantity)
	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID {
			cart.Items[i].Quantity = ClampQuantity(cart.Items[i].Quantity + item.Quantity)
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, item)
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets a line's quantity, clamped to [MinQuantity, MaxQuantity].
// Updating a product that is not in the cart returns ErrNotFound.
func (s *Store) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = ClampQuantity(quantity)
			if err := s.save(ctx, cart); err != nil {
				return nil, err
			}
			return cart, nil
		}
	}
	return nil, ErrNotFound
}

// RemoveItem deletes the matching line. Removing an absent product is
// not an error.
func (s *Store) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	cart, err := s.GetOrEmpty(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	cart.Items = items

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the user's cart. Called only after a confirmed order;
// idempotent so a replayed callback is safe.
func (s *Store) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = cart.UpdatedAt
	}

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(60)) * time.Minute
	if err := s.client.Set(ctx, cartKey(cart.UserID), data, baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// ClampQuantity bounds a requested quantity to [MinQuantity, MaxQuantity].
// Zero, negative and unparsed-default values become MinQuantity.
func ClampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}
