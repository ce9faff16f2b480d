package admin

import (
	"sync"
	"time"

	"github.com/greenbasket/storefront/internal/domain"
)

// OrderCache holds the most recently fetched back-office order list so
// the summary and report endpoints can reuse one fetch, and so status
// updates have local state to mutate optimistically.
type OrderCache struct {
	mu      sync.RWMutex
	orders  []domain.Order
	fetched time.Time
	ttl     time.Duration
}

func NewOrderCache(ttl time.Duration) *OrderCache {
	return &OrderCache{ttl: ttl}
}

// Put replaces the cached list.
func (c *OrderCache) Put(orders []domain.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders = make([]domain.Order, len(orders))
	copy(c.orders, orders)
	c.fetched = time.Now()
}

// Get returns a copy of the cached list, or false when the cache is
// empty or past its TTL.
func (c *OrderCache) Get() ([]domain.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.orders == nil || time.Since(c.fetched) > c.ttl {
		return nil, false
	}
	out := make([]domain.Order, len(c.orders))
	copy(out, c.orders)
	return out, true
}

// SetStatus updates one cached order's status and returns the previous
// value. ok is false when the order is not in the cache.
func (c *OrderCache) SetStatus(orderID string, status domain.OrderStatus) (prev domain.OrderStatus, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.orders {
		if c.orders[i].ID == orderID {
			prev = c.orders[i].OrderStatus
			c.orders[i].OrderStatus = status
			return prev, true
		}
	}
	return "", false
}

// Invalidate drops the cached list.
func (c *OrderCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders = nil
}
