package admin

import (
	"sort"
	"strings"
	"time"

	"github.com/greenbasket/storefront/internal/domain"
)

// CustomerSummary is one row of the back-office customer report.
type CustomerSummary struct {
	CustomerName string  `json:"customer_name"`
	OrderCount   int     `json:"order_count"`
	Total        float64 `json:"total"`
}

// FilterOrders narrows an already-fetched order list by free-text
// search (customer name, order number) and an optional date range.
// Zero time bounds are open.
func FilterOrders(orders []domain.Order, search string, from, to time.Time) []domain.Order {
	search = strings.ToLower(strings.TrimSpace(search))

	var out []domain.Order
	for _, order := range orders {
		if search != "" &&
			!strings.Contains(strings.ToLower(order.CustomerName()), search) &&
			!strings.Contains(strings.ToLower(order.OrderNumber), search) {
			continue
		}
		if !from.IsZero() && order.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && order.CreatedAt.After(to) {
			continue
		}
		out = append(out, order)
	}
	return out
}

// GroupByCustomer aggregates orders into per-customer counts and
// totals, sorted by customer name.
func GroupByCustomer(orders []domain.Order) []CustomerSummary {
	byName := make(map[string]*CustomerSummary)
	for _, order := range orders {
		name := order.CustomerName()
		summary, ok := byName[name]
		if !ok {
			summary = &CustomerSummary{CustomerName: name}
			byName[name] = summary
		}
		summary.OrderCount++
		summary.Total += order.Total
	}

	out := make([]CustomerSummary, 0, len(byName))
	for _, summary := range byName {
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CustomerName < out[j].CustomerName
	})
	return out
}
