package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greenbasket/storefront/internal/domain"
)

type paymentEventRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPaymentEventRepository creates a new payment event repository
func NewPaymentEventRepository(db *sql.DB, logger *zap.Logger) *paymentEventRepository {
	return &paymentEventRepository{db: db, logger: logger}
}

func (r *paymentEventRepository) Create(ctx context.Context, event *domain.PaymentEvent) error {
	query := `
		INSERT INTO payment_events (id, order_id, provider, status, verified, raw_params, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.RecordedAt.IsZero() {
		event.RecordedAt = time.Now()
	}

	rawParamsJSON, err := json.Marshal(event.RawParams)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		event.ID,
		event.OrderID,
		event.Provider,
		event.Status,
		event.Verified,
		rawParamsJSON,
		event.RecordedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create payment event", zap.Error(err))
		return err
	}

	return nil
}

func (r *paymentEventRepository) GetByOrderID(ctx context.Context, orderID string) ([]*domain.PaymentEvent, error) {
	query := `
		SELECT id, order_id, provider, status, verified, raw_params, recorded_at
		FROM payment_events
		WHERE order_id = $1
		ORDER BY recorded_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		r.logger.Error("Failed to list payment events", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var events []*domain.PaymentEvent
	for rows.Next() {
		var event domain.PaymentEvent
		var rawParamsJSON []byte
		if err := rows.Scan(
			&event.ID,
			&event.OrderID,
			&event.Provider,
			&event.Status,
			&event.Verified,
			&rawParamsJSON,
			&event.RecordedAt,
		); err != nil {
			return nil, err
		}
		if len(rawParamsJSON) > 0 {
			if err := json.Unmarshal(rawParamsJSON, &event.RawParams); err != nil {
				return nil, err
			}
		}
		events = append(events, &event)
	}

	return events, rows.Err()
}
