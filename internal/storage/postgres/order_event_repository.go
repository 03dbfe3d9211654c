package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type orderEventRepository struct {
	db *sql.DB
}

// NewOrderEventRepository создаёт PostgreSQL-реализацию OrderEventRepository.
func NewOrderEventRepository(store *Store) domain.OrderEventRepository {
	return &orderEventRepository{db: store.DB()}
}

func (r *orderEventRepository) Append(event domain.OrderEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO order_events (id, order_id, event_type, reason, occurred_at)
		VALUES ($1,$2,$3,$4,$5)
	`, event.ID, event.OrderID, event.Type, event.Reason, event.Occurred)
	if err != nil {
		return fmt.Errorf("insert order event: %w", err)
	}

	return nil
}

func (r *orderEventRepository) List(orderID string) ([]domain.OrderEvent, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, event_type, reason, occurred_at
		FROM order_events
		WHERE order_id = $1
		ORDER BY occurred_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order events: %w", err)
	}
	defer rows.Close()

	events := make([]domain.OrderEvent, 0)
	for rows.Next() {
		var event domain.OrderEvent
		if err := rows.Scan(
			&event.ID, &event.OrderID, &event.Type,
			&event.Reason, &event.Occurred,
		); err != nil {
			return nil, fmt.Errorf("scan order event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order events: %w", err)
	}

	return events, nil
}

var _ domain.OrderEventRepository = (*orderEventRepository)(nil)
