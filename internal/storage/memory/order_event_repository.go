package memory

import (
	"sort"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// orderEventRepository — in-memory история жизненного цикла заказов.
type orderEventRepository struct {
	store *Store
}

// Append добавляет событие в историю заказа.
func (r *orderEventRepository) Append(event domain.OrderEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.orderEvents[event.OrderID] = append(r.store.orderEvents[event.OrderID], event)
	return nil
}

// List возвращает события заказа в хронологическом порядке.
func (r *orderEventRepository) List(orderID string) ([]domain.OrderEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stored := r.store.orderEvents[orderID]
	events := make([]domain.OrderEvent, len(stored))
	copy(events, stored)
	sort.Slice(events, func(i, j int) bool {
		return events[i].Occurred.Before(events[j].Occurred)
	})
	return events, nil
}

var _ domain.OrderEventRepository = (*orderEventRepository)(nil)
