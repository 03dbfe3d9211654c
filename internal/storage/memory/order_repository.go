package memory

import (
	"sort"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// orderRepository — in-memory реализация OrderRepository поверх Store.
type orderRepository struct {
	store *Store
}

// Create сохраняет новый заказ, если ID ещё не занят.
func (r *orderRepository) Create(order domain.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.orders[order.ID]; exists {
		return domain.ErrOrderVersionConflict
	}
	r.store.orders[order.ID] = copyOrder(order)
	return nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepository) Get(id string) (domain.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	order, ok := r.store.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return copyOrder(order), nil
}

// ListByUser возвращает страницу заказов пользователя, новые первыми.
func (r *orderRepository) ListByUser(userID string, req domain.PageRequest) (domain.Page[domain.Order], error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return domain.PaginateSlice(r.sortedLocked(func(o domain.Order) bool {
		return o.UserID == userID
	}), req), nil
}

// List возвращает страницу всех заказов, новые первыми.
func (r *orderRepository) List(req domain.PageRequest) (domain.Page[domain.Order], error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return domain.PaginateSlice(r.sortedLocked(nil), req), nil
}

// ListByStatus возвращает страницу заказов в заданном статусе.
func (r *orderRepository) ListByStatus(status domain.OrderStatus, req domain.PageRequest) (domain.Page[domain.Order], error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return domain.PaginateSlice(r.sortedLocked(func(o domain.Order) bool {
		return o.Status == status
	}), req), nil
}

// Save перезаписывает заказ, проверяя версию (optimistic locking).
func (r *orderRepository) Save(order domain.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.orders[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if current.Version != order.Version {
		return domain.ErrOrderVersionConflict
	}
	// Инкрементируем версию перед сохранением.
	order.Version++
	r.store.orders[order.ID] = copyOrder(order)
	return nil
}

// sortedLocked собирает заказы под фильтром, новые первыми.
// Вызывается под блокировкой.
func (r *orderRepository) sortedLocked(match func(domain.Order) bool) []domain.Order {
	result := make([]domain.Order, 0, len(r.store.orders))
	for _, order := range r.store.orders {
		if match != nil && !match(order) {
			continue
		}
		result = append(result, copyOrder(order))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].OrderedAt.Equal(result[j].OrderedAt) {
			return result[i].OrderedAt.After(result[j].OrderedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

var _ domain.OrderRepository = (*orderRepository)(nil)
