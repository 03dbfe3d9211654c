package memory

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// cartRepository — in-memory реализация CartRepository поверх Store.
type cartRepository struct {
	store *Store
}

// GetOrCreate возвращает корзину пользователя, создавая её при первом
// обращении. Проверка и вставка идут под одной write-блокировкой,
// поэтому два конкурентных первых обращения получают одну корзину.
func (r *cartRepository) GetOrCreate(userID string) (domain.Cart, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if cartID, ok := r.store.cartByUser[userID]; ok {
		return r.store.carts[cartID], nil
	}

	now := time.Now().UTC()
	cart := domain.Cart{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.store.carts[cart.ID] = cart
	r.store.cartByUser[userID] = cart.ID
	r.store.cartItems[cart.ID] = make(map[string]domain.CartItem)
	return cart, nil
}

// Items возвращает позиции корзины в порядке добавления.
func (r *cartRepository) Items(cartID string) ([]domain.CartItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	byProduct := r.store.cartItems[cartID]
	items := make([]domain.CartItem, 0, len(byProduct))
	for _, item := range byProduct {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].AddedAt.Equal(items[j].AddedAt) {
			return items[i].AddedAt.Before(items[j].AddedAt)
		}
		return items[i].ProductID < items[j].ProductID
	})
	return items, nil
}

func (r *cartRepository) FindItem(cartID, productID string) (domain.CartItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.cartItems[cartID][productID]
	if !ok {
		return domain.CartItem{}, domain.ErrCartItemNotFound
	}
	return item, nil
}

// SaveItem вставляет или обновляет позицию корзины.
func (r *cartRepository) SaveItem(item domain.CartItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	byProduct, ok := r.store.cartItems[item.CartID]
	if !ok {
		byProduct = make(map[string]domain.CartItem)
		r.store.cartItems[item.CartID] = byProduct
	}
	byProduct[item.ProductID] = item
	return nil
}

func (r *cartRepository) DeleteItem(cartID, productID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	byProduct := r.store.cartItems[cartID]
	if _, ok := byProduct[productID]; !ok {
		return domain.ErrCartItemNotFound
	}
	delete(byProduct, productID)
	return nil
}

// Clear удаляет все позиции корзины; сама корзина остаётся.
func (r *cartRepository) Clear(cartID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	removed := len(r.store.cartItems[cartID])
	r.store.cartItems[cartID] = make(map[string]domain.CartItem)
	return removed, nil
}

var _ domain.CartRepository = (*cartRepository)(nil)
