package memory

import (
	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// checkout — in-memory реализация атомарного оформления заказа.
type checkout struct {
	store *Store
}

// PlaceOrder сохраняет заказ, списывает остатки и очищает корзину под
// одной блокировкой хранилища. Любая ошибка откатывает операцию
// целиком: до первой записи проверяются все условия.
func (c *checkout) PlaceOrder(order domain.Order, cartID string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if _, exists := c.store.orders[order.ID]; exists {
		return domain.ErrOrderVersionConflict
	}

	adjustments := make([]domain.StockAdjustment, 0, len(order.Items))
	for _, item := range order.Items {
		adjustments = append(adjustments, domain.StockAdjustment{
			ProductID: item.ProductID,
			Delta:     -item.Quantity,
		})
	}

	// applyStockAdjustments ничего не меняет при ошибке, поэтому
	// порядок "сток, затем заказ и корзина" безопасен.
	if err := c.store.applyStockAdjustments(adjustments); err != nil {
		return err
	}

	c.store.orders[order.ID] = copyOrder(order)
	c.store.cartItems[cartID] = make(map[string]domain.CartItem)
	return nil
}

var _ domain.Checkout = (*checkout)(nil)
