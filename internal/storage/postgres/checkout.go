package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type checkout struct {
	db *sql.DB
}

// NewCheckout создаёт PostgreSQL-реализацию оформления заказа.
func NewCheckout(store *Store) domain.Checkout {
	return &checkout{db: store.DB()}
}

// PlaceOrder выполняет оформление в одной транзакции: вставка заказа с
// позициями, списание остатков по каждой позиции и очистка корзины.
// Любой сбой, включая нехватку остатка, откатывает всю транзакцию.
func (c *checkout) PlaceOrder(order domain.Order, cartID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = insertOrderTx(ctx, tx, order); err != nil {
		return err
	}

	for _, item := range order.Items {
		if err = adjustStockTx(ctx, tx, domain.StockAdjustment{
			ProductID: item.ProductID,
			Delta:     -item.Quantity,
		}); err != nil {
			return err
		}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		err = fmt.Errorf("clear cart: %w", err)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit place order: %w", err)
	}

	return nil
}

var _ domain.Checkout = (*checkout)(nil)
