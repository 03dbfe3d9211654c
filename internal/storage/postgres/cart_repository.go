package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository создаёт PostgreSQL-реализацию CartRepository.
func NewCartRepository(store *Store) domain.CartRepository {
	return &cartRepository{db: store.DB()}
}

// GetOrCreate опирается на уникальность carts.user_id: конкурентные
// первые обращения вставляют с ON CONFLICT DO NOTHING и затем читают
// одну и ту же строку.
func (r *cartRepository) GetOrCreate(userID string) (domain.Cart, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id) DO NOTHING
	`, uuid.NewString(), userID, now, now)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("insert cart: %w", err)
	}

	var cart domain.Cart
	err = r.db.QueryRowContext(ctx, `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("select cart: %w", err)
	}

	return cart, nil
}

func (r *cartRepository) Items(cartID string) ([]domain.CartItem, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT cart_id, product_id, quantity, added_at, updated_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY added_at ASC, product_id ASC
	`, cartID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.CartItem, 0)
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.CartID, &item.ProductID, &item.Quantity,
			&item.AddedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}

	return items, nil
}

func (r *cartRepository) FindItem(cartID, productID string) (domain.CartItem, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var item domain.CartItem
	err := r.db.QueryRowContext(ctx, `
		SELECT cart_id, product_id, quantity, added_at, updated_at
		FROM cart_items
		WHERE cart_id = $1 AND product_id = $2
	`, cartID, productID).Scan(
		&item.CartID, &item.ProductID, &item.Quantity,
		&item.AddedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CartItem{}, domain.ErrCartItemNotFound
		}
		return domain.CartItem{}, fmt.Errorf("select cart item: %w", err)
	}

	return item, nil
}

func (r *cartRepository) SaveItem(item domain.CartItem) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity, added_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (cart_id, product_id) DO UPDATE
		SET quantity = EXCLUDED.quantity,
		    updated_at = EXCLUDED.updated_at
	`, item.CartID, item.ProductID, item.Quantity, item.AddedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}

	return nil
}

func (r *cartRepository) DeleteItem(cartID, productID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE cart_id = $1 AND product_id = $2
	`, cartID, productID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCartItemNotFound
	}

	return nil
}

func (r *cartRepository) Clear(cartID string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	return int(affected), nil
}

var _ domain.CartRepository = (*cartRepository)(nil)
