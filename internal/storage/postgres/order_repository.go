package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const (
	opTimeout = 5 * time.Second

	orderColumns = `id, number, user_id, status, total_amount, shipping_address, version, ordered_at, updated_at`
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) Create(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
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

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}

	return nil
}

// insertOrderTx вставляет заказ с позициями внутри уже открытой
// транзакции; используется и репозиторием, и оформлением заказа.
func insertOrderTx(ctx context.Context, tx *sql.Tx, order domain.Order) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, number, user_id, status, total_amount, shipping_address, version, ordered_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		order.ID, order.Number, order.UserID, string(order.Status),
		order.TotalAmount, order.ShippingAddress, order.Version,
		order.OrderedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderVersionConflict
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, product_id, sku, name, quantity, unit_price, total_price, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`,
			item.ID, order.ID, item.ProductID, item.SKU, item.Name,
			item.Quantity, item.UnitPrice, item.TotalPrice, item.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return nil
}

func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	order, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return domain.Order{}, err
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items

	return order, nil
}

func (r *orderRepository) ListByUser(userID string, req domain.PageRequest) (domain.Page[domain.Order], error) {
	return r.listPage(req,
		`SELECT COUNT(*) FROM orders WHERE user_id = $1`,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $3 ORDER BY ordered_at DESC, id DESC LIMIT $1 OFFSET $2`,
		userID)
}

func (r *orderRepository) List(req domain.PageRequest) (domain.Page[domain.Order], error) {
	return r.listPage(req, `SELECT COUNT(*) FROM orders`,
		`SELECT `+orderColumns+` FROM orders ORDER BY ordered_at DESC, id DESC LIMIT $1 OFFSET $2`)
}

func (r *orderRepository) ListByStatus(status domain.OrderStatus, req domain.PageRequest) (domain.Page[domain.Order], error) {
	return r.listPage(req,
		`SELECT COUNT(*) FROM orders WHERE status = $1`,
		`SELECT `+orderColumns+` FROM orders WHERE status = $3 ORDER BY ordered_at DESC, id DESC LIMIT $1 OFFSET $2`,
		string(status))
}

func (r *orderRepository) Save(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1,
		    total_amount = $2,
		    version = version + 1,
		    updated_at = $3
		WHERE id = $4
		  AND version = $5
	`,
		string(order.Status), order.TotalAmount,
		order.UpdatedAt, order.ID, order.Version,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := r.orderExists(ctx, order.ID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrOrderNotFound
		}
		return domain.ErrOrderVersionConflict
	}

	return nil
}

func (r *orderRepository) listPage(req domain.PageRequest, countQuery, listQuery string, args ...any) (domain.Page[domain.Order], error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return domain.Page[domain.Order]{}, fmt.Errorf("count orders: %w", err)
	}

	listArgs := append([]any{req.Size, req.Offset()}, args...)
	rows, err := r.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return domain.Page[domain.Order]{}, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, req.Size)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return domain.Page[domain.Order]{}, err
		}

		items, err := r.loadItems(ctx, order.ID)
		if err != nil {
			return domain.Page[domain.Order]{}, err
		}
		order.Items = items
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return domain.Page[domain.Order]{}, fmt.Errorf("iterate order rows: %w", err)
	}

	return domain.NewPage(orders, req, total), nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, sku, name, quantity, unit_price, total_price, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID, &item.ProductID, &item.SKU, &item.Name,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

func (r *orderRepository) orderExists(ctx context.Context, orderID string) (bool, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM orders WHERE id = $1`, orderID).Scan(&id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check order exists: %w", err)
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var order domain.Order
	var status string

	err := row.Scan(
		&order.ID, &order.Number, &order.UserID, &status,
		&order.TotalAmount, &order.ShippingAddress, &order.Version,
		&order.OrderedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("scan order: %w", err)
	}
	order.Status = domain.OrderStatus(status)

	return order, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.OrderRepository = (*orderRepository)(nil)
