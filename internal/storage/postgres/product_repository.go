package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const productColumns = `id, sku, name, description, price, stock_quantity, active, category_id, created_at, updated_at`

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) Create(product domain.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (
			id, sku, name, description, price, stock_quantity, active, category_id, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		product.ID, product.SKU, product.Name, product.Description,
		product.Price, product.StockQuantity, product.Active,
		nullableID(product.CategoryID), product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSKUTaken
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

func (r *productRepository) Get(id string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

func (r *productRepository) GetBySKU(sku string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE sku = $1`, sku))
}

func (r *productRepository) List(req domain.PageRequest) (domain.Page[domain.Product], error) {
	return r.listPage(req, `SELECT COUNT(*) FROM products`,
		`SELECT `+productColumns+` FROM products ORDER BY name ASC, id ASC LIMIT $1 OFFSET $2`)
}

func (r *productRepository) ListByCategory(categoryID string, req domain.PageRequest) (domain.Page[domain.Product], error) {
	return r.listPage(req,
		`SELECT COUNT(*) FROM products WHERE category_id = $1`,
		`SELECT `+productColumns+` FROM products WHERE category_id = $3 ORDER BY name ASC, id ASC LIMIT $1 OFFSET $2`,
		categoryID)
}

func (r *productRepository) Save(product domain.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET sku = $1,
		    name = $2,
		    description = $3,
		    price = $4,
		    stock_quantity = $5,
		    active = $6,
		    category_id = $7,
		    updated_at = $8
		WHERE id = $9
	`,
		product.SKU, product.Name, product.Description, product.Price,
		product.StockQuantity, product.Active, nullableID(product.CategoryID),
		product.UpdatedAt, product.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSKUTaken
		}
		return fmt.Errorf("update product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

func (r *productRepository) AdjustStock(adjustments []domain.StockAdjustment) error {
	if len(adjustments) == 0 {
		return nil
	}

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

	for _, adj := range adjustments {
		if err = adjustStockTx(ctx, tx, adj); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit adjust stock: %w", err)
	}

	return nil
}

// adjustStockTx применяет одну дельту остатка внутри транзакции.
// Условие stock_quantity + delta >= 0 отклоняет уход в минус на стороне
// базы; списание до нуля гасит флаг active тем же UPDATE.
func adjustStockTx(ctx context.Context, tx *sql.Tx, adj domain.StockAdjustment) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $1,
		    active = CASE
		        WHEN $1 < 0 AND stock_quantity + $1 = 0 THEN FALSE
		        ELSE active
		    END,
		    updated_at = NOW()
		WHERE id = $2
		  AND stock_quantity + $1 >= 0
	`, adj.Delta, adj.ProductID)
	if err != nil {
		return fmt.Errorf("adjust stock for %s: %w", adj.ProductID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		var id string
		err := tx.QueryRowContext(ctx, `SELECT id FROM products WHERE id = $1`, adj.ProductID).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("check product exists: %w", err)
		}
		return domain.ErrInsufficientStock
	}

	return nil
}

func (r *productRepository) listPage(req domain.PageRequest, countQuery, listQuery string, args ...any) (domain.Page[domain.Product], error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return domain.Page[domain.Product]{}, fmt.Errorf("count products: %w", err)
	}

	listArgs := append([]any{req.Size, req.Offset()}, args...)
	rows, err := r.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return domain.Page[domain.Product]{}, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, req.Size)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return domain.Page[domain.Product]{}, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return domain.Page[domain.Product]{}, fmt.Errorf("iterate product rows: %w", err)
	}

	return domain.NewPage(products, req, total), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var product domain.Product
	var categoryID sql.NullString

	err := row.Scan(
		&product.ID, &product.SKU, &product.Name, &product.Description,
		&product.Price, &product.StockQuantity, &product.Active,
		&categoryID, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("scan product: %w", err)
	}
	product.CategoryID = categoryID.String

	return product, nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
