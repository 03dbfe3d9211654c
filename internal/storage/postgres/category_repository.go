package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository создаёт PostgreSQL-реализацию CategoryRepository.
func NewCategoryRepository(store *Store) domain.CategoryRepository {
	return &categoryRepository{db: store.DB()}
}

func (r *categoryRepository) Create(category domain.Category) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (
			id, name, parent_id, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5)
	`,
		category.ID, category.Name, nullableID(category.ParentID),
		category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}

	return nil
}

func (r *categoryRepository) Get(id string) (domain.Category, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var category domain.Category
	var parentID sql.NullString

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, parent_id, created_at, updated_at
		FROM categories
		WHERE id = $1
	`, id).Scan(
		&category.ID, &category.Name, &parentID,
		&category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Category{}, domain.ErrCategoryNotFound
		}
		return domain.Category{}, fmt.Errorf("select category: %w", err)
	}
	category.ParentID = parentID.String

	return category, nil
}

func (r *categoryRepository) List(req domain.PageRequest) (domain.Page[domain.Category], error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
		return domain.Page[domain.Category]{}, fmt.Errorf("count categories: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, parent_id, created_at, updated_at
		FROM categories
		ORDER BY name ASC, id ASC
		LIMIT $1 OFFSET $2
	`, req.Size, req.Offset())
	if err != nil {
		return domain.Page[domain.Category]{}, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0, req.Size)
	for rows.Next() {
		var category domain.Category
		var parentID sql.NullString
		if err := rows.Scan(
			&category.ID, &category.Name, &parentID,
			&category.CreatedAt, &category.UpdatedAt,
		); err != nil {
			return domain.Page[domain.Category]{}, fmt.Errorf("scan category row: %w", err)
		}
		category.ParentID = parentID.String
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return domain.Page[domain.Category]{}, fmt.Errorf("iterate category rows: %w", err)
	}

	return domain.NewPage(categories, req, total), nil
}

func (r *categoryRepository) Save(category domain.Category) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE categories
		SET name = $1,
		    parent_id = $2,
		    updated_at = $3
		WHERE id = $4
	`,
		category.Name, nullableID(category.ParentID),
		category.UpdatedAt, category.ID,
	)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCategoryNotFound
	}

	return nil
}

// nullableID превращает пустой идентификатор в NULL для ссылочных колонок.
func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}

var _ domain.CategoryRepository = (*categoryRepository)(nil)
