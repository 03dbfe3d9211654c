package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository создаёт PostgreSQL-реализацию UserRepository.
func NewUserRepository(store *Store) domain.UserRepository {
	return &userRepository{db: store.DB()}
}

func (r *userRepository) Create(user domain.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, email, password_hash, name, role, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		user.ID, user.Email, user.PasswordHash, user.Name,
		string(user.Role), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *userRepository) Get(id string) (domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id))
}

func (r *userRepository) GetByEmail(email string) (domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, role, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email))
}

func (r *userRepository) scanOne(row *sql.Row) (domain.User, error) {
	var user domain.User
	var role string

	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name,
		&role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}
	user.Role = domain.Role(role)

	return user, nil
}

var _ domain.UserRepository = (*userRepository)(nil)
