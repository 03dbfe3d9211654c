package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// HashPassword хеширует пароль bcrypt с дефолтной стоимостью.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword сверяет пароль с хешем. Несовпадение возвращается как
// ErrInvalidCredentials, без уточнения причины.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return domain.ErrInvalidCredentials
	}
	return nil
}
