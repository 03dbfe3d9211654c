package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const defaultTokenTTL = 24 * time.Hour

// claims дополняет registered claims ролью и email пользователя.
type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// TokenManager выпускает и разбирает подписанные HS256 токены.
// Разрешение токена не имеет побочных эффектов.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager создаёт менеджер с заданным секретом и временем жизни токена.
// ttl <= 0 заменяется значением по умолчанию (сутки).
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue выпускает токен для пользователя.
func (m *TokenManager) Issue(user domain.User) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Email: user.Email,
		Role:  string(user.Role),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Resolve превращает токен в identity действующего пользователя.
// Любой дефект токена — формат, подпись, срок — даёт ErrTokenInvalid.
func (m *TokenManager) Resolve(tokenString string) (domain.Identity, error) {
	if tokenString == "" {
		return domain.Identity{}, domain.ErrTokenInvalid
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil {
		return domain.Identity{}, domain.ErrTokenInvalid
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || c.Subject == "" {
		return domain.Identity{}, domain.ErrTokenInvalid
	}

	return domain.Identity{
		UserID: c.Subject,
		Email:  c.Email,
		Role:   domain.Role(c.Role),
	}, nil
}

// RequireAdmin разрешает токен и требует роль admin.
func (m *TokenManager) RequireAdmin(tokenString string) (domain.Identity, error) {
	identity, err := m.Resolve(tokenString)
	if err != nil {
		return domain.Identity{}, err
	}
	if !identity.IsAdmin() {
		return domain.Identity{}, domain.ErrAdminRequired
	}
	return identity, nil
}
