package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/storefront/internal/auth"
	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// identityKey — ключ, под которым identity лежит в контексте gin
// после прохождения RequireAuth.
const identityKey = "identity"

// AuthMiddleware разрешает Bearer-токены в identity запроса.
type AuthMiddleware struct {
	tokens *auth.TokenManager
}

// NewAuthMiddleware создаёт middleware поверх менеджера токенов.
func NewAuthMiddleware(tokens *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth отклоняет запросы без валидного Bearer-токена.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := m.resolve(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireAdmin пропускает только администраторов: 401 без валидного
// токена, 403 с токеном покупателя.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := m.resolve(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if !identity.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": domain.ErrAdminRequired.Error()})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

func (m *AuthMiddleware) resolve(c *gin.Context) (domain.Identity, error) {
	header := c.GetHeader("Authorization")
	if len(header) <= 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return domain.Identity{}, domain.ErrTokenInvalid
	}
	return m.tokens.Resolve(header[7:])
}

// identityFrom достаёт identity, положенную RequireAuth/RequireAdmin.
func identityFrom(c *gin.Context) domain.Identity {
	value, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}
	}
	identity, _ := value.(domain.Identity)
	return identity
}
