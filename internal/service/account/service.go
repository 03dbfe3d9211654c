package account

import (
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/auth"
	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Service отвечает за регистрацию и вход пользователей.
type Service struct {
	users  domain.UserRepository
	tokens *auth.TokenManager
	logger *log.Entry
}

// NewService создаёт сервис аккаунтов.
func NewService(users domain.UserRepository, tokens *auth.TokenManager, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "account")
	}
	return &Service{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Register создаёт покупателя. Email нормализуется к нижнему регистру;
// дубликат отклоняется как конфликт.
func (s *Service) Register(email, password, name string) (domain.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Name:         name,
		Role:         domain.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(user); err != nil {
		return domain.User{}, err
	}
	s.logger.WithFields(log.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("user registered")
	return user, nil
}

// Login проверяет учётные данные и выпускает токен. Неизвестный email
// и неверный пароль неразличимы для вызывающей стороны.
func (s *Service) Login(email, password string) (string, domain.User, error) {
	user, err := s.users.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if domain.IsNotFound(err) {
			return "", domain.User{}, domain.ErrInvalidCredentials
		}
		return "", domain.User{}, err
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return "", domain.User{}, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", domain.User{}, err
	}
	return token, user, nil
}

// EnsureAdmin создаёт административный аккаунт, если его ещё нет.
// Вызывается при старте приложения с данными из конфигурации;
// повторный запуск с тем же email — no-op.
func (s *Service) EnsureAdmin(email, password string) error {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if _, err := s.users.GetByEmail(normalized); err == nil {
		return nil
	} else if !domain.IsNotFound(err) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := domain.User{
		ID:           uuid.NewString(),
		Email:        normalized,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(admin); err != nil {
		return err
	}
	s.logger.WithField("email", admin.Email).Info("admin account created")
	return nil
}
