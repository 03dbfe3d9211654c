package memory

import (
	"strings"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// userRepository — in-memory реализация UserRepository поверх Store.
type userRepository struct {
	store *Store
}

// Create сохраняет нового пользователя, следя за уникальностью email.
func (r *userRepository) Create(user domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, exists := r.store.userByEmail[email]; exists {
		return domain.ErrEmailTaken
	}
	r.store.users[user.ID] = user
	r.store.userByEmail[email] = user.ID
	return nil
}

// Get возвращает пользователя или ErrUserNotFound.
func (r *userRepository) Get(id string) (domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

// GetByEmail возвращает пользователя по email без учёта регистра.
func (r *userRepository) GetByEmail(email string) (domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.userByEmail[strings.ToLower(email)]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return r.store.users[id], nil
}

var _ domain.UserRepository = (*userRepository)(nil)
