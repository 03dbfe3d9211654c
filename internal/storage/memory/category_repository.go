package memory

import (
	"sort"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// categoryRepository — in-memory реализация CategoryRepository поверх Store.
type categoryRepository struct {
	store *Store
}

func (r *categoryRepository) Create(category domain.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.categories[category.ID] = category
	return nil
}

func (r *categoryRepository) Get(id string) (domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	category, ok := r.store.categories[id]
	if !ok {
		return domain.Category{}, domain.ErrCategoryNotFound
	}
	return category, nil
}

// List возвращает страницу категорий, отсортированных по названию.
func (r *categoryRepository) List(req domain.PageRequest) (domain.Page[domain.Category], error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	all := make([]domain.Category, 0, len(r.store.categories))
	for _, category := range r.store.categories {
		all = append(all, category)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})

	return domain.PaginateSlice(all, req), nil
}

func (r *categoryRepository) Save(category domain.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.categories[category.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	r.store.categories[category.ID] = category
	return nil
}

var _ domain.CategoryRepository = (*categoryRepository)(nil)
