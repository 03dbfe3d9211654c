package memory

import (
	"sort"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// productRepository — in-memory реализация ProductRepository поверх Store.
type productRepository struct {
	store *Store
}

// Create сохраняет новый товар, следя за уникальностью SKU.
func (r *productRepository) Create(product domain.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.productBySKU[product.SKU]; exists {
		return domain.ErrSKUTaken
	}
	r.store.products[product.ID] = product
	r.store.productBySKU[product.SKU] = product.ID
	return nil
}

func (r *productRepository) Get(id string) (domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	product, ok := r.store.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

func (r *productRepository) GetBySKU(sku string) (domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.productBySKU[sku]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return r.store.products[id], nil
}

// List возвращает страницу товаров, отсортированных по названию.
func (r *productRepository) List(req domain.PageRequest) (domain.Page[domain.Product], error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return domain.PaginateSlice(r.sortedLocked(""), req), nil
}

// ListByCategory возвращает страницу товаров одной категории.
func (r *productRepository) ListByCategory(categoryID string, req domain.PageRequest) (domain.Page[domain.Product], error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return domain.PaginateSlice(r.sortedLocked(categoryID), req), nil
}

// Save применяет изменения к существующему товару. Смена SKU на уже
// занятый отклоняется как конфликт.
func (r *productRepository) Save(product domain.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.products[product.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if current.SKU != product.SKU {
		if _, taken := r.store.productBySKU[product.SKU]; taken {
			return domain.ErrSKUTaken
		}
		delete(r.store.productBySKU, current.SKU)
		r.store.productBySKU[product.SKU] = product.ID
	}
	r.store.products[product.ID] = product
	return nil
}

// AdjustStock применяет пакет изменений остатков под одной блокировкой:
// либо все строки, либо ни одной.
func (r *productRepository) AdjustStock(adjustments []domain.StockAdjustment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.applyStockAdjustments(adjustments)
}

// sortedLocked собирает товары (опционально одной категории),
// отсортированные по названию. Вызывается под блокировкой.
func (r *productRepository) sortedLocked(categoryID string) []domain.Product {
	all := make([]domain.Product, 0, len(r.store.products))
	for _, product := range r.store.products {
		if categoryID != "" && product.CategoryID != categoryID {
			continue
		}
		all = append(all, product)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})
	return all
}

var _ domain.ProductRepository = (*productRepository)(nil)
