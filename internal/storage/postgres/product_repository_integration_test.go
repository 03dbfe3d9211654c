package postgres

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func TestProductRepository_PostgresAdjustStockGuard(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)

	product := seedProduct(t, store, 100, 10)

	// Обычное списание не трогает флаг active.
	if err := repo.AdjustStock([]domain.StockAdjustment{
		{ProductID: product.ID, Delta: -4},
	}); err != nil {
		t.Fatalf("adjust stock -4: %v", err)
	}
	if stock, active := productStock(t, store, product.ID); stock != 6 || !active {
		t.Fatalf("expected stock=6 active=true, got stock=%d active=%v", stock, active)
	}

	// Уход в минус отклоняется на стороне базы условием UPDATE.
	if err := repo.AdjustStock([]domain.StockAdjustment{
		{ProductID: product.ID, Delta: -7},
	}); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if stock, _ := productStock(t, store, product.ID); stock != 6 {
		t.Fatalf("stock mutated by rejected adjustment: %d", stock)
	}

	if err := repo.AdjustStock([]domain.StockAdjustment{
		{ProductID: "00000000-0000-0000-0000-000000000000", Delta: -1},
	}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductRepository_PostgresAdjustStockAllOrNothing(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)

	first := seedProduct(t, store, 100, 10)
	second := seedProduct(t, store, 100, 1)

	// Вторая строка пакета не проходит, первая должна откатиться.
	err := repo.AdjustStock([]domain.StockAdjustment{
		{ProductID: first.ID, Delta: -2},
		{ProductID: second.ID, Delta: -3},
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	if stock, _ := productStock(t, store, first.ID); stock != 10 {
		t.Fatalf("first product mutated by failed batch: %d", stock)
	}
	if stock, _ := productStock(t, store, second.ID); stock != 1 {
		t.Fatalf("second product mutated by failed batch: %d", stock)
	}
}

func TestProductRepository_PostgresDepletionDeactivates(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)

	product := seedProduct(t, store, 100, 2)

	// Списание в ноль гасит active тем же UPDATE.
	if err := repo.AdjustStock([]domain.StockAdjustment{
		{ProductID: product.ID, Delta: -2},
	}); err != nil {
		t.Fatalf("deplete stock: %v", err)
	}
	if stock, active := productStock(t, store, product.ID); stock != 0 || active {
		t.Fatalf("expected depleted inactive product, got stock=%d active=%v", stock, active)
	}

	// Пополнение возвращает остаток, но не включает товар обратно.
	if err := repo.AdjustStock([]domain.StockAdjustment{
		{ProductID: product.ID, Delta: 5},
	}); err != nil {
		t.Fatalf("restock: %v", err)
	}
	if stock, active := productStock(t, store, product.ID); stock != 5 || active {
		t.Fatalf("expected stock=5 active=false after restock, got stock=%d active=%v", stock, active)
	}
}

func TestProductRepository_PostgresUniqueSKU(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)

	product := seedProduct(t, store, 100, 1)

	duplicate := product
	duplicate.ID = "11111111-1111-1111-1111-111111111111"
	if err := repo.Create(duplicate); !errors.Is(err, domain.ErrSKUTaken) {
		t.Fatalf("expected ErrSKUTaken on duplicate create, got %v", err)
	}

	// Save с чужим SKU бьётся о то же ограничение уникальности.
	other := seedProduct(t, store, 100, 1)
	other.SKU = product.SKU
	if err := repo.Save(other); !errors.Is(err, domain.ErrSKUTaken) {
		t.Fatalf("expected ErrSKUTaken on save, got %v", err)
	}

	missing := product
	missing.ID = "22222222-2222-2222-2222-222222222222"
	missing.SKU = "sku-free-" + missing.ID
	if err := repo.Save(missing); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound on save missing, got %v", err)
	}
}
