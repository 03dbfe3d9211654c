package catalog_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func newService(t *testing.T) (*catalog.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return catalog.NewService(store.Products(), store.Categories(), nil), store
}

func productInput(sku string, stock int32) catalog.ProductInput {
	return catalog.ProductInput{
		SKU:           sku,
		Name:          "Product " + sku,
		Price:         decimal.NewFromInt(100),
		StockQuantity: stock,
	}
}

func TestCreateProduct(t *testing.T) {
	svc, _ := newService(t)

	product, err := svc.CreateProduct(productInput("sku-1", 5))
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if !product.Active {
		t.Fatal("product with stock must be active")
	}

	// Нулевой начальный остаток сразу делает товар неактивным.
	empty, err := svc.CreateProduct(productInput("sku-2", 0))
	if err != nil {
		t.Fatalf("create empty product: %v", err)
	}
	if empty.Active {
		t.Fatal("product without stock must be inactive")
	}
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	svc, _ := newService(t)

	if _, err := svc.CreateProduct(productInput("sku-1", 5)); err != nil {
		t.Fatalf("create product: %v", err)
	}
	if _, err := svc.CreateProduct(productInput("sku-1", 3)); !errors.Is(err, domain.ErrSKUTaken) {
		t.Fatalf("expected ErrSKUTaken, got %v", err)
	}
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	svc, _ := newService(t)

	in := productInput("sku-1", 5)
	in.CategoryID = "missing"
	if _, err := svc.CreateProduct(in); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestUpdateProduct_DoesNotTouchStock(t *testing.T) {
	svc, _ := newService(t)

	created, err := svc.CreateProduct(productInput("sku-1", 7))
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	in := productInput("sku-1", 0)
	in.Name = "Renamed"
	in.Price = decimal.NewFromInt(250)
	updated, err := svc.UpdateProduct(created.ID, in)
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if updated.Name != "Renamed" || !updated.Price.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("descriptive fields not updated: %+v", updated)
	}
	if updated.StockQuantity != 7 {
		t.Fatalf("stock must not change via update: %d", updated.StockQuantity)
	}
}

func TestValidateAndGetProduct(t *testing.T) {
	svc, _ := newService(t)

	product, err := svc.CreateProduct(productInput("sku-1", 3))
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	got, err := svc.ValidateAndGetProduct(product.ID)
	if err != nil {
		t.Fatalf("validate product: %v", err)
	}
	if got.ID != product.ID {
		t.Fatalf("wrong product: %s", got.ID)
	}

	if _, err := svc.ValidateAndGetProduct("missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestValidateAndGetProduct_DeactivatesLegacyZeroStock(t *testing.T) {
	svc, store := newService(t)

	// Строка, записанная до правила "списание до нуля деактивирует":
	// нулевой остаток при активном флаге.
	legacy := domain.Product{
		ID:            "legacy-1",
		SKU:           "sku-legacy",
		Name:          "Legacy",
		Price:         decimal.NewFromInt(50),
		StockQuantity: 0,
		Active:        true,
	}
	if err := store.Products().Create(legacy); err != nil {
		t.Fatalf("seed legacy product: %v", err)
	}

	if _, err := svc.ValidateAndGetProduct(legacy.ID); !errors.Is(err, domain.ErrProductDisabled) {
		t.Fatalf("expected ErrProductDisabled, got %v", err)
	}

	repaired, err := store.Products().Get(legacy.ID)
	if err != nil {
		t.Fatalf("get repaired product: %v", err)
	}
	if repaired.Active {
		t.Fatal("zero stock product must be deactivated on validation")
	}
}

func TestValidateProductsForOrder(t *testing.T) {
	svc, _ := newService(t)

	product, err := svc.CreateProduct(productInput("sku-1", 2))
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	lines := []domain.CartItem{{CartID: "c1", ProductID: product.ID, Quantity: 3}}
	if _, err := svc.ValidateProductsForOrder(lines); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	lines[0].Quantity = 2
	products, err := svc.ValidateProductsForOrder(lines)
	if err != nil {
		t.Fatalf("validate lines: %v", err)
	}
	if len(products) != 1 || products[0].ID != product.ID {
		t.Fatalf("unexpected products: %+v", products)
	}
}

func TestCategories(t *testing.T) {
	svc, _ := newService(t)

	parent, err := svc.CreateCategory("Books", "")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	child, err := svc.CreateCategory("Fiction", parent.ID)
	if err != nil {
		t.Fatalf("create child category: %v", err)
	}
	if child.ParentID != parent.ID {
		t.Fatalf("child parent mismatch: %q", child.ParentID)
	}

	if _, err := svc.CreateCategory("Orphan", "missing"); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	// Категория не может стать родителем самой себя.
	if _, err := svc.UpdateCategory(parent.ID, "Books", parent.ID); !errors.Is(err, domain.ErrCategorySelfParent) {
		t.Fatalf("expected ErrCategorySelfParent, got %v", err)
	}
}
