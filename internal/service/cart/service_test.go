package cart_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/cart"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func newService(t *testing.T) (*cart.Service, *catalog.Service) {
	t.Helper()
	store := memory.NewStore()
	catalogSvc := catalog.NewService(store.Products(), store.Categories(), nil)
	return cart.NewService(store.Carts(), catalogSvc, nil), catalogSvc
}

func createProduct(t *testing.T, catalogSvc *catalog.Service, sku string, price int64, stock int32) domain.Product {
	t.Helper()
	product, err := catalogSvc.CreateProduct(catalog.ProductInput{
		SKU:           sku,
		Name:          "Product " + sku,
		Price:         decimal.NewFromInt(price),
		StockQuantity: stock,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestAddItem_TwiceIncrementsQuantity(t *testing.T) {
	svc, catalogSvc := newService(t)
	product := createProduct(t, catalogSvc, "sku-1", 100, 10)

	first, err := svc.AddItem("user-1", product.ID)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	if first.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", first.Quantity)
	}

	second, err := svc.AddItem("user-1", product.ID)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if second.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", second.Quantity)
	}

	details, err := svc.GetCart("user-1")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(details.Lines) != 1 {
		t.Fatalf("expected single line, got %d", len(details.Lines))
	}
	if !details.Total.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected total 200, got %s", details.Total)
	}
}

func TestAddItem_UnsellableProduct(t *testing.T) {
	svc, catalogSvc := newService(t)
	depleted := createProduct(t, catalogSvc, "sku-1", 100, 0)

	if _, err := svc.AddItem("user-1", depleted.ID); !errors.Is(err, domain.ErrProductDisabled) {
		t.Fatalf("expected ErrProductDisabled, got %v", err)
	}
	if _, err := svc.AddItem("user-1", "missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestUpdateItem(t *testing.T) {
	svc, catalogSvc := newService(t)
	product := createProduct(t, catalogSvc, "sku-1", 100, 10)

	if _, err := svc.AddItem("user-1", product.ID); err != nil {
		t.Fatalf("add item: %v", err)
	}

	item, err := svc.UpdateItem("user-1", product.ID, 5)
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if item.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", item.Quantity)
	}
}

func TestUpdateItem_ZeroRemoves(t *testing.T) {
	svc, catalogSvc := newService(t)
	product := createProduct(t, catalogSvc, "sku-1", 100, 10)

	if _, err := svc.AddItem("user-1", product.ID); err != nil {
		t.Fatalf("add item: %v", err)
	}

	if _, err := svc.UpdateItem("user-1", product.ID, 0); err != nil {
		t.Fatalf("update to zero: %v", err)
	}

	details, err := svc.GetCart("user-1")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(details.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(details.Lines))
	}
}

func TestRemoveItem_Missing(t *testing.T) {
	svc, _ := newService(t)

	if err := svc.RemoveItem("user-1", "missing"); !errors.Is(err, domain.ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}
}

func TestClearCart(t *testing.T) {
	svc, catalogSvc := newService(t)
	first := createProduct(t, catalogSvc, "sku-1", 100, 10)
	second := createProduct(t, catalogSvc, "sku-2", 50, 10)

	if _, err := svc.AddItem("user-1", first.ID); err != nil {
		t.Fatalf("add first: %v", err)
	}
	if _, err := svc.AddItem("user-1", second.ID); err != nil {
		t.Fatalf("add second: %v", err)
	}

	removed, err := svc.ClearCart("user-1")
	if err != nil {
		t.Fatalf("clear cart: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed items, got %d", removed)
	}

	// Повторная очистка пустой корзины — не ошибка.
	removed, err = svc.ClearCart("user-1")
	if err != nil {
		t.Fatalf("second clear: %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected 0 removed items, got %d", removed)
	}
}

func TestGetCart_UsesCurrentPrices(t *testing.T) {
	svc, catalogSvc := newService(t)
	product := createProduct(t, catalogSvc, "sku-1", 100, 10)

	if _, err := svc.AddItem("user-1", product.ID); err != nil {
		t.Fatalf("add item: %v", err)
	}

	// Корзина не фиксирует цену: после подорожания строка пересчитывается.
	if _, err := catalogSvc.UpdateProduct(product.ID, catalog.ProductInput{
		SKU:   product.SKU,
		Name:  product.Name,
		Price: decimal.NewFromInt(150),
	}); err != nil {
		t.Fatalf("update price: %v", err)
	}

	details, err := svc.GetCart("user-1")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if !details.Total.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected total 150, got %s", details.Total)
	}
}
