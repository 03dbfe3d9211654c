package domain_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func makeProduct(stock int32) domain.Product {
	return domain.Product{
		ID:            "product-1",
		SKU:           "sku-1",
		Name:          "Widget",
		Price:         decimal.NewFromInt(100),
		StockQuantity: stock,
		Active:        true,
	}
}

func TestApplyStockDelta_Decrease(t *testing.T) {
	product := makeProduct(5)
	if err := product.ApplyStockDelta(-2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.StockQuantity != 3 {
		t.Fatalf("expected stock 3, got %d", product.StockQuantity)
	}
	if !product.Active {
		t.Fatal("product must stay active while stock is positive")
	}
}

func TestApplyStockDelta_Insufficient(t *testing.T) {
	product := makeProduct(2)
	if err := product.ApplyStockDelta(-3); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	// Неудачная дельта не должна менять состояние.
	if product.StockQuantity != 2 || !product.Active {
		t.Fatalf("product mutated by rejected delta: stock=%d active=%v", product.StockQuantity, product.Active)
	}
}

func TestApplyStockDelta_DepletionDeactivates(t *testing.T) {
	product := makeProduct(2)
	if err := product.ApplyStockDelta(-2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.StockQuantity != 0 {
		t.Fatalf("expected stock 0, got %d", product.StockQuantity)
	}
	if product.Active {
		t.Fatal("depleted product must be deactivated")
	}
}

func TestApplyStockDelta_IncreaseKeepsActiveFlag(t *testing.T) {
	product := makeProduct(0)
	product.Active = false

	if err := product.ApplyStockDelta(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.StockQuantity != 3 {
		t.Fatalf("expected stock 3, got %d", product.StockQuantity)
	}
	// Возврат стока не реактивирует товар автоматически.
	if product.Active {
		t.Fatal("stock increase must not reactivate product")
	}
}

func TestProductValidate(t *testing.T) {
	product := makeProduct(1)
	if errs := product.Validate(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}

	product.SKU = ""
	product.Price = decimal.NewFromInt(-1)
	if errs := product.Validate(); len(errs) != 2 {
		t.Fatalf("expected 2 validation errors, got %v", errs)
	}
}

func TestCategoryValidate_SelfParent(t *testing.T) {
	category := domain.Category{ID: "cat-1", Name: "Books", ParentID: "cat-1"}
	errs := category.Validate()
	if len(errs) != 1 || !errors.Is(errs[0], domain.ErrCategorySelfParent) {
		t.Fatalf("expected ErrCategorySelfParent, got %v", errs)
	}
}
