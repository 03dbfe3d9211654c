package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func TestCheckout_PostgresPlaceOrder(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	carts := NewCartRepository(store)
	orders := NewOrderRepository(store)

	user := seedUser(t, store)
	product := seedProduct(t, store, 100, 5)

	cart, err := carts.GetOrCreate(user.ID)
	if err != nil {
		t.Fatalf("get or create cart: %v", err)
	}
	now := time.Now().UTC().Round(time.Microsecond)
	if err := carts.SaveItem(domain.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  2,
		AddedAt:   now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("save cart item: %v", err)
	}

	order := sampleOrder(user.ID, product, 2, now)
	if err := NewCheckout(store).PlaceOrder(order, cart.ID); err != nil {
		t.Fatalf("place order: %v", err)
	}

	// Заказ сохранён вместе с позициями.
	placed, err := orders.Get(order.ID)
	if err != nil {
		t.Fatalf("get placed order: %v", err)
	}
	if placed.Status != domain.OrderStatusPending || !placed.TotalAmount.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("unexpected placed order: status=%s total=%s", placed.Status, placed.TotalAmount)
	}
	if len(placed.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(placed.Items))
	}

	// Сток списан, корзина очищена той же транзакцией.
	if stock, _ := productStock(t, store, product.ID); stock != 3 {
		t.Fatalf("expected stock 3, got %d", stock)
	}
	items, err := carts.Items(cart.ID)
	if err != nil {
		t.Fatalf("list cart items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("cart not cleared: %d items", len(items))
	}
}

func TestCheckout_PostgresPlaceOrderRollsBack(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	carts := NewCartRepository(store)
	orders := NewOrderRepository(store)

	user := seedUser(t, store)
	inStock := seedProduct(t, store, 100, 10)
	scarce := seedProduct(t, store, 100, 1)

	cart, err := carts.GetOrCreate(user.ID)
	if err != nil {
		t.Fatalf("get or create cart: %v", err)
	}
	now := time.Now().UTC().Round(time.Microsecond)
	for _, productID := range []string{inStock.ID, scarce.ID} {
		if err := carts.SaveItem(domain.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  2,
			AddedAt:   now,
			UpdatedAt: now,
		}); err != nil {
			t.Fatalf("save cart item: %v", err)
		}
	}

	// Вторая позиция не проходит по остатку: вся транзакция откатывается.
	order := sampleOrder(user.ID, inStock, 2, now)
	order.Items = append(order.Items, domain.OrderItem{
		ID:         uuid.NewString(),
		ProductID:  scarce.ID,
		SKU:        scarce.SKU,
		Name:       scarce.Name,
		Quantity:   2,
		UnitPrice:  scarce.Price,
		TotalPrice: scarce.Price.Mul(decimal.NewFromInt(2)),
		CreatedAt:  now,
	})
	order.TotalAmount = decimal.NewFromInt(400)

	if err := NewCheckout(store).PlaceOrder(order, cart.ID); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// Ни заказа, ни списаний, корзина на месте.
	if _, err := orders.Get(order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected rolled back order, got %v", err)
	}
	if stock, _ := productStock(t, store, inStock.ID); stock != 10 {
		t.Fatalf("first product mutated by rolled back checkout: %d", stock)
	}
	if stock, _ := productStock(t, store, scarce.ID); stock != 1 {
		t.Fatalf("second product mutated by rolled back checkout: %d", stock)
	}
	items, err := carts.Items(cart.ID)
	if err != nil {
		t.Fatalf("list cart items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("cart mutated by rolled back checkout: %d items", len(items))
	}
}
