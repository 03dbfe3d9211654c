package postgres

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func TestCartRepository_PostgresGetOrCreateRace(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewCartRepository(store)

	user := seedUser(t, store)

	// Конкурентные первые обращения разрешаются через ON CONFLICT
	// в одну и ту же строку корзины.
	const workers = 8
	cartIDs := make([]string, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			cart, err := repo.GetOrCreate(user.ID)
			if err != nil {
				t.Errorf("get or create cart: %v", err)
				return
			}
			cartIDs[slot] = cart.ID
		}(i)
	}
	wg.Wait()

	if cartIDs[0] == "" {
		t.Fatal("no cart created")
	}
	for _, id := range cartIDs {
		if id != cartIDs[0] {
			t.Fatalf("expected a single cart, got %q and %q", cartIDs[0], id)
		}
	}
}

func TestCartRepository_PostgresItems(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewCartRepository(store)

	user := seedUser(t, store)
	product := seedProduct(t, store, 100, 5)

	cart, err := repo.GetOrCreate(user.ID)
	if err != nil {
		t.Fatalf("get or create cart: %v", err)
	}

	if _, err := repo.FindItem(cart.ID, product.ID); !errors.Is(err, domain.ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}

	now := time.Now().UTC().Round(time.Microsecond)
	item := domain.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  1,
		AddedAt:   now,
		UpdatedAt: now,
	}
	if err := repo.SaveItem(item); err != nil {
		t.Fatalf("save item: %v", err)
	}

	// Повторный SaveItem обновляет количество, не создавая вторую строку.
	item.Quantity = 3
	item.UpdatedAt = now.Add(time.Minute)
	if err := repo.SaveItem(item); err != nil {
		t.Fatalf("upsert item: %v", err)
	}

	items, err := repo.Items(cart.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("unexpected items after upsert: %+v", items)
	}

	if err := repo.DeleteItem(cart.ID, product.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if err := repo.DeleteItem(cart.ID, product.ID); !errors.Is(err, domain.ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound on repeat delete, got %v", err)
	}

	// Clear идемпотентен и возвращает число удалённых строк.
	if err := repo.SaveItem(item); err != nil {
		t.Fatalf("save item before clear: %v", err)
	}
	removed, err := repo.Clear(cart.ID)
	if err != nil {
		t.Fatalf("clear cart: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed item, got %d", removed)
	}
	removed, err = repo.Clear(cart.ID)
	if err != nil {
		t.Fatalf("clear empty cart: %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected 0 removed items, got %d", removed)
	}
}
