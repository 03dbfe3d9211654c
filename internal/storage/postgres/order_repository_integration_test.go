package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func TestOrderRepository_PostgresCreateGetAndList(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	user := seedUser(t, store)
	product := seedProduct(t, store, 150, 10)

	now := time.Now().UTC().Round(time.Microsecond)
	older := sampleOrder(user.ID, product, 2, now.Add(-2*time.Minute))
	newer := sampleOrder(user.ID, product, 1, now.Add(-time.Minute))

	if err := repo.Create(older); err != nil {
		t.Fatalf("create older order: %v", err)
	}
	if err := repo.Create(newer); err != nil {
		t.Fatalf("create newer order: %v", err)
	}

	got, err := repo.Get(older.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if got.Number != older.Number || got.UserID != user.ID || got.Status != domain.OrderStatusPending {
		t.Fatalf("unexpected order payload: %+v", got)
	}
	if !got.TotalAmount.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected total 300, got %s", got.TotalAmount)
	}
	if len(got.Items) != 1 || got.Items[0].Quantity != 2 || !got.Items[0].UnitPrice.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("unexpected items: %+v", got.Items)
	}

	// Свежие заказы идут первыми.
	page, err := repo.ListByUser(user.ID, domain.NewPageRequest(0, 1))
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if page.TotalElements != 2 || len(page.Content) != 1 || page.Content[0].ID != newer.ID {
		t.Fatalf("unexpected first page: total=%d content=%+v", page.TotalElements, page.Content)
	}
	if page.Last {
		t.Fatal("first of two pages must not be last")
	}

	byStatus, err := repo.ListByStatus(domain.OrderStatusPending, domain.NewPageRequest(0, 10))
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if len(byStatus.Content) != 2 {
		t.Fatalf("expected 2 pending orders, got %d", len(byStatus.Content))
	}
}

func TestOrderRepository_PostgresOptimisticLocking(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	user := seedUser(t, store)
	product := seedProduct(t, store, 100, 5)

	now := time.Now().UTC().Round(time.Microsecond)
	order := sampleOrder(user.ID, product, 1, now)
	if err := repo.Create(order); err != nil {
		t.Fatalf("create order: %v", err)
	}

	// Успешный Save поднимает версию в базе.
	order.Status = domain.OrderStatusConfirmed
	order.UpdatedAt = now.Add(time.Minute)
	if err := repo.Save(order); err != nil {
		t.Fatalf("save order: %v", err)
	}

	updated, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get updated order: %v", err)
	}
	if updated.Status != domain.OrderStatusConfirmed || updated.Version != order.Version+1 {
		t.Fatalf("unexpected state after save: status=%s version=%d", updated.Status, updated.Version)
	}

	// Повтор с несохранённой версией — конфликт, состояние не меняется.
	stale := order
	stale.Status = domain.OrderStatusShipped
	if err := repo.Save(stale); !errors.Is(err, domain.ErrOrderVersionConflict) {
		t.Fatalf("expected ErrOrderVersionConflict, got %v", err)
	}
	current, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get after stale save: %v", err)
	}
	if current.Status != domain.OrderStatusConfirmed {
		t.Fatalf("stale save mutated order: %s", current.Status)
	}
}

func TestOrderRepository_PostgresErrors(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	user := seedUser(t, store)
	product := seedProduct(t, store, 100, 5)

	now := time.Now().UTC().Round(time.Microsecond)
	order := sampleOrder(user.ID, product, 1, now)

	if _, err := repo.Get("33333333-3333-3333-3333-333333333333"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	if err := repo.Save(order); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound on save missing, got %v", err)
	}

	if err := repo.Create(order); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if err := repo.Create(order); !errors.Is(err, domain.ErrOrderVersionConflict) {
		t.Fatalf("expected ErrOrderVersionConflict on duplicate create, got %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("expected unique violation for code 23505")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "22001"}) {
		t.Fatal("unexpected unique violation for non-unique code")
	}
	if isUniqueViolation(errors.New("plain error")) {
		t.Fatal("plain error must not be unique violation")
	}
}
