package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// helper для создания базового заказа с одной позицией.
func makeOrder() domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:              "order-1",
		Number:          "ORD-TEST1",
		UserID:          "user-1",
		Status:          domain.OrderStatusPending,
		TotalAmount:     decimal.NewFromInt(500),
		ShippingAddress: "Lenina 1, Moscow",
		Items: []domain.OrderItem{
			{
				ID:         "item-1",
				ProductID:  "product-1",
				SKU:        "sku-1",
				Name:       "Widget",
				Quantity:   5,
				UnitPrice:  decimal.NewFromInt(100),
				TotalPrice: decimal.NewFromInt(500),
				CreatedAt:  now,
			},
		},
		Version:   0,
		OrderedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	order := makeOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
	}{
		{
			name: "no user",
			mut: func(o *domain.Order) {
				o.UserID = ""
			},
		},
		{
			name: "no shipping address",
			mut: func(o *domain.Order) {
				o.ShippingAddress = ""
			},
		},
		{
			name: "negative amount",
			mut: func(o *domain.Order) {
				o.TotalAmount = decimal.NewFromInt(-1)
			},
		},
		{
			name: "no items",
			mut: func(o *domain.Order) {
				o.Items = nil
			},
		},
		{
			name: "qty invalid",
			mut: func(o *domain.Order) {
				o.Items[0].Quantity = 0
			},
		},
		{
			name: "price invalid",
			mut: func(o *domain.Order) {
				o.Items[0].UnitPrice = decimal.NewFromInt(-5)
			},
		},
		{
			name: "amount mismatch",
			mut: func(o *domain.Order) {
				o.TotalAmount = decimal.NewFromInt(999)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			// Изменяем состояние согласно сценарию.
			tc.mut(&order)

			if len(order.ValidateInvariants()) == 0 {
				t.Fatalf("expected validation errors for case %s", tc.name)
			}
		})
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from    domain.OrderStatus
		to      domain.OrderStatus
		allowed bool
	}{
		{domain.OrderStatusPending, domain.OrderStatusConfirmed, true},
		{domain.OrderStatusConfirmed, domain.OrderStatusShipped, true},
		{domain.OrderStatusShipped, domain.OrderStatusDelivered, true},
		{domain.OrderStatusPending, domain.OrderStatusShipped, false},
		{domain.OrderStatusPending, domain.OrderStatusDelivered, false},
		{domain.OrderStatusConfirmed, domain.OrderStatusPending, false},
		{domain.OrderStatusConfirmed, domain.OrderStatusDelivered, false},
		{domain.OrderStatusShipped, domain.OrderStatusConfirmed, false},
		{domain.OrderStatusDelivered, domain.OrderStatusShipped, false},
		{domain.OrderStatusCancelled, domain.OrderStatusConfirmed, false},
		// Отмена идёт отдельным путём и в таблицу переходов не входит.
		{domain.OrderStatusPending, domain.OrderStatusCancelled, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	terminal := map[domain.OrderStatus]bool{
		domain.OrderStatusPending:   false,
		domain.OrderStatusConfirmed: false,
		domain.OrderStatusShipped:   false,
		domain.OrderStatusDelivered: true,
		domain.OrderStatusCancelled: true,
	}
	for status, want := range terminal {
		if got := status.Terminal(); got != want {
			t.Errorf("%s: expected terminal=%v, got %v", status, want, got)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, err := domain.ParseOrderStatus("shipped")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != domain.OrderStatusShipped {
		t.Fatalf("expected shipped, got %s", status)
	}

	if _, err := domain.ParseOrderStatus("teleported"); !errors.Is(err, domain.ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
}
