package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан, ожидает подтверждения.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusConfirmed — заказ подтверждён администратором.
	OrderStatusConfirmed OrderStatus = "confirmed"
	// OrderStatusShipped — заказ передан в доставку.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered — заказ доставлен; терминальный статус.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled — заказ отменён до подтверждения; терминальный статус.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// orderTransitions — таблица допустимых переходов статуса в виде
// множества смежности. Отмена в таблицу не входит: она идёт отдельным
// путём через CancelOrder и разрешена только из pending.
var orderTransitions = map[OrderStatus]map[OrderStatus]struct{}{
	OrderStatusPending:   {OrderStatusConfirmed: {}},
	OrderStatusConfirmed: {OrderStatusShipped: {}},
	OrderStatusShipped:   {OrderStatusDelivered: {}},
}

// ParseOrderStatus преобразует строку в статус заказа.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), nil
	}
	return "", ErrUnknownStatus
}

// CanTransitionTo проверяет, допустим ли прямой переход в статус next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	allowed, ok := orderTransitions[s]
	if !ok {
		return false
	}
	_, ok = allowed[next]
	return ok
}

// Terminal сообщает, является ли статус конечным.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// OrderItem — снимок позиции на момент оформления заказа. UnitPrice
// фиксируется при создании и никогда не пересчитывается из текущей
// цены товара.
type OrderItem struct {
	ID          string
	ProductID   string
	SKU         string
	Name        string
	Quantity    int32
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	CreatedAt   time.Time
}

// Order агрегирует состояние заказа и его позиции. После создания
// меняются только Status и TotalAmount (обнуляется при отмене).
type Order struct {
	ID              string
	Number          string
	UserID          string
	Status          OrderStatus
	TotalAmount     decimal.Decimal
	ShippingAddress string
	Items           []OrderItem
	Version         int64
	OrderedAt       time.Time
	UpdatedAt       time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.UserID == "" {
		errs = append(errs, ErrUserRequired)
	}
	if o.ShippingAddress == "" {
		errs = append(errs, ErrShippingAddressRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if o.TotalAmount.IsNegative() {
		errs = append(errs, ErrAmountNegative)
	}

	// Сверяем сумму заказа с суммой позиций: qty * unit price.
	calc := decimal.Zero
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.UnitPrice.IsNegative() {
			errs = append(errs, ErrItemPriceInvalid)
		}
		calc = calc.Add(item.UnitPrice.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	if !calc.Equal(o.TotalAmount) {
		errs = append(errs, ErrAmountMismatch)
	}

	return errs
}

// OrderEvent — запись истории жизненного цикла заказа.
type OrderEvent struct {
	ID       string
	OrderID  string
	Type     string
	Reason   string
	Occurred time.Time
}
