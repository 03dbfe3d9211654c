package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category — узел дерева категорий каталога. ParentID пуст для корневых.
type Category struct {
	ID        string
	Name      string
	ParentID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет ключевые поля категории.
func (c *Category) Validate() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, ErrCategoryNameRequired)
	}
	// Более глубокие циклы дерево не проверяет; закрываем только тривиальный случай.
	if c.ParentID != "" && c.ParentID == c.ID {
		errs = append(errs, ErrCategorySelfParent)
	}

	return errs
}

// Product описывает товар каталога. StockQuantity мутируется только
// оформлением заказа (списание) и отменой заказа (возврат).
type Product struct {
	ID            string
	SKU           string
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int32
	Active        bool
	CategoryID    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate проверяет базовые инварианты товара.
func (p *Product) Validate() []error {
	var errs []error

	if p.SKU == "" {
		errs = append(errs, ErrProductSKURequired)
	}
	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.Price.IsNegative() {
		errs = append(errs, ErrItemPriceInvalid)
	}
	if p.StockQuantity < 0 {
		errs = append(errs, ErrStockNegative)
	}

	return errs
}

// ApplyStockDelta изменяет остаток товара. Списание ниже нуля — жёсткая
// ошибка. Списание, обнулившее остаток, деактивирует товар в том же
// переходе: нулевой сток не должен рекламироваться как доступный.
func (p *Product) ApplyStockDelta(delta int32) error {
	next := p.StockQuantity + delta
	if next < 0 {
		return ErrInsufficientStock
	}
	p.StockQuantity = next
	if delta < 0 && next == 0 {
		p.Active = false
	}
	return nil
}

// StockAdjustment — одна строка пакетного изменения остатков.
// Отрицательная дельта списывает, положительная возвращает.
type StockAdjustment struct {
	ProductID string
	Delta     int32
}
