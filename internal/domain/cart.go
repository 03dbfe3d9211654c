package domain

import "time"

// Cart — корзина пользователя. Существует ровно одна на пользователя,
// создаётся лениво при первом обращении и не удаляется при опустошении.
type Cart struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem — позиция корзины: пара (корзина, товар) с количеством.
// Уникальна в пределах корзины; количество всегда >= 1, нулевое
// количество означает удаление позиции.
type CartItem struct {
	CartID    string
	ProductID string
	Quantity  int32
	AddedAt   time.Time
	UpdatedAt time.Time
}

// Validate проверяет корректность позиции корзины.
func (i *CartItem) Validate() []error {
	var errs []error

	if i.CartID == "" || i.ProductID == "" {
		errs = append(errs, ErrCartItemRefRequired)
	}
	if i.Quantity <= 0 {
		errs = append(errs, ErrItemQtyInvalid)
	}

	return errs
}
