package domain

import (
	"errors"
	"fmt"
)

// Виды ошибок, видимые вызывающей стороне. Транспортный слой отображает
// их в HTTP-статусы; бизнес-слой всегда оборачивает конкретную ошибку
// в один из видов через %w.
var (
	// ErrUnauthenticated — учётные данные отсутствуют, просрочены или некорректны.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden — пользователь аутентифицирован, но не имеет нужной роли или прав владения.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound — сущность, на которую ссылается запрос, не существует.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState — запрос противоречит текущему состоянию сущности.
	ErrInvalidState = errors.New("invalid state")
	// ErrConflict — нарушение уникальности (дубликат email или SKU).
	ErrConflict = errors.New("conflict")
)

// Конкретные бизнес-ошибки. Каждая оборачивает свой вид, поэтому
// проверка errors.Is(err, ErrInvalidState) работает сквозь всю цепочку.
var (
	// ErrInvalidCredentials — неизвестный email или неверный пароль при входе.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	// ErrTokenInvalid — токен не прошёл разбор или проверку подписи/срока.
	ErrTokenInvalid = fmt.Errorf("%w: token is invalid or expired", ErrUnauthenticated)
	// ErrAdminRequired — операция доступна только роли admin.
	ErrAdminRequired = fmt.Errorf("%w: admin role required", ErrForbidden)
	// ErrNotOrderOwner — покупатель обратился к чужому заказу.
	ErrNotOrderOwner = fmt.Errorf("%w: order belongs to another user", ErrForbidden)

	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)
	// ErrProductNotFound возвращается, если товар не найден.
	ErrProductNotFound = fmt.Errorf("%w: product", ErrNotFound)
	// ErrCategoryNotFound возвращается, если категория не найдена.
	ErrCategoryNotFound = fmt.Errorf("%w: category", ErrNotFound)
	// ErrOrderNotFound возвращается, если заказ не найден.
	ErrOrderNotFound = fmt.Errorf("%w: order", ErrNotFound)
	// ErrCartItemNotFound возвращается, если позиции с таким товаром нет в корзине.
	ErrCartItemNotFound = fmt.Errorf("%w: cart item", ErrNotFound)
	// ErrEmptyCart — попытка оформить заказ из пустой корзины.
	ErrEmptyCart = fmt.Errorf("%w: cart is empty", ErrNotFound)
	// ErrOrderItemsMissing — у заказа нет ни одной позиции; состояние не должно возникать.
	ErrOrderItemsMissing = fmt.Errorf("%w: order items", ErrNotFound)

	// ErrProductDisabled — товар снят с продажи и недоступен для покупки.
	ErrProductDisabled = fmt.Errorf("%w: product is disabled", ErrInvalidState)
	// ErrInsufficientStock — запрошенное количество превышает остаток на складе.
	ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", ErrInvalidState)
	// ErrOrderNotPending — отмена возможна только из статуса pending.
	ErrOrderNotPending = fmt.Errorf("%w: order is not pending", ErrInvalidState)
	// ErrStatusUnchanged — заказ уже находится в запрошенном статусе.
	ErrStatusUnchanged = fmt.Errorf("%w: order already in requested status", ErrInvalidState)
	// ErrInvalidTransition — переход статуса не входит в таблицу допустимых.
	ErrInvalidTransition = fmt.Errorf("%w: invalid status transition", ErrInvalidState)
	// ErrUnknownStatus — строка не соответствует ни одному статусу заказа.
	ErrUnknownStatus = fmt.Errorf("%w: unknown order status", ErrInvalidState)
	// ErrCategorySelfParent — категория не может ссылаться сама на себя как на родителя.
	ErrCategorySelfParent = fmt.Errorf("%w: category cannot be its own parent", ErrInvalidState)

	// ErrEmailTaken — пользователь с таким email уже зарегистрирован.
	ErrEmailTaken = fmt.Errorf("%w: email already registered", ErrConflict)
	// ErrSKUTaken — товар с таким SKU уже существует.
	ErrSKUTaken = fmt.Errorf("%w: sku already exists", ErrConflict)
	// ErrOrderVersionConflict сигнализирует о конфликте версий при сохранении заказа.
	ErrOrderVersionConflict = fmt.Errorf("%w: order version conflict", ErrConflict)
)

// Ошибки валидации доменных сущностей.
var (
	// Ошибка отсутствующего идентификатора пользователя.
	ErrUserRequired = errors.New("user_id is required")
	// Ошибка отсутствующего адреса доставки.
	ErrShippingAddressRequired = errors.New("shipping_address is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка отрицательной суммы заказа.
	ErrAmountNegative = errors.New("total_amount must be non-negative")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item quantity must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item unit price must be non-negative")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrAmountMismatch = errors.New("order total does not match items sum")
	// Ошибка отрицательного остатка: инвариант stock >= 0 нарушен.
	ErrStockNegative = errors.New("stock quantity must be non-negative")
	// Ошибка отсутствующего SKU товара.
	ErrProductSKURequired = errors.New("product sku is required")
	// Ошибка отсутствующего названия товара.
	ErrProductNameRequired = errors.New("product name is required")
	// Ошибка отсутствующего названия категории.
	ErrCategoryNameRequired = errors.New("category name is required")
	// Ошибка отсутствующей ссылки позиции корзины на корзину или товар.
	ErrCartItemRefRequired = errors.New("cart item requires cart_id and product_id")
)

// IsNotFound проверяет, относится ли ошибка к виду "не найдено".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrOrderVersionConflict)
}
