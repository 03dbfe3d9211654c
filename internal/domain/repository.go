package domain

// UserRepository описывает требования к хранилищу пользователей.
type UserRepository interface {
	// Create сохраняет нового пользователя. Возвращает ErrEmailTaken при дубликате email.
	Create(user User) error
	// Get возвращает пользователя по идентификатору или ErrUserNotFound.
	Get(id string) (User, error)
	// GetByEmail возвращает пользователя по email или ErrUserNotFound.
	GetByEmail(email string) (User, error)
}

// CategoryRepository описывает требования к хранилищу категорий.
type CategoryRepository interface {
	// Create сохраняет новую категорию.
	Create(category Category) error
	// Get возвращает категорию по идентификатору или ErrCategoryNotFound.
	Get(id string) (Category, error)
	// List возвращает страницу категорий, отсортированных по названию.
	List(req PageRequest) (Page[Category], error)
	// Save применяет изменения к существующей категории.
	Save(category Category) error
}

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	// Create сохраняет новый товар. Возвращает ErrSKUTaken при дубликате SKU.
	Create(product Product) error
	// Get возвращает товар по идентификатору или ErrProductNotFound.
	Get(id string) (Product, error)
	// GetBySKU возвращает товар по SKU или ErrProductNotFound.
	GetBySKU(sku string) (Product, error)
	// List возвращает страницу товаров, отсортированных по названию.
	List(req PageRequest) (Page[Product], error)
	// ListByCategory возвращает страницу товаров одной категории.
	ListByCategory(categoryID string, req PageRequest) (Page[Product], error)
	// Save применяет изменения к существующему товару.
	Save(product Product) error
	// AdjustStock атомарно применяет пакет изменений остатков.
	// Дельта, уводящая остаток ниже нуля, отклоняет весь пакет
	// с ErrInsufficientStock; частичное применение исключено.
	// Списание до нуля деактивирует товар в том же изменении.
	AdjustStock(adjustments []StockAdjustment) error
}

// CartRepository описывает требования к хранилищу корзин и их позиций.
type CartRepository interface {
	// GetOrCreate возвращает корзину пользователя, создавая её при первом
	// обращении. Два конкурентных первых обращения получают одну корзину.
	GetOrCreate(userID string) (Cart, error)
	// Items возвращает позиции корзины в порядке добавления.
	Items(cartID string) ([]CartItem, error)
	// FindItem возвращает позицию по товару или ErrCartItemNotFound.
	FindItem(cartID, productID string) (CartItem, error)
	// SaveItem вставляет или обновляет позицию корзины.
	SaveItem(item CartItem) error
	// DeleteItem удаляет позицию; ErrCartItemNotFound, если её нет.
	DeleteItem(cartID, productID string) error
	// Clear удаляет все позиции корзины и возвращает их число.
	// Повторный вызов на пустой корзине возвращает 0 без ошибки.
	Clear(cartID string) (int, error)
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ вместе с позициями.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound.
	Get(id string) (Order, error)
	// ListByUser возвращает страницу заказов пользователя, новые первыми.
	ListByUser(userID string, req PageRequest) (Page[Order], error)
	// List возвращает страницу всех заказов, новые первыми.
	List(req PageRequest) (Page[Order], error)
	// ListByStatus возвращает страницу заказов в заданном статусе.
	ListByStatus(status OrderStatus, req PageRequest) (Page[Order], error)
	// Save применяет обновления к заказу с учётом optimistic locking.
	Save(order Order) error
}

// Checkout выполняет оформление заказа как одну атомарную операцию:
// сохранение заказа, списание остатков по позициям и очистку корзины.
// Либо применяются все три шага, либо ни один.
type Checkout interface {
	PlaceOrder(order Order, cartID string) error
}

// OrderEventRepository хранит события жизненного цикла заказа.
type OrderEventRepository interface {
	Append(event OrderEvent) error
	List(orderID string) ([]OrderEvent, error)
}
