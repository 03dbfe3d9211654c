package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Store — in-memory хранилище магазина для локальной разработки и тестов.
// Все сущности живут под одним мьютексом: оформление заказа атомарно
// затрагивает заказы, остатки товаров и корзину, поэтому точка
// синхронизации у них общая.
type Store struct {
	mu sync.RWMutex

	users        map[string]domain.User
	userByEmail  map[string]string
	categories   map[string]domain.Category
	products     map[string]domain.Product
	productBySKU map[string]string
	carts        map[string]domain.Cart
	cartByUser   map[string]string
	cartItems    map[string]map[string]domain.CartItem
	orders       map[string]domain.Order
	orderEvents  map[string][]domain.OrderEvent
}

// NewStore создаёт пустое in-memory хранилище.
func NewStore() *Store {
	return &Store{
		users:        make(map[string]domain.User),
		userByEmail:  make(map[string]string),
		categories:   make(map[string]domain.Category),
		products:     make(map[string]domain.Product),
		productBySKU: make(map[string]string),
		carts:        make(map[string]domain.Cart),
		cartByUser:   make(map[string]string),
		cartItems:    make(map[string]map[string]domain.CartItem),
		orders:       make(map[string]domain.Order),
		orderEvents:  make(map[string][]domain.OrderEvent),
	}
}

// Users возвращает репозиторий пользователей.
func (s *Store) Users() domain.UserRepository { return &userRepository{store: s} }

// Categories возвращает репозиторий категорий.
func (s *Store) Categories() domain.CategoryRepository { return &categoryRepository{store: s} }

// Products возвращает репозиторий товаров.
func (s *Store) Products() domain.ProductRepository { return &productRepository{store: s} }

// Carts возвращает репозиторий корзин.
func (s *Store) Carts() domain.CartRepository { return &cartRepository{store: s} }

// Orders возвращает репозиторий заказов.
func (s *Store) Orders() domain.OrderRepository { return &orderRepository{store: s} }

// OrderEvents возвращает репозиторий истории заказов.
func (s *Store) OrderEvents() domain.OrderEventRepository { return &orderEventRepository{store: s} }

// Checkout возвращает атомарное оформление заказа.
func (s *Store) Checkout() domain.Checkout { return &checkout{store: s} }

// copyOrder делает глубокую копию заказа, чтобы избежать
// непредсказуемых мутаций извне.
func copyOrder(order domain.Order) domain.Order {
	items := make([]domain.OrderItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	return order
}

// applyStockAdjustments проверяет и применяет пакет изменений остатков
// на копиях товаров. Вызывается под write-блокировкой хранилища;
// при любой ошибке ни один товар не изменяется.
func (s *Store) applyStockAdjustments(adjustments []domain.StockAdjustment) error {
	updated := make([]domain.Product, 0, len(adjustments))
	for _, adj := range adjustments {
		product, ok := s.products[adj.ProductID]
		if !ok {
			return domain.ErrProductNotFound
		}
		if err := product.ApplyStockDelta(adj.Delta); err != nil {
			return err
		}
		updated = append(updated, product)
	}
	for _, product := range updated {
		s.products[product.ID] = product
	}
	return nil
}
