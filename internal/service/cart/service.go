package cart

import (
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
)

// Service управляет корзиной пользователя: одна корзина на
// пользователя, позиции уникальны по товару.
type Service struct {
	carts   domain.CartRepository
	catalog *catalog.Service
	logger  *log.Entry
}

// NewService создаёт сервис корзины.
func NewService(carts domain.CartRepository, catalogSvc *catalog.Service, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "cart")
	}
	return &Service{
		carts:   carts,
		catalog: catalogSvc,
		logger:  logger,
	}
}

// Line — позиция корзины вместе с текущими данными товара.
// LineTotal считается по текущей цене и носит справочный характер:
// цена заказа фиксируется только при оформлении.
type Line struct {
	Item      domain.CartItem
	Product   domain.Product
	LineTotal decimal.Decimal
}

// Details — корзина пользователя с позициями.
type Details struct {
	Cart  domain.Cart
	Lines []Line
	Total decimal.Decimal
}

// GetCart возвращает корзину пользователя, создавая её при первом обращении.
func (s *Service) GetCart(userID string) (Details, error) {
	cart, err := s.carts.GetOrCreate(userID)
	if err != nil {
		return Details{}, err
	}

	items, err := s.carts.Items(cart.ID)
	if err != nil {
		return Details{}, err
	}

	details := Details{Cart: cart, Lines: make([]Line, 0, len(items)), Total: decimal.Zero}
	for _, item := range items {
		product, err := s.catalog.GetProduct(item.ProductID)
		if err != nil {
			return Details{}, err
		}
		lineTotal := product.Price.Mul(decimal.NewFromInt32(item.Quantity))
		details.Lines = append(details.Lines, Line{
			Item:      item,
			Product:   product,
			LineTotal: lineTotal,
		})
		details.Total = details.Total.Add(lineTotal)
	}
	return details, nil
}

// AddItem добавляет товар в корзину: существующая позиция получает
// +1 к количеству, новая создаётся с количеством 1. Товар должен быть
// пригоден к покупке.
func (s *Service) AddItem(userID, productID string) (domain.CartItem, error) {
	cart, err := s.carts.GetOrCreate(userID)
	if err != nil {
		return domain.CartItem{}, err
	}
	if _, err := s.catalog.ValidateAndGetProduct(productID); err != nil {
		return domain.CartItem{}, err
	}

	now := time.Now().UTC()
	item, err := s.carts.FindItem(cart.ID, productID)
	switch {
	case err == nil:
		item.Quantity++
		item.UpdatedAt = now
	case domain.IsNotFound(err):
		item = domain.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  1,
			AddedAt:   now,
			UpdatedAt: now,
		}
	default:
		return domain.CartItem{}, err
	}

	if err := s.carts.SaveItem(item); err != nil {
		return domain.CartItem{}, err
	}
	s.logger.WithFields(log.Fields{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   item.Quantity,
	}).Debug("cart item saved")
	return item, nil
}

// UpdateItem выставляет позиции заданное количество. Количество <= 0
// равносильно удалению и не требует проверки товара; иначе товар
// валидируется, а позиция создаётся при отсутствии.
func (s *Service) UpdateItem(userID, productID string, quantity int32) (domain.CartItem, error) {
	if quantity <= 0 {
		return domain.CartItem{}, s.RemoveItem(userID, productID)
	}

	cart, err := s.carts.GetOrCreate(userID)
	if err != nil {
		return domain.CartItem{}, err
	}
	if _, err := s.catalog.ValidateAndGetProduct(productID); err != nil {
		return domain.CartItem{}, err
	}

	now := time.Now().UTC()
	item, err := s.carts.FindItem(cart.ID, productID)
	switch {
	case err == nil:
		item.Quantity = quantity
		item.UpdatedAt = now
	case domain.IsNotFound(err):
		item = domain.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			AddedAt:   now,
			UpdatedAt: now,
		}
	default:
		return domain.CartItem{}, err
	}

	if err := s.carts.SaveItem(item); err != nil {
		return domain.CartItem{}, err
	}
	return item, nil
}

// RemoveItem удаляет позицию из корзины пользователя.
func (s *Service) RemoveItem(userID, productID string) error {
	cart, err := s.carts.GetOrCreate(userID)
	if err != nil {
		return err
	}
	return s.carts.DeleteItem(cart.ID, productID)
}

// ClearCart удаляет все позиции корзины и возвращает их число.
// Повторный вызов на пустой корзине — не ошибка.
func (s *Service) ClearCart(userID string) (int, error) {
	cart, err := s.carts.GetOrCreate(userID)
	if err != nil {
		return 0, err
	}
	return s.carts.Clear(cart.ID)
}
