package order

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
)

const (
	eventOrderPlaced        = "OrderPlaced"
	eventOrderCancelled     = "OrderCancelled"
	eventOrderStatusChanged = "OrderStatusChanged"
)

// Service реализует жизненный цикл заказа: оформление из корзины,
// машину статусов и компенсацию стока при отмене.
type Service struct {
	orders        domain.OrderRepository
	carts         domain.CartRepository
	events        domain.OrderEventRepository
	checkout      domain.Checkout
	catalog       *catalog.Service
	logger        *log.Entry
	metrics       *metrics.OrderMetrics
	kafkaProducer *kafka.Producer // опциональный Kafka producer для событий заказов
}

// NewService создаёт рабочий экземпляр сервиса заказов.
func NewService(
	orders domain.OrderRepository,
	carts domain.CartRepository,
	events domain.OrderEventRepository,
	checkout domain.Checkout,
	catalogSvc *catalog.Service,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order")
	}
	return &Service{
		orders:   orders,
		carts:    carts,
		events:   events,
		checkout: checkout,
		catalog:  catalogSvc,
		logger:   logger,
		metrics:  metrics.NewOrderMetrics(),
	}
}

// NewServiceWithKafka создаёт сервис заказов с Kafka producer.
func NewServiceWithKafka(
	orders domain.OrderRepository,
	carts domain.CartRepository,
	events domain.OrderEventRepository,
	checkout domain.Checkout,
	catalogSvc *catalog.Service,
	kafkaProducer *kafka.Producer,
	logger *log.Entry,
) *Service {
	svc := NewService(orders, carts, events, checkout, catalogSvc, logger)
	svc.kafkaProducer = kafkaProducer
	return svc
}

// NewServiceWithoutMetrics создаёт сервис заказов без метрик (для тестов).
func NewServiceWithoutMetrics(
	orders domain.OrderRepository,
	carts domain.CartRepository,
	events domain.OrderEventRepository,
	checkout domain.Checkout,
	catalogSvc *catalog.Service,
	logger *log.Entry,
) *Service {
	svc := NewService(orders, carts, events, checkout, catalogSvc, logger)
	svc.metrics = nil
	return svc
}

// Details — заказ вместе с историей его событий.
type Details struct {
	Order   domain.Order
	History []domain.OrderEvent
}

// CreateOrder оформляет заказ из корзины пользователя. Цены позиций
// фиксируются по текущим ценам товаров в момент оформления; дальше
// изменения каталога на заказ не влияют. Сохранение заказа, списание
// стока и очистка корзины применяются одной атомарной операцией.
func (s *Service) CreateOrder(identity domain.Identity, shippingAddress string) (domain.Order, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordCheckoutDuration(time.Since(start))
		}
	}()

	cart, err := s.carts.GetOrCreate(identity.UserID)
	if err != nil {
		return domain.Order{}, err
	}
	lines, err := s.carts.Items(cart.ID)
	if err != nil {
		return domain.Order{}, err
	}
	if len(lines) == 0 {
		return domain.Order{}, domain.ErrEmptyCart
	}

	// Авторитетная предзаказная проверка: все позиции по свежим данным,
	// до каких-либо мутаций.
	products, err := s.catalog.ValidateProductsForOrder(lines)
	if err != nil {
		s.rejectOrder(identity.UserID, err)
		return domain.Order{}, err
	}

	now := time.Now().UTC()
	items := make([]domain.OrderItem, 0, len(lines))
	total := decimal.Zero
	for i, line := range lines {
		product := products[i]
		lineTotal := product.Price.Mul(decimal.NewFromInt32(line.Quantity))
		items = append(items, domain.OrderItem{
			ID:         uuid.NewString(),
			ProductID:  product.ID,
			SKU:        product.SKU,
			Name:       product.Name,
			Quantity:   line.Quantity,
			UnitPrice:  product.Price,
			TotalPrice: lineTotal,
			CreatedAt:  now,
		})
		total = total.Add(lineTotal)
	}

	order := domain.Order{
		ID:              uuid.NewString(),
		Number:          newOrderNumber(),
		UserID:          identity.UserID,
		Status:          domain.OrderStatusPending,
		TotalAmount:     total,
		ShippingAddress: shippingAddress,
		Items:           items,
		Version:         0,
		OrderedAt:       now,
		UpdatedAt:       now,
	}
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, errs[0]
	}

	if err := s.checkout.PlaceOrder(order, cart.ID); err != nil {
		s.rejectOrder(identity.UserID, err)
		return domain.Order{}, err
	}
	// Списание прошло; товары, у которых остаток обнулился, уже
	// деактивированы хранилищем — осталось сообщить об этом наружу.
	s.catalog.NotifyDepleted(order.Items)

	s.logger.WithFields(log.Fields{
		"order_id":     order.ID,
		"order_number": order.Number,
		"user_id":      order.UserID,
		"items_count":  len(order.Items),
	}).Info("order placed")

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
	s.appendEvent(order.ID, eventOrderPlaced, "", now)
	s.publishOrderEvent(kafka.EventTypeOrderCreated, &order, map[string]interface{}{
		"items_count": len(order.Items),
		"total":       order.TotalAmount.String(),
	})

	return order, nil
}

// GetOrderDetails возвращает заказ с историей. Покупатель видит только
// свои заказы, администратор — любые.
func (s *Service) GetOrderDetails(identity domain.Identity, orderID string) (Details, error) {
	order, err := s.orders.Get(orderID)
	if err != nil {
		return Details{}, err
	}
	if err := s.authorizeOrderAccess(identity, order); err != nil {
		return Details{}, err
	}

	history, err := s.events.List(order.ID)
	if err != nil {
		return Details{}, err
	}
	return Details{Order: order, History: history}, nil
}

// ListUserOrders возвращает страницу заказов пользователя.
func (s *Service) ListUserOrders(identity domain.Identity, req domain.PageRequest) (domain.Page[domain.Order], error) {
	return s.orders.ListByUser(identity.UserID, req)
}

// GetAllOrders возвращает страницу всех заказов с опциональным фильтром
// по статусу. Операция администратора.
func (s *Service) GetAllOrders(req domain.PageRequest, statusFilter string) (domain.Page[domain.Order], error) {
	if statusFilter == "" {
		return s.orders.List(req)
	}
	status, err := domain.ParseOrderStatus(statusFilter)
	if err != nil {
		return domain.Page[domain.Order]{}, err
	}
	return s.orders.ListByStatus(status, req)
}

// CancelOrder отменяет заказ из статуса pending: возвращает сток по
// всем позициям, обнуляет сумму и переводит заказ в cancelled.
func (s *Service) CancelOrder(identity domain.Identity, orderID string) (domain.Order, error) {
	order, err := s.orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.authorizeOrderAccess(identity, order); err != nil {
		return domain.Order{}, err
	}
	if order.Status != domain.OrderStatusPending {
		return domain.Order{}, domain.ErrOrderNotPending
	}
	// Защитная проверка: заказ без позиций не должен существовать.
	if len(order.Items) == 0 {
		return domain.Order{}, domain.ErrOrderItemsMissing
	}

	// Компенсация: сначала возвращаем сток, затем фиксируем отмену.
	if err := s.catalog.IncreaseStockForOrderItems(order.Items); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("stock restore failed")
		return domain.Order{}, err
	}

	order.Status = domain.OrderStatusCancelled
	order.TotalAmount = decimal.Zero
	if err := s.saveWithRetry(&order); err != nil {
		return domain.Order{}, err
	}

	s.logger.WithFields(log.Fields{
		"order_id":     order.ID,
		"order_number": order.Number,
	}).Info("order cancelled")

	if s.metrics != nil {
		s.metrics.RecordOrderCancelled()
		s.metrics.RecordStatusChange(string(domain.OrderStatusCancelled))
	}
	s.appendEvent(order.ID, eventOrderCancelled, "", order.UpdatedAt)
	s.publishOrderEvent(kafka.EventTypeOrderCancelled, &order, nil)

	return order, nil
}

// UpdateOrderStatus переводит заказ в новый статус. Порядок проверок
// фиксирован: сначала "уже в этом статусе", затем перенаправление
// отмены в CancelOrder, затем таблица переходов. Поэтому запрос
// cancelled для уже отменённого заказа отвечает "уже в этом статусе",
// а не ошибкой отмены.
func (s *Service) UpdateOrderStatus(identity domain.Identity, orderID string, newStatus domain.OrderStatus) (domain.Order, error) {
	if !identity.IsAdmin() {
		return domain.Order{}, domain.ErrAdminRequired
	}

	order, err := s.orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order.Status == newStatus {
		return domain.Order{}, domain.ErrStatusUnchanged
	}
	if newStatus == domain.OrderStatusCancelled {
		// CancelOrder сам проверит, что заказ ещё pending.
		return s.CancelOrder(identity, orderID)
	}
	if !order.Status.CanTransitionTo(newStatus) {
		return domain.Order{}, domain.ErrInvalidTransition
	}

	// Переходы confirmed/shipped/delivered сток не трогают.
	order.Status = newStatus
	if err := s.saveWithRetry(&order); err != nil {
		return domain.Order{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordStatusChange(string(newStatus))
	}
	s.appendEvent(order.ID, eventOrderStatusChanged, string(newStatus), order.UpdatedAt)
	s.publishOrderEvent(kafka.EventTypeOrderStatusChanged, &order, nil)

	return order, nil
}

// authorizeOrderAccess пускает администратора к любому заказу,
// покупателя — только к собственному.
func (s *Service) authorizeOrderAccess(identity domain.Identity, order domain.Order) error {
	if identity.IsAdmin() {
		return nil
	}
	if order.UserID != identity.UserID {
		return domain.ErrNotOrderOwner
	}
	return nil
}

// saveWithRetry сохраняет заказ, повторяя попытку при конфликте версий
// с exponential backoff. Статус и сумма из последней попытки
// накладываются на перечитанный заказ.
func (s *Service) saveWithRetry(order *domain.Order) error {
	const maxRetries = 3
	const baseDelay = 10 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		order.UpdatedAt = time.Now().UTC()
		prevVersion := order.Version

		err := s.orders.Save(*order)
		if err == nil {
			order.Version = prevVersion + 1
			return nil
		}
		if !domain.IsVersionConflict(err) || attempt == maxRetries-1 {
			s.logger.WithError(err).WithFields(log.Fields{
				"order_id": order.ID,
				"attempt":  attempt + 1,
			}).Error("failed to persist order")
			return err
		}

		s.logger.WithFields(log.Fields{
			"order_id": order.ID,
			"attempt":  attempt + 1,
			"version":  order.Version,
		}).Warn("version conflict detected, retrying")

		// Перечитываем свежую версию и повторяем наши изменения.
		fresh, loadErr := s.orders.Get(order.ID)
		if loadErr != nil {
			s.logger.WithError(loadErr).WithField("order_id", order.ID).Error("failed to reload order after conflict")
			return loadErr
		}
		status, total := order.Status, order.TotalAmount
		*order = fresh
		order.Status = status
		order.TotalAmount = total

		time.Sleep(baseDelay * time.Duration(1<<uint(attempt)))
	}

	return domain.ErrOrderVersionConflict
}

// appendEvent пишет событие в историю заказа; ошибка истории не
// прерывает бизнес-операцию.
func (s *Service) appendEvent(orderID, eventType, reason string, occurred time.Time) {
	event := domain.OrderEvent{
		ID:       uuid.NewString(),
		OrderID:  orderID,
		Type:     eventType,
		Reason:   reason,
		Occurred: occurred,
	}
	if err := s.events.Append(event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id": orderID,
			"event":    eventType,
		}).Warn("append order event failed")
		return
	}
	if s.metrics != nil {
		s.metrics.RecordTimelineEvent()
	}
}

// rejectOrder фиксирует отклонённое оформление в метриках и логе.
func (s *Service) rejectOrder(userID string, cause error) {
	s.logger.WithError(cause).WithField("user_id", userID).Warn("order placement rejected")
	if s.metrics == nil {
		return
	}
	s.metrics.RecordOrderRejected()
	if errors.Is(cause, domain.ErrInsufficientStock) || errors.Is(cause, domain.ErrProductDisabled) {
		s.metrics.RecordStockRejection()
	}
}

// publishOrderEvent публикует событие заказа в Kafka (если producer настроен)
func (s *Service) publishOrderEvent(eventType kafka.EventType, order *domain.Order, metadata map[string]interface{}) {
	if s.kafkaProducer == nil {
		return // Kafka не настроен, пропускаем
	}

	event := kafka.NewOrderEvent(eventType, order.ID, order.UserID, string(order.Status), metadata)
	if err := s.kafkaProducer.PublishOrderEvent(event); err != nil {
		// Логируем ошибку, но не прерываем операцию: Kafka опциональный
		s.logger.WithError(err).WithFields(log.Fields{
			"event_type": eventType,
			"order_id":   order.ID,
		}).Warn("failed to publish order event to kafka")
	}
}

// newOrderNumber генерирует непрозрачный уникальный номер заказа.
func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
