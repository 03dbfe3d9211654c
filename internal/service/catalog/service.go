package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
)

// Service владеет каталогом и остатками: товары, категории, проверка
// доступности к покупке и пакетные изменения стока под заказ.
type Service struct {
	products      domain.ProductRepository
	categories    domain.CategoryRepository
	logger        *log.Entry
	kafkaProducer *kafka.Producer // опциональный producer для событий каталога
}

// NewService создаёт сервис каталога.
func NewService(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "catalog")
	}
	return &Service{
		products:   products,
		categories: categories,
		logger:     logger,
	}
}

// NewServiceWithKafka создаёт сервис каталога с Kafka producer.
func NewServiceWithKafka(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	kafkaProducer *kafka.Producer,
	logger *log.Entry,
) *Service {
	svc := NewService(products, categories, logger)
	svc.kafkaProducer = kafkaProducer
	return svc
}

// ProductInput — поля товара, задаваемые администратором.
type ProductInput struct {
	SKU           string
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int32
	CategoryID    string
}

// CreateProduct создаёт товар каталога. Начальный остаток задаётся
// здесь единственный раз: дальше сток меняют только оформление и
// отмена заказов. Товар с нулевым начальным остатком сразу неактивен.
func (s *Service) CreateProduct(in ProductInput) (domain.Product, error) {
	if in.CategoryID != "" {
		if _, err := s.categories.Get(in.CategoryID); err != nil {
			return domain.Product{}, err
		}
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:            uuid.NewString(),
		SKU:           in.SKU,
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		Active:        in.StockQuantity > 0,
		CategoryID:    in.CategoryID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if errs := product.Validate(); len(errs) > 0 {
		return domain.Product{}, errs[0]
	}

	if err := s.products.Create(product); err != nil {
		return domain.Product{}, err
	}
	s.logger.WithFields(log.Fields{
		"product_id": product.ID,
		"sku":        product.SKU,
	}).Info("product created")
	return product, nil
}

// UpdateProduct меняет описательные поля товара. Остаток намеренно
// не принимается: сток мутируют только заказы.
func (s *Service) UpdateProduct(id string, in ProductInput) (domain.Product, error) {
	product, err := s.products.Get(id)
	if err != nil {
		return domain.Product{}, err
	}
	if in.CategoryID != "" && in.CategoryID != product.CategoryID {
		if _, err := s.categories.Get(in.CategoryID); err != nil {
			return domain.Product{}, err
		}
	}

	product.SKU = in.SKU
	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.CategoryID = in.CategoryID
	product.UpdatedAt = time.Now().UTC()
	if errs := product.Validate(); len(errs) > 0 {
		return domain.Product{}, errs[0]
	}

	if err := s.products.Save(product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// GetProduct возвращает товар по идентификатору.
func (s *Service) GetProduct(id string) (domain.Product, error) {
	return s.products.Get(id)
}

// ListProducts возвращает страницу каталога.
func (s *Service) ListProducts(req domain.PageRequest) (domain.Page[domain.Product], error) {
	return s.products.List(req)
}

// ListProductsByCategory возвращает страницу товаров категории.
func (s *Service) ListProductsByCategory(categoryID string, req domain.PageRequest) (domain.Page[domain.Product], error) {
	if _, err := s.categories.Get(categoryID); err != nil {
		return domain.Page[domain.Product]{}, err
	}
	return s.products.ListByCategory(categoryID, req)
}

// ValidateAndGetProduct возвращает товар, пригодный к покупке.
// Неактивный товар отклоняется. Товар с нулевым остатком, который
// ещё числится активным, здесь же деактивируется через MarkOutOfStock
// и отклоняется: такие строки остаются от данных, записанных до
// правила "списание до нуля деактивирует".
func (s *Service) ValidateAndGetProduct(id string) (domain.Product, error) {
	product, err := s.products.Get(id)
	if err != nil {
		return domain.Product{}, err
	}
	if !product.Active {
		return domain.Product{}, domain.ErrProductDisabled
	}
	if product.StockQuantity == 0 {
		s.MarkOutOfStock(&product)
		return domain.Product{}, domain.ErrProductDisabled
	}
	return product, nil
}

// MarkOutOfStock — именованный переход "товар распродан": снимает флаг
// активности, сохраняет товар и публикует событие каталога. Ошибки
// сохранения логируются: вызывающая сторона в любом случае отклонит
// покупку.
func (s *Service) MarkOutOfStock(product *domain.Product) {
	product.Active = false
	product.UpdatedAt = time.Now().UTC()
	if err := s.products.Save(*product); err != nil {
		s.logger.WithError(err).WithField("product_id", product.ID).Error("failed to deactivate depleted product")
		return
	}
	s.logger.WithFields(log.Fields{
		"product_id": product.ID,
		"sku":        product.SKU,
	}).Info("product depleted, deactivated")
	s.publishDepleted(product)
}

// ValidateProductsForOrder перечитывает товары по всем позициям корзины
// и проверяет их пригодность до каких-либо мутаций стока. Проверка
// идёт по свежим данным, не по снимку времени корзины. Возвращает
// товары в порядке позиций.
func (s *Service) ValidateProductsForOrder(lines []domain.CartItem) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(lines))
	for _, line := range lines {
		product, err := s.products.Get(line.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.Active {
			return nil, domain.ErrProductDisabled
		}
		if line.Quantity > product.StockQuantity {
			return nil, domain.ErrInsufficientStock
		}
		products = append(products, product)
	}
	return products, nil
}

// DecreaseStockForOrderItems списывает сток по позициям заказа одним
// пакетом. Достаточность проверена ранее ValidateProductsForOrder, но
// хранилище всё равно отклонит уход ниже нуля целиком.
func (s *Service) DecreaseStockForOrderItems(items []domain.OrderItem) error {
	adjustments := make([]domain.StockAdjustment, 0, len(items))
	for _, item := range items {
		adjustments = append(adjustments, domain.StockAdjustment{
			ProductID: item.ProductID,
			Delta:     -item.Quantity,
		})
	}
	if err := s.products.AdjustStock(adjustments); err != nil {
		return err
	}
	s.NotifyDepleted(items)
	return nil
}

// IncreaseStockForOrderItems возвращает сток по позициям заказа одним
// пакетом. Используется только отменой заказа.
func (s *Service) IncreaseStockForOrderItems(items []domain.OrderItem) error {
	adjustments := make([]domain.StockAdjustment, 0, len(items))
	for _, item := range items {
		adjustments = append(adjustments, domain.StockAdjustment{
			ProductID: item.ProductID,
			Delta:     item.Quantity,
		})
	}
	return s.products.AdjustStock(adjustments)
}

// NotifyDepleted публикует события по товарам, у которых списание
// обнулило остаток. Вызывается после успешного списания.
func (s *Service) NotifyDepleted(items []domain.OrderItem) {
	for _, item := range items {
		product, err := s.products.Get(item.ProductID)
		if err != nil {
			continue
		}
		if product.StockQuantity == 0 {
			s.logger.WithFields(log.Fields{
				"product_id": product.ID,
				"sku":        product.SKU,
			}).Info("product depleted, deactivated")
			s.publishDepleted(&product)
		}
	}
}

// CreateCategory создаёт категорию; родитель, если задан, должен существовать.
func (s *Service) CreateCategory(name, parentID string) (domain.Category, error) {
	if parentID != "" {
		if _, err := s.categories.Get(parentID); err != nil {
			return domain.Category{}, err
		}
	}

	now := time.Now().UTC()
	category := domain.Category{
		ID:        uuid.NewString(),
		Name:      name,
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errs := category.Validate(); len(errs) > 0 {
		return domain.Category{}, errs[0]
	}

	if err := s.categories.Create(category); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

// GetCategory возвращает категорию по идентификатору.
func (s *Service) GetCategory(id string) (domain.Category, error) {
	return s.categories.Get(id)
}

// ListCategories возвращает страницу категорий.
func (s *Service) ListCategories(req domain.PageRequest) (domain.Page[domain.Category], error) {
	return s.categories.List(req)
}

// UpdateCategory меняет название и родителя категории.
func (s *Service) UpdateCategory(id, name, parentID string) (domain.Category, error) {
	category, err := s.categories.Get(id)
	if err != nil {
		return domain.Category{}, err
	}
	if parentID != "" && parentID != category.ParentID {
		if _, err := s.categories.Get(parentID); err != nil {
			return domain.Category{}, err
		}
	}

	category.Name = name
	category.ParentID = parentID
	category.UpdatedAt = time.Now().UTC()
	if errs := category.Validate(); len(errs) > 0 {
		return domain.Category{}, errs[0]
	}

	if err := s.categories.Save(category); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

// publishDepleted отправляет событие "товар распродан" в Kafka (если producer настроен)
func (s *Service) publishDepleted(product *domain.Product) {
	if s.kafkaProducer == nil {
		return // Kafka не настроен, пропускаем
	}
	event := kafka.NewProductEvent(kafka.EventTypeProductDepleted, product.ID, product.SKU)
	if err := s.kafkaProducer.PublishProductEvent(event); err != nil {
		s.logger.WithError(err).WithField("product_id", product.ID).Warn("failed to publish depleted event to kafka")
	}
}
