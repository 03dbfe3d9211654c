package kafka

import "time"

// EventType определяет тип публикуемого события
type EventType string

const (
	// Order события
	EventTypeOrderCreated       EventType = "order.created"
	EventTypeOrderCancelled     EventType = "order.cancelled"
	EventTypeOrderStatusChanged EventType = "order.status_changed"

	// Catalog события
	EventTypeProductDepleted EventType = "product.depleted"
)

// Topics для Kafka
const (
	TopicOrderEvents   = "storefront.order.events"
	TopicCatalogEvents = "storefront.catalog.events"
)

// OrderEvent представляет событие жизненного цикла заказа
type OrderEvent struct {
	EventType EventType              `json:"event_type"`
	OrderID   string                 `json:"order_id"`
	UserID    string                 `json:"user_id"`
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewOrderEvent создает новое событие заказа
func NewOrderEvent(eventType EventType, orderID, userID, status string, metadata map[string]interface{}) *OrderEvent {
	return &OrderEvent{
		EventType: eventType,
		OrderID:   orderID,
		UserID:    userID,
		Status:    status,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}

// ProductEvent представляет событие каталога
type ProductEvent struct {
	EventType EventType `json:"event_type"`
	ProductID string    `json:"product_id"`
	SKU       string    `json:"sku"`
	Timestamp time.Time `json:"timestamp"`
}

// NewProductEvent создает новое событие каталога
func NewProductEvent(eventType EventType, productID, sku string) *ProductEvent {
	return &ProductEvent{
		EventType: eventType,
		ProductID: productID,
		SKU:       sku,
		Timestamp: time.Now(),
	}
}
