package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// Order события
	EventTypeOrderCreated   EventType = "order.created"
	EventTypeOrderUpdated   EventType = "order.updated"
	EventTypeOrderCompleted EventType = "order.completed"
	EventTypeOrderDeleted   EventType = "order.deleted"

	// Sale события
	EventTypeSaleRecorded EventType = "sale.recorded"
)

// Topics для Kafka
const (
	TopicOrderEvents     = "storefront.order.events"
	TopicSaleEvents      = "storefront.sale.events"
	TopicDeadLetterQueue = "storefront.dlq" // Dead Letter Queue для failed messages
)

// Kafka headers для retry логики
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// OrderEvent представляет событие заказа
type OrderEvent struct {
	EventType   EventType              `json:"event_type"`
	OrderID     string                 `json:"order_id"`
	OrderNumber string                 `json:"order_number"`
	UserID      string                 `json:"user_id"`
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// SaleEvent представляет событие записи о продаже
type SaleEvent struct {
	EventType   EventType `json:"event_type"`
	SaleID      string    `json:"sale_id"`
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	TotalAmount float64   `json:"total_amount"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewOrderEvent создает новое событие заказа
func NewOrderEvent(eventType EventType, orderID, orderNumber, userID, status string, metadata map[string]interface{}) *OrderEvent {
	return &OrderEvent{
		EventType:   eventType,
		OrderID:     orderID,
		OrderNumber: orderNumber,
		UserID:      userID,
		Status:      status,
		Timestamp:   time.Now(),
		Metadata:    metadata,
	}
}

// NewSaleEvent создает новое событие продажи
func NewSaleEvent(saleID, orderID, userID string, totalAmount float64) *SaleEvent {
	return &SaleEvent{
		EventType:   EventTypeSaleRecorded,
		SaleID:      saleID,
		OrderID:     orderID,
		UserID:      userID,
		TotalAmount: totalAmount,
		Timestamp:   time.Now(),
	}
}
