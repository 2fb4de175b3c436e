package domain

import "time"

// Типы событий timeline заказа.
const (
	TimelineEventOrderCreated      = "OrderCreated"
	TimelineEventOrderStatusChange = "OrderStatusChanged"
	TimelineEventOrderCompleted    = "OrderCompleted"
	TimelineEventSaleRecorded      = "SaleRecorded"
	TimelineEventOrderDeleted      = "OrderDeleted"
)

// TimelineEvent описывает событие в жизненном цикле заказа.
type TimelineEvent struct {
	OrderID  string
	Type     string
	Reason   string
	Occurred time.Time
}
