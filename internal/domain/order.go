package domain

import (
	"encoding/json"
	"time"
)

// OrderStatus описывает жизненный цикл заказа витрины.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан, обработка ещё не началась.
	OrderStatusPending OrderStatus = "Pending"
	// OrderStatusProcessing — заказ принят в обработку.
	OrderStatusProcessing OrderStatus = "Processing"
	// OrderStatusShipped — заказ передан в доставку.
	OrderStatusShipped OrderStatus = "Shipped"
	// OrderStatusDelivered — заказ доставлен покупателю.
	OrderStatusDelivered OrderStatus = "Delivered"
	// OrderStatusCompleted — заказ завершён; единственный статус,
	// который порождает запись о продаже.
	OrderStatusCompleted OrderStatus = "Completed"
	// OrderStatusCancelled — заказ отменён.
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// IsValid проверяет, что статус принадлежит закрытому множеству.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem представляет одну позицию заказа.
// Product — слабая ссылка на каталог: хранится только ProductID,
// сама сущность резолвится на чтении.
type OrderItem struct {
	ID        string
	ProductID string
	Product   *Product
	Qty       int32
	Price     float64
	CreatedAt time.Time
}

// ShippingAddress — адрес доставки; ядром не интерпретируется.
type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// PaymentResult — результат оплаты от платёжного провайдера (opaque payload).
type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

// Order агрегирует состояние заказа и его позиции.
type Order struct {
	ID string
	// OrderNumber — человекочитаемый уникальный номер вида DS-#####.
	OrderNumber          string
	UserID               string
	User                 *User
	Items                []OrderItem
	ShippingAddress      ShippingAddress
	PaymentMethod        string
	PaymentMethodDetails json.RawMessage
	PaymentResult        *PaymentResult
	ItemsPrice           float64
	TaxPrice             float64
	ShippingPrice        float64
	TotalPrice           float64
	IsPaid               bool
	PaidAt               *time.Time
	IsDelivered          bool
	DeliveredAt          *time.Time
	Status               OrderStatus
	Version              int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.UserID == "" {
		errs = append(errs, ErrUserRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if !o.Status.IsValid() {
		errs = append(errs, ErrStatusInvalid)
	}

	for _, item := range o.Items {
		if item.ProductID == "" {
			errs = append(errs, ErrItemProductRequired)
		}
		if item.Qty <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.Price < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
	}

	for _, amount := range []float64{o.ItemsPrice, o.TaxPrice, o.ShippingPrice, o.TotalPrice} {
		if amount < 0 {
			errs = append(errs, ErrAmountNegative)
			break
		}
	}

	return errs
}

// SnapshotItems возвращает копию позиций без резолвленных ссылок —
// слепок состояния заказа на момент события.
func (o *Order) SnapshotItems() []OrderItem {
	items := make([]OrderItem, len(o.Items))
	copy(items, o.Items)
	for i := range items {
		items[i].Product = nil
	}
	return items
}
