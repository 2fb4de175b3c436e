package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/metrics"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/service/ordernum"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/service/sale"
)

// Типы событий заказа для transactional outbox.
const (
	EventTypeOrderCreated   = "order.created"
	EventTypeOrderUpdated   = "order.updated"
	EventTypeOrderCompleted = "order.completed"
	EventTypeOrderDeleted   = "order.deleted"
	EventTypeSaleRecorded   = "sale.recorded"

	aggregateTypeOrder = "order"
	aggregateTypeSale  = "sale"

	// Сколько раз пересоздавать номер, если вставка упёрлась в уникальный
	// индекс: пред-проверка генератора не атомарна со вставкой, и две
	// конкурентные Create могут выбрать один кандидат.
	defaultCreateAttempts = 3
)

// CreateParams — входные данные создания заказа.
type CreateParams struct {
	Items                []ItemParams
	ShippingAddress      domain.ShippingAddress
	PaymentMethod        string
	PaymentMethodDetails json.RawMessage
	ItemsPrice           float64
	TaxPrice             float64
	ShippingPrice        float64
	TotalPrice           float64
	UserID               string
}

// ItemParams — позиция заказа на входе.
type ItemParams struct {
	ProductID string
	Qty       int32
	Price     float64
}

// UpdateParams — частичное обновление заказа: применяются только
// заполненные (non-nil) поля.
type UpdateParams struct {
	Items           *[]ItemParams
	ShippingAddress *domain.ShippingAddress
	PaymentMethod   *string
	PaymentResult   *domain.PaymentResult
	ItemsPrice      *float64
	TaxPrice        *float64
	ShippingPrice   *float64
	TotalPrice      *float64
	UserID          *string
	IsPaid          *bool
	PaidAt          *time.Time
	IsDelivered     *bool
	DeliveredAt     *time.Time
	Status          *domain.OrderStatus
}

// Service владеет правилами жизненного цикла заказа: создание с уникальным
// номером, чтение с резолвингом слабых ссылок, частичное обновление,
// удаление и порождение продажи при переходе в Completed.
type Service struct {
	orders   domain.OrderRepository
	products domain.ProductRepository
	users    domain.UserRepository
	gen      *ordernum.Generator
	recorder *sale.Recorder
	outbox   domain.OutboxRepository
	timeline domain.TimelineRepository
	logger   *log.Entry
	metrics  *metrics.OrderMetrics
}

// NewService конструирует сервис с зависимостями. Outbox и timeline
// опциональны: nil отключает соответствующие побочные записи.
func NewService(
	orders domain.OrderRepository,
	products domain.ProductRepository,
	users domain.UserRepository,
	gen *ordernum.Generator,
	recorder *sale.Recorder,
	outbox domain.OutboxRepository,
	timeline domain.TimelineRepository,
	m *metrics.OrderMetrics,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "order-service")
	}
	return &Service{
		orders:   orders,
		products: products,
		users:    users,
		gen:      gen,
		recorder: recorder,
		outbox:   outbox,
		timeline: timeline,
		logger:   logger,
		metrics:  m,
	}
}

// Create получает уникальный номер, собирает заказ в начальном статусе
// и сохраняет его. Нарушение уникального индекса на номере трактуется
// как проигранная гонка: номер пересоздаётся и вставка повторяется.
func (s *Service) Create(params CreateParams) (domain.Order, error) {
	now := time.Now().UTC()

	items := make([]domain.OrderItem, 0, len(params.Items))
	for _, item := range params.Items {
		items = append(items, domain.OrderItem{
			ID:        uuid.NewString(),
			ProductID: item.ProductID,
			Qty:       item.Qty,
			Price:     item.Price,
			CreatedAt: now,
		})
	}

	order := domain.Order{
		ID:                   uuid.NewString(),
		UserID:               params.UserID,
		Items:                items,
		ShippingAddress:      params.ShippingAddress,
		PaymentMethod:        params.PaymentMethod,
		PaymentMethodDetails: params.PaymentMethodDetails,
		ItemsPrice:           params.ItemsPrice,
		TaxPrice:             params.TaxPrice,
		ShippingPrice:        params.ShippingPrice,
		TotalPrice:           params.TotalPrice,
		Status:               domain.OrderStatusPending,
		Version:              0,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, errors.Join(errs...)
	}

	var lastErr error
	for attempt := 1; attempt <= defaultCreateAttempts; attempt++ {
		number, err := s.gen.Generate()
		if err != nil {
			return domain.Order{}, err
		}
		order.OrderNumber = number

		err = s.orders.Create(order)
		if err == nil {
			lastErr = nil
			break
		}
		if !errors.Is(err, domain.ErrDuplicateOrderNumber) {
			s.logger.WithError(err).Error("failed to create order")
			return domain.Order{}, fmt.Errorf("persist order: %w", err)
		}
		lastErr = err
		s.logger.WithFields(log.Fields{
			"order_number": number,
			"attempt":      attempt,
		}).Warn("order number lost insert race, regenerating")
	}
	if lastErr != nil {
		return domain.Order{}, fmt.Errorf("%w: %v", domain.ErrNumberSpaceExhausted, lastErr)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
	s.appendTimeline(order.ID, domain.TimelineEventOrderCreated, "")
	s.enqueueOrderEvent(EventTypeOrderCreated, order)

	s.logger.WithFields(log.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	}).Info("order created")

	return order, nil
}

// Get возвращает заказ с резолвленными ссылками на товары и покупателя.
func (s *Service) Get(id string) (domain.Order, error) {
	order, err := s.orders.Get(id)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.resolveRefs(&order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// List возвращает все заказы с резолвленными ссылками.
// Отсутствие заказов — пустой срез, не ошибка.
func (s *Service) List() ([]domain.Order, error) {
	orders, err := s.orders.List()
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if err := s.resolveRefs(&orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// Count возвращает общее количество заказов.
func (s *Service) Count() (int64, error) {
	return s.orders.Count()
}

// Update применяет частичное обновление и сохраняет заказ. Если обновление
// устанавливает статус Completed, после сохранения вызывается recorder
// продаж; его ошибка возвращается как *domain.SaleCreationError, при этом
// мутация заказа уже durable — вызывающая сторона обязана отработать
// reconciliation, отката здесь нет.
func (s *Service) Update(id string, params UpdateParams) (domain.Order, error) {
	order, err := s.orders.Get(id)
	if err != nil {
		return domain.Order{}, err
	}

	prevStatus := order.Status
	applyParams(&order, params)
	order.UpdatedAt = time.Now().UTC()

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, errors.Join(errs...)
	}

	if err := s.orders.Save(order); err != nil {
		s.logger.WithError(err).WithField("order_id", id).Error("failed to save order")
		return domain.Order{}, fmt.Errorf("save order: %w", err)
	}
	order.Version++

	if params.Status != nil && prevStatus != *params.Status {
		s.appendTimeline(order.ID, domain.TimelineEventOrderStatusChange, string(*params.Status))
	}

	completed := params.Status != nil && *params.Status == domain.OrderStatusCompleted
	if completed {
		if s.metrics != nil {
			s.metrics.RecordOrderCompleted()
		}
		s.appendTimeline(order.ID, domain.TimelineEventOrderCompleted, "")
		s.enqueueOrderEvent(EventTypeOrderCompleted, order)

		recorded, err := s.recorder.RecordCompletion(order)
		if err != nil {
			s.logger.WithError(err).WithField("order_id", order.ID).Error("sale creation failed after completion")
			return domain.Order{}, &domain.SaleCreationError{OrderID: order.ID, Err: err}
		}
		s.appendTimeline(order.ID, domain.TimelineEventSaleRecorded, recorded.ID)
		s.enqueueSaleEvent(recorded)
	} else {
		s.enqueueOrderEvent(EventTypeOrderUpdated, order)
	}

	if err := s.resolveRefs(&order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// Delete удаляет заказ безусловно к его статусу; связанная продажа,
// если она есть, не затрагивается.
func (s *Service) Delete(id string) error {
	if err := s.orders.Delete(id); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderDeleted()
	}
	s.appendTimeline(id, domain.TimelineEventOrderDeleted, "")
	s.enqueueRawEvent(aggregateTypeOrder, id, EventTypeOrderDeleted, map[string]any{"order_id": id})

	s.logger.WithField("order_id", id).Info("order deleted")
	return nil
}

func applyParams(order *domain.Order, params UpdateParams) {
	if params.Items != nil {
		now := time.Now().UTC()
		items := make([]domain.OrderItem, 0, len(*params.Items))
		for _, item := range *params.Items {
			items = append(items, domain.OrderItem{
				ID:        uuid.NewString(),
				ProductID: item.ProductID,
				Qty:       item.Qty,
				Price:     item.Price,
				CreatedAt: now,
			})
		}
		order.Items = items
	}
	if params.ShippingAddress != nil {
		order.ShippingAddress = *params.ShippingAddress
	}
	if params.PaymentMethod != nil {
		order.PaymentMethod = *params.PaymentMethod
	}
	if params.PaymentResult != nil {
		order.PaymentResult = params.PaymentResult
	}
	if params.ItemsPrice != nil {
		order.ItemsPrice = *params.ItemsPrice
	}
	if params.TaxPrice != nil {
		order.TaxPrice = *params.TaxPrice
	}
	if params.ShippingPrice != nil {
		order.ShippingPrice = *params.ShippingPrice
	}
	if params.TotalPrice != nil {
		order.TotalPrice = *params.TotalPrice
	}
	if params.UserID != nil {
		order.UserID = *params.UserID
	}
	if params.IsPaid != nil {
		order.IsPaid = *params.IsPaid
	}
	if params.PaidAt != nil {
		order.PaidAt = params.PaidAt
	}
	if params.IsDelivered != nil {
		order.IsDelivered = *params.IsDelivered
	}
	if params.DeliveredAt != nil {
		order.DeliveredAt = params.DeliveredAt
	}
	if params.Status != nil {
		order.Status = *params.Status
	}
}

// resolveRefs подставляет сущности каталога по слабым ссылкам.
// Отсутствующая сущность оставляет ссылку пустой: ссылка слабая,
// её цель могла быть удалена независимо от заказа.
func (s *Service) resolveRefs(order *domain.Order) error {
	if s.users != nil && order.UserID != "" {
		user, err := s.users.Get(order.UserID)
		switch {
		case err == nil:
			order.User = &user
		case errors.Is(err, domain.ErrUserNotFound):
			order.User = nil
		default:
			return fmt.Errorf("resolve user %s: %w", order.UserID, err)
		}
	}

	if s.products == nil {
		return nil
	}
	for i := range order.Items {
		item := &order.Items[i]
		if item.ProductID == "" {
			continue
		}
		product, err := s.products.Get(item.ProductID)
		switch {
		case err == nil:
			item.Product = &product
		case errors.Is(err, domain.ErrProductNotFound):
			item.Product = nil
		default:
			return fmt.Errorf("resolve product %s: %w", item.ProductID, err)
		}
	}
	return nil
}

func (s *Service) appendTimeline(orderID, eventType, reason string) {
	if s.timeline == nil {
		return
	}
	event := domain.TimelineEvent{
		OrderID:  orderID,
		Type:     eventType,
		Reason:   reason,
		Occurred: time.Now().UTC(),
	}
	if err := s.timeline.Append(event); err != nil {
		s.logger.WithError(err).WithField("order_id", orderID).Warn("failed to append timeline event")
	}
}

func (s *Service) enqueueOrderEvent(eventType string, order domain.Order) {
	s.enqueueRawEvent(aggregateTypeOrder, order.ID, eventType, map[string]any{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"status":       string(order.Status),
		"total_price":  order.TotalPrice,
	})
}

func (s *Service) enqueueSaleEvent(recorded domain.Sale) {
	s.enqueueRawEvent(aggregateTypeSale, recorded.OrderID, EventTypeSaleRecorded, map[string]any{
		"sale_id":      recorded.ID,
		"order_id":     recorded.OrderID,
		"user_id":      recorded.UserID,
		"total_amount": recorded.TotalAmount,
	})
}

func (s *Service) enqueueRawEvent(aggregateType, aggregateID, eventType string, payload map[string]any) {
	if s.outbox == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.WithError(err).Warn("failed to marshal outbox payload")
		return
	}
	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       body,
	}); err != nil {
		s.logger.WithError(err).WithField("event_type", eventType).Warn("failed to enqueue outbox event")
	}
}
