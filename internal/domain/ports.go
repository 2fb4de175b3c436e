package domain

import "time"

// CheckoutItem — позиция корзины для платёжного шлюза.
// Цена указывается в основных денежных единицах; конвертация в минорные
// единицы (умножение на 100) — обязанность реализации шлюза.
type CheckoutItem struct {
	Name     string
	Price    float64
	Quantity int64
}

// CheckoutGateway описывает взаимодействие с внешним платёжным шлюзом.
// Создание checkout-сессии и создание заказа — независимые операции:
// между ними нет обмена данными.
type CheckoutGateway interface {
	// CreateSession запрашивает hosted-checkout сессию и возвращает её идентификатор.
	CreateSession(items []CheckoutItem) (string, error)
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
