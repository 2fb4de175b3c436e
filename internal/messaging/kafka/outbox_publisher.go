package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
)

// OutboxTopicPublisher публикует outbox-сообщения в Kafka.
// Topic выбирается по типу агрегата: события заказов и продаж идут
// в разные topics, неизвестные агрегаты — в defaultTopic.
type OutboxTopicPublisher struct {
	producer     *Producer
	defaultTopic string
}

// NewOutboxPublisher создаёт Kafka-паблишер для transactional outbox.
func NewOutboxPublisher(producer *Producer, defaultTopic string) domain.OutboxPublisher {
	if defaultTopic == "" {
		defaultTopic = TopicOrderEvents
	}
	return &OutboxTopicPublisher{
		producer:     producer,
		defaultTopic: defaultTopic,
	}
}

func (p *OutboxTopicPublisher) Publish(event domain.OutboxMessage) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka outbox publisher is not initialized")
	}

	key := event.AggregateID
	if key == "" {
		key = event.ID
	}

	envelope := struct {
		ID            string          `json:"id"`
		AggregateType string          `json:"aggregate_type"`
		AggregateID   string          `json:"aggregate_id"`
		EventType     string          `json:"event_type"`
		Payload       json.RawMessage `json:"payload"`
		PublishedAt   time.Time       `json:"published_at"`
	}{
		ID:            event.ID,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		EventType:     event.EventType,
		Payload:       json.RawMessage(event.Payload),
		PublishedAt:   time.Now().UTC(),
	}

	return p.producer.PublishEvent(p.topicFor(event.AggregateType), key, envelope)
}

func (p *OutboxTopicPublisher) topicFor(aggregateType string) string {
	switch aggregateType {
	case "order":
		return TopicOrderEvents
	case "sale":
		return TopicSaleEvents
	default:
		return p.defaultTopic
	}
}

var _ domain.OutboxPublisher = (*OutboxTopicPublisher)(nil)

// DLQPublisher отправляет сообщения строго в dead letter queue,
// игнорируя маршрутизацию по типу агрегата.
type DLQPublisher struct {
	producer *Producer
}

// NewDLQPublisher создаёт паблишер для DLQ.
func NewDLQPublisher(producer *Producer) domain.OutboxPublisher {
	return &DLQPublisher{producer: producer}
}

func (p *DLQPublisher) Publish(event domain.OutboxMessage) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka dlq publisher is not initialized")
	}

	key := event.AggregateID
	if key == "" {
		key = event.ID
	}
	return p.producer.PublishEvent(TopicDeadLetterQueue, key, json.RawMessage(event.Payload))
}

var _ domain.OutboxPublisher = (*DLQPublisher)(nil)
