package kafka

import (
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
)

func TestOutboxPublisher_Publish(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndSucceed()

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-outbox-publisher-test"),
	}
	publisher := NewOutboxPublisher(producer, TopicOrderEvents)

	err := publisher.Publish(domain.OutboxMessage{
		ID:            "outbox-1",
		AggregateType: "order",
		AggregateID:   "order-123",
		EventType:     string(EventTypeOrderCompleted),
		Payload:       []byte(`{"status":"Completed"}`),
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOutboxPublisher_PublishSaleEvent(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func([]byte) error { return nil })

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-outbox-publisher-test"),
	}
	publisher := NewOutboxPublisher(producer, TopicOrderEvents)

	err := publisher.Publish(domain.OutboxMessage{
		ID:            "outbox-2",
		AggregateType: "sale",
		AggregateID:   "sale-1",
		EventType:     string(EventTypeSaleRecorded),
		Payload:       []byte(`{"total_amount":499.99}`),
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOutboxPublisher_PublishProducerError(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-outbox-publisher-test"),
	}
	publisher := NewOutboxPublisher(producer, TopicOrderEvents)

	err := publisher.Publish(domain.OutboxMessage{
		ID:            "outbox-3",
		AggregateType: "order",
		AggregateID:   "order-234",
		EventType:     string(EventTypeOrderUpdated),
		Payload:       []byte(`{"status":"Processing"}`),
	})
	if err == nil {
		t.Fatal("expected publish error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOutboxPublisher_PublishNilProducer(t *testing.T) {
	t.Parallel()

	publisher := NewOutboxPublisher(nil, TopicOrderEvents)
	if err := publisher.Publish(domain.OutboxMessage{ID: "outbox-4"}); err == nil {
		t.Fatal("expected error for nil producer")
	}
}

func TestDLQPublisher_Publish(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func([]byte) error { return nil })

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-dlq-publisher-test"),
	}
	publisher := NewDLQPublisher(producer)

	err := publisher.Publish(domain.OutboxMessage{
		ID:            "outbox-5",
		AggregateType: "order",
		AggregateID:   "order-345",
		EventType:     string(EventTypeOrderUpdated),
		Payload:       []byte(`{"status":"Cancelled"}`),
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestDLQPublisher_NilProducer(t *testing.T) {
	t.Parallel()

	publisher := NewDLQPublisher(nil)
	if err := publisher.Publish(domain.OutboxMessage{ID: "outbox-6"}); err == nil {
		t.Fatal("expected error for nil producer")
	}
}

func TestOutboxPublisher_TopicRouting(t *testing.T) {
	t.Parallel()

	publisher := &OutboxTopicPublisher{defaultTopic: TopicDeadLetterQueue}

	if got := publisher.topicFor("order"); got != TopicOrderEvents {
		t.Fatalf("unexpected topic for order: %s", got)
	}
	if got := publisher.topicFor("sale"); got != TopicSaleEvents {
		t.Fatalf("unexpected topic for sale: %s", got)
	}
	if got := publisher.topicFor("unknown"); got != TopicDeadLetterQueue {
		t.Fatalf("unexpected fallback topic: %s", got)
	}
}
