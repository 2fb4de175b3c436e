package kafka

import (
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"
)

func TestProducer_PublishEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndSucceed()

	event := NewOrderEvent(
		EventTypeOrderCreated,
		"order-123",
		"DS-10001",
		"user-1",
		"Pending",
		map[string]interface{}{
			"total_price": 499.99,
		},
	)

	err := producer.PublishEvent(TopicOrderEvents, "order-123", event)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	event := NewOrderEvent(
		EventTypeOrderDeleted,
		"order-123",
		"DS-10001",
		"user-1",
		"Pending",
		nil,
	)

	err := producer.PublishEvent(TopicOrderEvents, "order-123", event)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewOrderEvent(t *testing.T) {
	event := NewOrderEvent(
		EventTypeOrderCompleted,
		"order-123",
		"DS-10001",
		"user-1",
		"Completed",
		map[string]interface{}{"total_price": 499.99},
	)

	if event.EventType != EventTypeOrderCompleted {
		t.Fatalf("unexpected event type: %s", event.EventType)
	}
	if event.OrderID != "order-123" || event.OrderNumber != "DS-10001" {
		t.Fatalf("unexpected identifiers: %+v", event)
	}
	if event.Status != "Completed" {
		t.Fatalf("unexpected status: %s", event.Status)
	}
	if event.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}
}

func TestNewSaleEvent(t *testing.T) {
	event := NewSaleEvent("sale-1", "order-123", "user-1", 499.99)

	if event.EventType != EventTypeSaleRecorded {
		t.Fatalf("unexpected event type: %s", event.EventType)
	}
	if event.SaleID != "sale-1" || event.OrderID != "order-123" {
		t.Fatalf("unexpected identifiers: %+v", event)
	}
	if event.TotalAmount != 499.99 {
		t.Fatalf("unexpected total amount: %v", event.TotalAmount)
	}
	if event.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}
}
