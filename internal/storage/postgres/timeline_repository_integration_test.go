package postgres

import (
	"testing"
	"time"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
)

func TestTimelineRepository_PostgresAppendAndList(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewTimelineRepository(store)

	now := time.Now().UTC().Round(time.Microsecond)

	events := []domain.TimelineEvent{
		{OrderID: "order-1", Type: domain.TimelineEventOrderCreated, Occurred: now.Add(-2 * time.Minute)},
		{OrderID: "order-1", Type: domain.TimelineEventOrderStatusChange, Reason: "Pending -> Completed", Occurred: now.Add(-time.Minute)},
		{OrderID: "order-1", Type: domain.TimelineEventSaleRecorded, Occurred: now},
		{OrderID: "order-2", Type: domain.TimelineEventOrderCreated, Occurred: now},
	}
	for _, event := range events {
		if err := repo.Append(event); err != nil {
			t.Fatalf("append %s: %v", event.Type, err)
		}
	}

	// Пустое Occurred заполняется текущим временем.
	if err := repo.Append(domain.TimelineEvent{OrderID: "order-3", Type: domain.TimelineEventOrderDeleted}); err != nil {
		t.Fatalf("append without occurred: %v", err)
	}

	listed, err := repo.List("order-1")
	if err != nil {
		t.Fatalf("list timeline: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 events for order-1, got %d", len(listed))
	}
	if listed[0].Type != domain.TimelineEventOrderCreated || listed[2].Type != domain.TimelineEventSaleRecorded {
		t.Fatalf("unexpected event order: %+v", listed)
	}
	if listed[1].Reason != "Pending -> Completed" {
		t.Fatalf("unexpected reason: %q", listed[1].Reason)
	}

	other, err := repo.List("order-3")
	if err != nil {
		t.Fatalf("list order-3: %v", err)
	}
	if len(other) != 1 || other[0].Occurred.IsZero() {
		t.Fatalf("expected one event with filled occurred, got %+v", other)
	}

	empty, err := repo.List("missing-order")
	if err != nil {
		t.Fatalf("list missing order: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no events, got %d", len(empty))
	}
}
