package memory

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
)

// timelineRepositoryInMemory хранит события заказов в памяти.
// Срез каждого заказа поддерживается отсортированным по Occurred:
// вставка идёт в нужную позицию вместо пересортировки.
type timelineRepositoryInMemory struct {
	mu     sync.RWMutex
	events map[string][]domain.TimelineEvent
}

// NewTimelineRepository создаёт in-memory реализацию TimelineRepository.
func NewTimelineRepository() domain.TimelineRepository {
	return &timelineRepositoryInMemory{events: make(map[string][]domain.TimelineEvent)}
}

// Append добавляет событие, сохраняя хронологический порядок.
func (r *timelineRepositoryInMemory) Append(event domain.TimelineEvent) error {
	if event.OrderID == "" {
		return errors.New("timeline event without order id")
	}
	if event.Occurred.IsZero() {
		event.Occurred = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	timeline := r.events[event.OrderID]
	pos := sort.Search(len(timeline), func(i int) bool {
		return timeline[i].Occurred.After(event.Occurred)
	})
	timeline = append(timeline, domain.TimelineEvent{})
	copy(timeline[pos+1:], timeline[pos:])
	timeline[pos] = event
	r.events[event.OrderID] = timeline
	return nil
}

// List возвращает копию событий заказа в хронологическом порядке.
func (r *timelineRepositoryInMemory) List(orderID string) ([]domain.TimelineEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	timeline := r.events[orderID]
	result := make([]domain.TimelineEvent, len(timeline))
	copy(result, timeline)
	return result, nil
}

var _ domain.TimelineRepository = (*timelineRepositoryInMemory)(nil)
