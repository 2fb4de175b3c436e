package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
)

const (
	outboxPending = "pending"
	outboxSent    = "sent"
	outboxFailed  = "failed"
)

// outboxRecord — сообщение плюс служебное состояние доставки.
type outboxRecord struct {
	msg       domain.OutboxMessage
	status    string
	attempts  int
	createdAt time.Time
	updatedAt time.Time
}

// outboxRepositoryInMemory — in-memory transactional outbox.
// PullPending отдаёт сообщения в порядке постановки (FIFO),
// как и PostgreSQL-реализация.
type outboxRepositoryInMemory struct {
	mu      sync.RWMutex
	records map[string]*outboxRecord
	order   []string
}

// NewOutboxRepository создаёт in-memory реализацию outbox.
func NewOutboxRepository() *outboxRepositoryInMemory {
	return &outboxRepositoryInMemory{records: make(map[string]*outboxRecord)}
}

// Enqueue сохраняет событие со статусом pending.
func (r *outboxRepositoryInMemory) Enqueue(msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	r.records[msg.ID] = &outboxRecord{
		msg:       msg,
		status:    outboxPending,
		createdAt: now,
		updatedAt: now,
	}
	r.order = append(r.order, msg.ID)
	return msg, nil
}

// PullPending возвращает до limit pending-сообщений в порядке постановки.
func (r *outboxRepositoryInMemory) PullPending(limit int) ([]domain.OutboxMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	result := make([]domain.OutboxMessage, 0, limit)
	for _, id := range r.order {
		rec, ok := r.records[id]
		if !ok || rec.status != outboxPending {
			continue
		}
		result = append(result, rec.msg)
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

// Stats возвращает размер backlog и возраст самого старого pending-сообщения.
func (r *outboxRepositoryInMemory) Stats() (domain.OutboxStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats domain.OutboxStats
	for _, rec := range r.records {
		if rec.status != outboxPending {
			continue
		}
		stats.PendingCount++
		if stats.OldestPendingAt.IsZero() || rec.createdAt.Before(stats.OldestPendingAt) {
			stats.OldestPendingAt = rec.createdAt
		}
	}
	return stats, nil
}

// MarkSent фиксирует успешную публикацию.
func (r *outboxRepositoryInMemory) MarkSent(id string) error {
	return r.transition(id, outboxSent)
}

// MarkFailed фиксирует отказ после исчерпания retry.
func (r *outboxRepositoryInMemory) MarkFailed(id string) error {
	return r.transition(id, outboxFailed)
}

func (r *outboxRepositoryInMemory) transition(id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return domain.ErrOutboxPublish
	}
	rec.status = status
	rec.attempts++
	rec.updatedAt = time.Now().UTC()
	return nil
}

// AllPending возвращает копию pending-сообщений, отсортированную по времени
// постановки; используется в тестах.
func (r *outboxRepositoryInMemory) AllPending() []domain.OutboxMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type pendingAt struct {
		msg domain.OutboxMessage
		at  time.Time
	}
	pending := make([]pendingAt, 0, len(r.records))
	for _, rec := range r.records {
		if rec.status == outboxPending {
			pending = append(pending, pendingAt{msg: rec.msg, at: rec.createdAt})
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].at.Before(pending[j].at) })

	result := make([]domain.OutboxMessage, 0, len(pending))
	for _, p := range pending {
		result = append(result, p.msg)
	}
	return result
}

var _ domain.OutboxRepository = (*outboxRepositoryInMemory)(nil)
