package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
)

const (
	defaultPollInterval   = 1 * time.Second
	defaultBatchSize      = 100
	defaultMaxAttempts    = 3
	defaultRetryBaseDelay = 50 * time.Millisecond

	// Потолок экспоненциального backoff между попытками публикации.
	maxRetryDelay = 30 * time.Second
)

var (
	outboxDispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_outbox_dispatch_total",
		Help: "Outbox dispatch outcomes grouped by aggregate and result.",
	}, []string{"aggregate", "result"})
	outboxPendingRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_outbox_pending_records",
		Help: "Current number of pending records in transactional outbox.",
	})
	outboxOldestPendingAge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_outbox_oldest_pending_age_seconds",
		Help: "Age in seconds of the oldest pending outbox record.",
	})
)

// Worker доставляет order/sale-события из транзакционного outbox в брокер.
// Сообщение либо уходит (MarkSent), либо после исчерпания retry попадает
// в DLQ и помечается failed — порядок внутри батча сохраняется.
type Worker struct {
	repo           domain.OutboxRepository
	publisher      domain.OutboxPublisher
	dlqPublisher   domain.OutboxPublisher
	logger         *log.Entry
	pollInterval   time.Duration
	batchSize      int
	maxAttempts    int
	retryBaseDelay time.Duration
}

// Option настраивает Worker.
type Option func(*Worker)

// WithLogger задаёт logger для воркера.
func WithLogger(logger *log.Entry) Option {
	return func(w *Worker) { w.logger = logger }
}

// WithDLQPublisher задаёт publisher для отправки в DLQ после исчерпания retry.
func WithDLQPublisher(publisher domain.OutboxPublisher) Option {
	return func(w *Worker) { w.dlqPublisher = publisher }
}

// WithPollInterval задаёт частоту опроса outbox.
func WithPollInterval(interval time.Duration) Option {
	return func(w *Worker) { w.pollInterval = interval }
}

// WithBatchSize задаёт размер батча из outbox.
func WithBatchSize(batchSize int) Option {
	return func(w *Worker) { w.batchSize = batchSize }
}

// WithMaxAttempts задаёт число попыток публикации перед failed/DLQ.
func WithMaxAttempts(maxAttempts int) Option {
	return func(w *Worker) { w.maxAttempts = maxAttempts }
}

// WithRetryBaseDelay задаёт базовый delay для exponential backoff.
func WithRetryBaseDelay(delay time.Duration) Option {
	return func(w *Worker) { w.retryBaseDelay = delay }
}

// NewWorker создаёт outbox worker.
func NewWorker(repo domain.OutboxRepository, publisher domain.OutboxPublisher, options ...Option) *Worker {
	w := &Worker{
		repo:           repo,
		publisher:      publisher,
		pollInterval:   defaultPollInterval,
		batchSize:      defaultBatchSize,
		maxAttempts:    defaultMaxAttempts,
		retryBaseDelay: defaultRetryBaseDelay,
	}
	for _, option := range options {
		option(w)
	}
	w.normalize()
	return w
}

func (w *Worker) normalize() {
	if w.logger == nil {
		w.logger = log.WithField("component", "outbox-worker")
	}
	if w.pollInterval <= 0 {
		w.pollInterval = defaultPollInterval
	}
	if w.batchSize <= 0 {
		w.batchSize = defaultBatchSize
	}
	if w.maxAttempts <= 0 {
		w.maxAttempts = defaultMaxAttempts
	}
	if w.retryBaseDelay < 0 {
		w.retryBaseDelay = 0
	}
}

// Run запускает периодический polling outbox до отмены ctx.
func (w *Worker) Run(ctx context.Context) {
	if w.repo == nil || w.publisher == nil {
		w.logger.Warn("outbox worker is disabled: repo or publisher is nil")
		return
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.ProcessOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.ProcessOnce(ctx)
		}
	}
}

// ProcessOnce вытягивает один батч pending-сообщений и раздаёт его по одному.
func (w *Worker) ProcessOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	w.observeBacklog()

	batch, err := w.repo.PullPending(w.batchSize)
	if err != nil {
		w.logger.WithError(err).Warn("failed to pull pending outbox messages")
		return
	}

	for _, msg := range batch {
		if ctx.Err() != nil {
			return
		}
		w.handle(ctx, msg)
	}

	if len(batch) > 0 {
		w.observeBacklog()
	}
}

// handle доводит одно сообщение до терминального состояния: sent или failed+DLQ.
func (w *Worker) handle(ctx context.Context, msg domain.OutboxMessage) {
	fields := log.Fields{
		"outbox_id":      msg.ID,
		"aggregate_type": msg.AggregateType,
		"aggregate_id":   msg.AggregateID,
		"event_type":     msg.EventType,
	}

	if err := w.dispatch(ctx, msg); err != nil {
		w.logger.WithError(err).WithFields(fields).Error("outbox publish failed after retries")
		outboxDispatchTotal.WithLabelValues(msg.AggregateType, "failed").Inc()

		if dlqErr := w.deadLetter(msg, err); dlqErr != nil {
			w.logger.WithError(dlqErr).WithFields(fields).Warn("failed to publish to DLQ")
			outboxDispatchTotal.WithLabelValues(msg.AggregateType, "dlq_failed").Inc()
		}
		if markErr := w.repo.MarkFailed(msg.ID); markErr != nil {
			w.logger.WithError(markErr).WithFields(fields).Warn("failed to mark outbox as failed")
		}
		return
	}

	outboxDispatchTotal.WithLabelValues(msg.AggregateType, "sent").Inc()
	if err := w.repo.MarkSent(msg.ID); err != nil {
		w.logger.WithError(err).WithFields(fields).Warn("failed to mark outbox as sent")
	}
}

// dispatch публикует сообщение с exponential backoff между попытками.
func (w *Worker) dispatch(ctx context.Context, msg domain.OutboxMessage) error {
	var lastErr error

	for attempt := 1; ; attempt++ {
		lastErr = w.publisher.Publish(msg)
		if lastErr == nil {
			return nil
		}
		outboxDispatchTotal.WithLabelValues(msg.AggregateType, "retry_error").Inc()

		if attempt >= w.maxAttempts {
			return fmt.Errorf("publish failed after %d attempts: %w", w.maxAttempts, lastErr)
		}

		delay := w.backoff(attempt)
		if delay <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// backoff удваивает базовый delay на каждой попытке, упираясь в maxRetryDelay.
func (w *Worker) backoff(attempt int) time.Duration {
	if w.retryBaseDelay <= 0 {
		return 0
	}

	delay := w.retryBaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return delay
}

func (w *Worker) observeBacklog() {
	stats, err := w.repo.Stats()
	if err != nil {
		w.logger.WithError(err).Warn("failed to collect outbox backlog stats")
		return
	}

	outboxPendingRecords.Set(float64(stats.PendingCount))
	if stats.PendingCount == 0 || stats.OldestPendingAt.IsZero() {
		outboxOldestPendingAge.Set(0)
		return
	}

	age := time.Since(stats.OldestPendingAt).Seconds()
	if age < 0 {
		age = 0
	}
	outboxOldestPendingAge.Set(age)
}

// deadLetterEnvelope — то, что уезжает в DLQ вместо исходного payload:
// оригинал плюс причина и момент отказа.
type deadLetterEnvelope struct {
	OutboxID       string          `json:"outbox_id"`
	AggregateType  string          `json:"aggregate_type"`
	AggregateID    string          `json:"aggregate_id"`
	EventType      string          `json:"event_type"`
	Payload        json.RawMessage `json:"payload"`
	PublishError   string          `json:"publish_error"`
	DLQPublishedAt string          `json:"dlq_published_at"`
}

func (w *Worker) deadLetter(msg domain.OutboxMessage, publishErr error) error {
	if w.dlqPublisher == nil {
		return nil
	}

	payload, err := json.Marshal(deadLetterEnvelope{
		OutboxID:       msg.ID,
		AggregateType:  msg.AggregateType,
		AggregateID:    msg.AggregateID,
		EventType:      msg.EventType,
		Payload:        json.RawMessage(msg.Payload),
		PublishError:   publishErr.Error(),
		DLQPublishedAt: time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshal dlq payload: %w", err)
	}

	wrapped := msg
	wrapped.Payload = payload
	if err := w.dlqPublisher.Publish(wrapped); err != nil {
		return fmt.Errorf("publish to dlq: %w", err)
	}
	return nil
}
