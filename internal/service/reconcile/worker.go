package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/service/sale"
)

const defaultScanInterval = 1 * time.Minute

var (
	reconcileScans = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_sale_reconcile_scans_total",
		Help: "Total number of completed reconciliation scans.",
	})
	reconcileRecovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_sale_reconcile_recovered_total",
		Help: "Total number of sales recovered for completed orders.",
	})
	reconcileFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_sale_reconcile_failures_total",
		Help: "Total number of reconciliation attempts that failed.",
	})
)

// Worker закрывает окно неконсистентности после SaleCreationError:
// заказ уже durable-переведён в Completed, а продажа не записана.
// Воркер периодически находит такие заказы и дозаписывает продажи.
// Благодаря идемпотентности recorder повторный прогон безопасен.
type Worker struct {
	orders   domain.OrderRepository
	sales    domain.SaleRepository
	recorder *sale.Recorder
	logger   *log.Entry
	interval time.Duration
}

// Option настраивает Worker.
type Option func(*Worker)

// WithLogger задаёт logger для воркера.
func WithLogger(logger *log.Entry) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithInterval задаёт период сканирования.
func WithInterval(interval time.Duration) Option {
	return func(w *Worker) {
		if interval > 0 {
			w.interval = interval
		}
	}
}

// NewWorker создаёт reconciliation worker.
func NewWorker(orders domain.OrderRepository, sales domain.SaleRepository, recorder *sale.Recorder, options ...Option) *Worker {
	worker := &Worker{
		orders:   orders,
		sales:    sales,
		recorder: recorder,
		logger:   log.WithField("component", "sale-reconciler"),
		interval: defaultScanInterval,
	}
	for _, option := range options {
		option(worker)
	}
	return worker
}

// Run запускает периодическое сканирование до отмены ctx.
func (w *Worker) Run(ctx context.Context) {
	if w.orders == nil || w.sales == nil || w.recorder == nil {
		w.logger.Warn("sale reconciler is disabled: missing dependencies")
		return
	}

	ticker := time.NewTicker(w.interval)
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

// ProcessOnce выполняет один проход: для каждого Completed-заказа без
// продажи пытается записать её заново. Возвращает число восстановленных продаж.
func (w *Worker) ProcessOnce(ctx context.Context) int {
	if ctx.Err() != nil {
		return 0
	}

	orders, err := w.orders.List()
	if err != nil {
		w.logger.WithError(err).Warn("failed to list orders for reconciliation")
		return 0
	}

	recovered := 0
	for _, order := range orders {
		if ctx.Err() != nil {
			return recovered
		}
		if order.Status != domain.OrderStatusCompleted {
			continue
		}

		if _, err := w.sales.GetByOrder(order.ID); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrSaleNotFound) {
			w.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to check sale presence")
			continue
		}

		if _, err := w.recorder.RecordCompletion(order); err != nil {
			reconcileFailures.Inc()
			w.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to recover sale")
			continue
		}

		recovered++
		reconcileRecovered.Inc()
		w.logger.WithFields(log.Fields{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
		}).Info("recovered missing sale for completed order")
	}

	reconcileScans.Inc()
	return recovered
}
