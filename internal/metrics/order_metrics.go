package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики жизненного цикла заказов.
type OrderMetrics struct {
	// Счётчики операций
	ordersCreated   prometheus.Counter
	ordersCompleted prometheus.Counter
	ordersDeleted   prometheus.Counter
	salesRecorded   prometheus.Counter
	saleFailures    prometheus.Counter

	// Метрики генератора номеров
	numberAttempts   prometheus.Histogram
	numberCollisions prometheus.Counter

	// Метрики checkout-сессий
	checkoutSessions *prometheus.CounterVec

	// HTTP-слой
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewOrderMetrics создаёт новый экземпляр метрик заказов.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewOrderMetricsWithRegisterer создаёт метрики в изолированном registry (для тестов).
func NewOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	return newOrderMetricsWithRegisterer(registerer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_orders_created_total",
			Help: "Total number of orders created",
		}),
		ordersCompleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_orders_completed_total",
			Help: "Total number of orders transitioned to Completed",
		}),
		ordersDeleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_orders_deleted_total",
			Help: "Total number of orders deleted",
		}),
		salesRecorded: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_sales_recorded_total",
			Help: "Total number of sale records created from completed orders",
		}),
		saleFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_sale_failures_total",
			Help: "Total number of failed sale record writes after order completion",
		}),
		numberAttempts: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "storefront_order_number_attempts",
			Help:    "Attempts needed to generate a unique order number",
			Buckets: []float64{1, 2, 3, 5, 10, 25, 50},
		}),
		numberCollisions: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_order_number_collisions_total",
			Help: "Total number of order number candidates rejected as already taken",
		}),
		checkoutSessions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_checkout_sessions_total",
			Help: "Total number of checkout session requests grouped by result",
		}, []string{"result"}),
		httpRequests: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests grouped by route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "route"}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *OrderMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordOrderCompleted увеличивает счётчик завершённых заказов.
func (m *OrderMetrics) RecordOrderCompleted() {
	m.ordersCompleted.Inc()
}

// RecordOrderDeleted увеличивает счётчик удалённых заказов.
func (m *OrderMetrics) RecordOrderDeleted() {
	m.ordersDeleted.Inc()
}

// RecordSaleRecorded увеличивает счётчик созданных продаж.
func (m *OrderMetrics) RecordSaleRecorded() {
	m.salesRecorded.Inc()
}

// RecordSaleFailure увеличивает счётчик неудачных записей продаж.
func (m *OrderMetrics) RecordSaleFailure() {
	m.saleFailures.Inc()
}

// RecordNumberAttempts записывает число попыток подбора номера.
func (m *OrderMetrics) RecordNumberAttempts(attempts int) {
	m.numberAttempts.Observe(float64(attempts))
}

// RecordNumberCollision увеличивает счётчик коллизий номера.
func (m *OrderMetrics) RecordNumberCollision() {
	m.numberCollisions.Inc()
}

// RecordCheckoutSession фиксирует результат запроса checkout-сессии.
func (m *OrderMetrics) RecordCheckoutSession(result string) {
	m.checkoutSessions.WithLabelValues(result).Inc()
}

// RecordHTTPRequest фиксирует обработанный HTTP-запрос.
func (m *OrderMetrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
