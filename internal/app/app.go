package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/gateway/stripe"
	healthcheck "github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/health"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/messaging/kafka"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/metrics"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/service/checkout"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/service/order"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/service/ordernum"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/service/outbox"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/service/reconcile"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/service/sale"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/transport/httpapi"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/version"
)

func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	orderMetrics := metrics.NewOrderMetrics()
	generator := ordernum.NewGenerator(
		deps.Orders,
		orderMetrics,
		ordernum.WithLogger(logger.WithField("component", "ordernum")),
	)
	recorder := sale.NewRecorder(deps.Sales, orderMetrics, logger.WithField("component", "sale-recorder"))
	orderService := order.NewService(
		deps.Orders,
		deps.Products,
		deps.Users,
		generator,
		recorder,
		deps.Outbox,
		deps.Timeline,
		orderMetrics,
		logger.WithField("component", "order-service"),
	)

	gateway := buildCheckoutGateway(cfg, logger)

	handler := httpapi.NewHandler(orderService, gateway, orderMetrics, logger.WithField("component", "http"))
	router := httpapi.NewRouter(handler)

	// Kafka producer опционален: без brokers outbox копится в хранилище,
	// reconcile-воркер продолжает работать в любом случае.
	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)
	if kafkaProducer != nil {
		publisher := kafka.NewOutboxPublisher(kafkaProducer, kafka.TopicOrderEvents)
		outboxWorker := outbox.NewWorker(
			deps.Outbox,
			publisher,
			outbox.WithLogger(logger.WithField("component", "outbox-worker")),
			outbox.WithPollInterval(cfg.OutboxPollInterval),
			outbox.WithDLQPublisher(kafka.NewDLQPublisher(kafkaProducer)),
		)
		go outboxWorker.Run(ctx)
	}

	reconcileWorker := reconcile.NewWorker(
		deps.Orders,
		deps.Sales,
		recorder,
		reconcile.WithLogger(logger.WithField("component", "reconcile-worker")),
		reconcile.WithInterval(cfg.ReconcileInterval),
	)
	go reconcileWorker.Run(ctx)

	healthHandler := healthcheck.NewHandler(version.String())
	if deps.Store != nil {
		store := deps.Store
		healthHandler.Register("postgres", store.Ping)
	}
	if deps.Redis != nil {
		redisClient := deps.Redis
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP сервер слушает %s", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(srv, logger)
		shutdownHTTP(metricsSrv, logger)
		closeKafka(kafkaProducer, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		closeKafka(kafkaProducer, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// buildCheckoutGateway выбирает платёжный шлюз по конфигурации.
// Без API-ключа используется mock-шлюз для локальной разработки и демо.
func buildCheckoutGateway(cfg Config, logger *log.Entry) domain.CheckoutGateway {
	if cfg.StripeAPIKey == "" {
		logger.Warn("stripe api key is empty, using mock checkout gateway")
		return checkout.NewMockGateway()
	}

	options := make([]stripe.Option, 0, 2)
	if cfg.CheckoutCurrency != "" {
		options = append(options, stripe.WithCurrency(cfg.CheckoutCurrency))
	}
	if cfg.CheckoutSuccessURL != "" || cfg.CheckoutCancelURL != "" {
		options = append(options, stripe.WithRedirectURLs(cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL))
	}
	return stripe.NewGateway(cfg.StripeAPIKey, logger.WithField("component", "stripe"), options...)
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/readyz, %s/livez", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
