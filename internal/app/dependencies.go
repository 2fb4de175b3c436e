package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/storage/memory"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/storage/postgres"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/storage/rediscache"
)

// Dependencies содержит хранилища и внешние клиенты приложения.
type Dependencies struct {
	Orders   domain.OrderRepository
	Sales    domain.SaleRepository
	Products domain.ProductRepository
	Users    domain.UserRepository
	Outbox   domain.OutboxRepository
	Timeline domain.TimelineRepository

	Store  *postgres.Store
	Redis  *redis.Client
	Logger *log.Entry
}

// NewDependencies собирает слой хранения. Пустой PostgresDSN включает
// in-memory реализацию для локальной разработки, при заданном RedisAddr
// репозиторий заказов оборачивается кэшем.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{Logger: logger}

	if cfg.PostgresDSN == "" {
		logger.Info("postgres dsn is empty, using in-memory storage")
		deps.Orders = memory.NewOrderRepository()
		deps.Sales = memory.NewSaleRepository()
		deps.Products = memory.NewProductRepository()
		deps.Users = memory.NewUserRepository()
		deps.Outbox = memory.NewOutboxRepository()
		deps.Timeline = memory.NewTimelineRepository()
	} else {
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		logger.Info("postgres storage initialized")

		deps.Store = store
		deps.Orders = postgres.NewOrderRepository(store)
		deps.Sales = postgres.NewSaleRepository(store)
		deps.Products = postgres.NewProductRepository(store)
		deps.Users = postgres.NewUserRepository(store)
		deps.Outbox = postgres.NewOutboxRepository(store)
		deps.Timeline = postgres.NewTimelineRepository(store)
	}

	if cfg.RedisAddr != "" {
		client, err := rediscache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.WithError(err).Warn("redis is unavailable, continuing without order cache")
		} else {
			deps.Redis = client
			deps.Orders = rediscache.NewOrderCache(
				deps.Orders,
				client,
				rediscache.WithTTL(cfg.OrderCacheTTL),
			)
			logger.WithField("addr", cfg.RedisAddr).Info("order cache initialized")
		}
	}

	return deps, nil
}

// Close освобождает внешние подключения.
func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close redis client")
		}
	}
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close postgres store")
		}
	}
}
