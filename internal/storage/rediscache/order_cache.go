package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
)

const (
	defaultTTL       = 5 * time.Minute
	defaultOpTimeout = 500 * time.Millisecond
)

// OrderCache — cache-aside декоратор над OrderRepository.
// Кэшируется только Get: запись при промахе, инвалидация при Save/Delete.
// Ошибки Redis не фатальны — чтение всегда может уйти в основное хранилище.
type OrderCache struct {
	inner  domain.OrderRepository
	client *redis.Client
	logger *log.Entry
	ttl    time.Duration
}

// Option настраивает OrderCache.
type Option func(*OrderCache)

// WithTTL задаёт время жизни закэшированного заказа.
func WithTTL(ttl time.Duration) Option {
	return func(c *OrderCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger задаёт логгер кэша.
func WithLogger(logger *log.Logger) Option {
	return func(c *OrderCache) {
		if logger != nil {
			c.logger = logger.WithField("component", "order_cache")
		}
	}
}

// NewOrderCache оборачивает репозиторий заказов кэшем поверх Redis.
func NewOrderCache(inner domain.OrderRepository, client *redis.Client, options ...Option) *OrderCache {
	cache := &OrderCache{
		inner:  inner,
		client: client,
		logger: log.StandardLogger().WithField("component", "order_cache"),
		ttl:    defaultTTL,
	}
	for _, option := range options {
		option(cache)
	}
	return cache
}

// NewClient создаёт Redis-клиент и проверяет соединение.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

func (c *OrderCache) Create(order domain.Order) error {
	return c.inner.Create(order)
}

func (c *OrderCache) Get(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultOpTimeout)
	defer cancel()

	key := orderKey(id)
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var order domain.Order
		if unmarshalErr := json.Unmarshal(payload, &order); unmarshalErr == nil {
			return order, nil
		}
		// Битую запись выбрасываем и идём в хранилище.
		c.logger.WithField("key", key).Warn("dropping corrupted cache entry")
		_ = c.client.Del(ctx, key).Err()
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WithError(err).Warn("order cache read failed, falling back to store")
	}

	order, err := c.inner.Get(id)
	if err != nil {
		return domain.Order{}, err
	}

	c.store(ctx, order)
	return order, nil
}

func (c *OrderCache) List() ([]domain.Order, error) {
	return c.inner.List()
}

func (c *OrderCache) Count() (int64, error) {
	return c.inner.Count()
}

func (c *OrderCache) ExistsByNumber(orderNumber string) (bool, error) {
	return c.inner.ExistsByNumber(orderNumber)
}

// Save пишет в хранилище и удаляет закэшированную копию.
// Удаление вместо обновления исключает гонку конкурентных записей.
func (c *OrderCache) Save(order domain.Order) error {
	if err := c.inner.Save(order); err != nil {
		return err
	}
	c.invalidate(order.ID)
	return nil
}

func (c *OrderCache) Delete(id string) error {
	if err := c.inner.Delete(id); err != nil {
		return err
	}
	c.invalidate(id)
	return nil
}

func (c *OrderCache) store(ctx context.Context, order domain.Order) {
	payload, err := json.Marshal(order)
	if err != nil {
		c.logger.WithError(err).Warn("order cache encode failed")
		return
	}
	if err := c.client.Set(ctx, orderKey(order.ID), payload, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("order cache write failed")
	}
}

func (c *OrderCache) invalidate(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultOpTimeout)
	defer cancel()

	if err := c.client.Del(ctx, orderKey(id)).Err(); err != nil {
		c.logger.WithError(err).Warn("order cache invalidation failed")
	}
}

func orderKey(id string) string {
	return fmt.Sprintf("storefront:order:%s", id)
}

var _ domain.OrderRepository = (*OrderCache)(nil)
