package rediscache

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/storage/memory"
)

func openRedisClientForIntegrationTest(t *testing.T) *redis.Client {
	t.Helper()

	addr := strings.TrimSpace(os.Getenv("STOREFRONT_REDIS_TEST_ADDR"))
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := NewClient(ctx, addr, "", 0)
	if err != nil {
		t.Skipf("redis is not available for integration tests: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

func TestOrderCache_RedisReadThroughAndInvalidation(t *testing.T) {
	client := openRedisClientForIntegrationTest(t)
	inner := memory.NewOrderRepository()
	cache := NewOrderCache(inner, client, WithTTL(time.Minute))

	now := time.Now().UTC().Round(time.Millisecond)
	order := domain.Order{
		ID:          "order-cache-1",
		OrderNumber: "DS-40001",
		UserID:      "user-1",
		Items: []domain.OrderItem{
			{ID: "item-1", ProductID: "product-1", Qty: 1, Price: 499.99, CreatedAt: now},
		},
		TotalPrice: 499.99,
		Status:     domain.OrderStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	t.Cleanup(func() {
		_ = client.Del(context.Background(), orderKey(order.ID)).Err()
	})

	if err := cache.Create(order); err != nil {
		t.Fatalf("create order: %v", err)
	}

	// Первый Get наполняет кэш, второй отвечает из него.
	first, err := cache.Get(order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if first.OrderNumber != order.OrderNumber {
		t.Fatalf("unexpected order number: %s", first.OrderNumber)
	}

	if err := client.Get(context.Background(), orderKey(order.ID)).Err(); err != nil {
		t.Fatalf("expected cached entry after read: %v", err)
	}

	second, err := cache.Get(order.ID)
	if err != nil {
		t.Fatalf("get cached order: %v", err)
	}
	if second.ID != order.ID || second.TotalPrice != order.TotalPrice {
		t.Fatalf("unexpected cached payload: %+v", second)
	}

	// Save инвалидирует запись, следующее чтение видит свежий статус.
	first.Status = domain.OrderStatusCompleted
	if err := cache.Save(first); err != nil {
		t.Fatalf("save order: %v", err)
	}
	if err := client.Get(context.Background(), orderKey(order.ID)).Err(); !errors.Is(err, redis.Nil) {
		t.Fatalf("expected cache invalidation after save, got %v", err)
	}

	updated, err := cache.Get(order.ID)
	if err != nil {
		t.Fatalf("get updated order: %v", err)
	}
	if updated.Status != domain.OrderStatusCompleted {
		t.Fatalf("unexpected status after save: %s", updated.Status)
	}

	if err := cache.Delete(order.ID); err != nil {
		t.Fatalf("delete order: %v", err)
	}
	if err := client.Get(context.Background(), orderKey(order.ID)).Err(); !errors.Is(err, redis.Nil) {
		t.Fatalf("expected cache invalidation after delete, got %v", err)
	}
	if _, err := cache.Get(order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound after delete, got %v", err)
	}
}

func TestOrderCache_RedisCorruptedEntryFallsBack(t *testing.T) {
	client := openRedisClientForIntegrationTest(t)
	inner := memory.NewOrderRepository()
	cache := NewOrderCache(inner, client)

	now := time.Now().UTC()
	order := domain.Order{
		ID:          "order-cache-corrupt",
		OrderNumber: "DS-40002",
		UserID:      "user-1",
		Items: []domain.OrderItem{
			{ID: "item-1", ProductID: "product-1", Qty: 1, Price: 10, CreatedAt: now},
		},
		Status:    domain.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.Cleanup(func() {
		_ = client.Del(context.Background(), orderKey(order.ID)).Err()
	})

	if err := inner.Create(order); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if err := client.Set(context.Background(), orderKey(order.ID), "{not-json", time.Minute).Err(); err != nil {
		t.Fatalf("seed corrupted entry: %v", err)
	}

	got, err := cache.Get(order.ID)
	if err != nil {
		t.Fatalf("get with corrupted cache: %v", err)
	}
	if got.OrderNumber != order.OrderNumber {
		t.Fatalf("unexpected order from fallback: %+v", got)
	}
}
