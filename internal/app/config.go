package app

import (
	"os"
	"strconv"
	"time"
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	// PostgresDSN пустой — используется in-memory хранилище.
	PostgresDSN string

	// RedisAddr пустой — кэш заказов выключен.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	OrderCacheTTL time.Duration

	// KafkaBrokers пустой — события не публикуются, outbox копится.
	KafkaBrokers string

	// StripeAPIKey пустой — используется mock-шлюз checkout.
	StripeAPIKey       string
	CheckoutCurrency   string
	CheckoutSuccessURL string
	CheckoutCancelURL  string

	OutboxPollInterval time.Duration
	ReconcileInterval  time.Duration
}

// DefaultConfig возвращает базовые настройки для локального запуска.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:           ":8080",
		MetricsAddr:        ":9090",
		OrderCacheTTL:      5 * time.Minute,
		OutboxPollInterval: time.Second,
		ReconcileInterval:  time.Minute,
	}
}

// ConfigFromEnv собирает конфигурацию из переменных окружения
// поверх значений по умолчанию.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("STOREFRONT_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("STOREFRONT_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("STOREFRONT_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("STOREFRONT_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("STOREFRONT_REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("STOREFRONT_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = db
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = v
	}
	if v := os.Getenv("STRIPE_API_KEY"); v != "" {
		cfg.StripeAPIKey = v
	}
	if v := os.Getenv("STOREFRONT_CHECKOUT_CURRENCY"); v != "" {
		cfg.CheckoutCurrency = v
	}
	if v := os.Getenv("STOREFRONT_CHECKOUT_SUCCESS_URL"); v != "" {
		cfg.CheckoutSuccessURL = v
	}
	if v := os.Getenv("STOREFRONT_CHECKOUT_CANCEL_URL"); v != "" {
		cfg.CheckoutCancelURL = v
	}
	if v := os.Getenv("STOREFRONT_OUTBOX_POLL_INTERVAL"); v != "" {
		if interval, err := time.ParseDuration(v); err == nil && interval > 0 {
			cfg.OutboxPollInterval = interval
		}
	}
	if v := os.Getenv("STOREFRONT_RECONCILE_INTERVAL"); v != "" {
		if interval, err := time.ParseDuration(v); err == nil && interval > 0 {
			cfg.ReconcileInterval = interval
		}
	}
	if v := os.Getenv("STOREFRONT_ORDER_CACHE_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil && ttl > 0 {
			cfg.OrderCacheTTL = ttl
		}
	}

	return cfg
}
