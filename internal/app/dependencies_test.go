package app

import (
	"context"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestNewDependencies_InMemory(t *testing.T) {
	logger := log.WithField("test", "dependencies")

	deps, err := NewDependencies(context.Background(), DefaultConfig(), logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer deps.Close()

	if deps.Orders == nil {
		t.Error("Orders should not be nil")
	}
	if deps.Sales == nil {
		t.Error("Sales should not be nil")
	}
	if deps.Products == nil {
		t.Error("Products should not be nil")
	}
	if deps.Users == nil {
		t.Error("Users should not be nil")
	}
	if deps.Outbox == nil {
		t.Error("Outbox should not be nil")
	}
	if deps.Timeline == nil {
		t.Error("Timeline should not be nil")
	}
	if deps.Store != nil {
		t.Error("Store should be nil for in-memory storage")
	}
	if deps.Redis != nil {
		t.Error("Redis should be nil when RedisAddr is empty")
	}
	if deps.Logger == nil {
		t.Error("Logger should not be nil")
	}
}

func TestNewDependencies_WithNilLogger(t *testing.T) {
	deps, err := NewDependencies(context.Background(), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer deps.Close()

	if deps.Logger == nil {
		t.Error("Logger should be initialized even when nil is passed")
	}
}

func TestNewDependencies_RedisUnavailableIsNotFatal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RedisAddr = "localhost:1"

	deps, err := NewDependencies(context.Background(), cfg, log.WithField("test", "dependencies"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer deps.Close()

	if deps.Redis != nil {
		t.Error("Redis client should be nil when the server is unreachable")
	}
	if deps.Orders == nil {
		t.Error("Orders should fall back to the inner repository")
	}
}

func TestDependencies_CloseIsNilSafe(t *testing.T) {
	deps := &Dependencies{Logger: log.WithField("test", "dependencies")}

	// Не должно паниковать без внешних подключений.
	deps.Close()
}
