package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHandler_Healthy(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.Register("postgres", func(context.Context) error { return nil })
	handler.Register("redis", func(context.Context) error { return nil })

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var response Response
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != StatusHealthy {
		t.Errorf("expected status healthy, got %s", response.Status)
	}
	if response.Version != "v1.0.0" {
		t.Errorf("expected version v1.0.0, got %s", response.Version)
	}
	if len(response.Checks) != 2 {
		t.Errorf("expected 2 checks, got %d", len(response.Checks))
	}
	if check := response.Checks["postgres"]; check.Status != StatusHealthy || check.Error != "" {
		t.Errorf("unexpected postgres check: %+v", check)
	}
}

func TestHandler_UnhealthyDependency(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.Register("postgres", func(context.Context) error { return nil })
	handler.Register("redis", func(context.Context) error {
		return errors.New("connection refused")
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}

	var response Response
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != StatusUnhealthy {
		t.Errorf("expected status unhealthy, got %s", response.Status)
	}
	if check := response.Checks["redis"]; check.Error != "connection refused" {
		t.Errorf("expected failing redis check, got %+v", check)
	}
	if check := response.Checks["postgres"]; check.Status != StatusHealthy {
		t.Errorf("healthy check must stay healthy, got %+v", check)
	}
}

func TestHandler_ProbeGetsDeadline(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.Register("postgres", func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			return errors.New("no deadline")
		}
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("probe must run with a deadline, got status %d", w.Code)
	}
}

func TestLivenessHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	w := httptest.NewRecorder()

	LivenessHandler(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Errorf("expected body 'ok', got %s", w.Body.String())
	}
}

func TestReadinessHandler(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.Register("postgres", func(context.Context) error { return nil })

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	w := httptest.NewRecorder()
	handler.ReadinessHandler(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "ready" {
		t.Errorf("expected body 'ready', got %s", w.Body.String())
	}
}

func TestReadinessHandler_NotReady(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.Register("postgres", func(context.Context) error { return nil })
	handler.Register("redis", func(context.Context) error {
		return errors.New("dial timeout")
	})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	w := httptest.NewRecorder()
	handler.ReadinessHandler(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
	if w.Body.String() != "not ready" {
		t.Errorf("expected body 'not ready', got %s", w.Body.String())
	}
}

func TestHandler_CheckLatencyMeasured(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.Register("postgres", func(context.Context) error {
		time.Sleep(10 * time.Millisecond)
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var response Response
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if check := response.Checks["postgres"]; check.LatencyMs < 10 {
		t.Errorf("expected latency >= 10ms, got %d", check.LatencyMs)
	}
}
