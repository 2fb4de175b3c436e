package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status — состояние зависимости или сервиса в целом.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

const defaultProbeTimeout = 2 * time.Second

// CheckFunc проверяет одну зависимость (ping postgres, ping redis).
// Таймаут приходит через ctx, функция обязана его уважать.
type CheckFunc func(ctx context.Context) error

// Check — результат одной проверки в JSON-ответе.
type Check struct {
	Status    Status `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
}

// Response — ответ /healthz.
type Response struct {
	Status        Status           `json:"status"`
	Timestamp     time.Time        `json:"timestamp"`
	Checks        map[string]Check `json:"checks,omitempty"`
	Version       string           `json:"version,omitempty"`
	UptimeSeconds int64            `json:"uptime_seconds"`
}

type probe struct {
	name string
	fn   CheckFunc
}

// Handler отдаёт /healthz и /readyz по зарегистрированным проверкам.
// Все проверки гейтят readiness: сервис без работающего хранилища
// не должен принимать трафик.
type Handler struct {
	mu        sync.RWMutex
	probes    []probe
	version   string
	timeout   time.Duration
	startedAt time.Time
}

// NewHandler создаёт handler с таймаутом проверки по умолчанию.
func NewHandler(version string) *Handler {
	return &Handler{
		version:   version,
		timeout:   defaultProbeTimeout,
		startedAt: time.Now(),
	}
}

// Register добавляет проверку зависимости. Порядок регистрации
// определяет порядок выполнения.
func (h *Handler) Register(name string, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.probes = append(h.probes, probe{name: name, fn: fn})
}

func (h *Handler) snapshot() []probe {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]probe(nil), h.probes...)
}

func (h *Handler) runProbe(parent context.Context, p probe) Check {
	ctx, cancel := context.WithTimeout(parent, h.timeout)
	defer cancel()

	start := time.Now()
	err := p.fn(ctx)
	check := Check{
		Status:    StatusHealthy,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		check.Status = StatusUnhealthy
		check.Error = err.Error()
	}
	return check
}

// ServeHTTP — /healthz: выполняет все проверки и отдаёт развёрнутый отчёт.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]Check)
	overall := StatusHealthy
	for _, p := range h.snapshot() {
		check := h.runProbe(r.Context(), p)
		checks[p.name] = check
		if check.Status == StatusUnhealthy {
			overall = StatusUnhealthy
		}
	}

	statusCode := http.StatusOK
	if overall == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(Response{
		Status:        overall,
		Timestamp:     time.Now(),
		Checks:        checks,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
	})
}

// ReadinessHandler — /readyz: 200 только когда все зависимости живы.
func (h *Handler) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	for _, p := range h.snapshot() {
		if check := h.runProbe(r.Context(), p); check.Status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// LivenessHandler — /livez: процесс жив, зависимости не проверяются.
func LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
