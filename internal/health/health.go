package health

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status — итоговое состояние компонента или сервиса целиком.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// Probe — результат одной проверки зависимости.
type Probe struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Report — полный ответ health-эндпоинта.
type Report struct {
	Status        Status           `json:"status"`
	Timestamp     time.Time        `json:"timestamp"`
	Probes        map[string]Probe `json:"probes,omitempty"`
	Version       string           `json:"version,omitempty"`
	UptimeSeconds int64            `json:"uptime_seconds"`
}

// Checker проверяет одну зависимость сервиса.
type Checker interface {
	Check() Probe
}

// Handler агрегирует зарегистрированные проверки зависимостей
// и отдаёт их состояние по HTTP.
type Handler struct {
	mu        sync.RWMutex
	checkers  map[string]Checker
	version   string
	startTime time.Time
}

// NewHandler создаёт health handler с версией сборки.
func NewHandler(version string) *Handler {
	return &Handler{
		checkers:  make(map[string]Checker),
		version:   version,
		startTime: time.Now(),
	}
}

// Register добавляет проверку зависимости под именем name.
func (h *Handler) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// ServeHTTP выполняет все проверки и возвращает сводный отчёт.
// Любая unhealthy-зависимость даёт 503, degraded не меняет код ответа.
func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	probes := make(map[string]Probe)
	overall := StatusHealthy

	for name, checker := range h.snapshot() {
		probe := checker.Check()
		probes[name] = probe

		if probe.Status == StatusUnhealthy {
			overall = StatusUnhealthy
		} else if probe.Status == StatusDegraded && overall == StatusHealthy {
			overall = StatusDegraded
		}
	}

	report := Report{
		Status:        overall,
		Timestamp:     time.Now(),
		Probes:        probes,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}

	statusCode := http.StatusOK
	if overall == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(report)
}

// LivenessHandler отвечает 200, пока процесс жив.
func LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// ReadinessHandler отвечает 503, если хотя бы одна зависимость unhealthy.
func (h *Handler) ReadinessHandler(w http.ResponseWriter, _ *http.Request) {
	for _, checker := range h.snapshot() {
		if checker.Check().Status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (h *Handler) snapshot() map[string]Checker {
	h.mu.RLock()
	defer h.mu.RUnlock()

	checkers := make(map[string]Checker, len(h.checkers))
	for name, checker := range h.checkers {
		checkers[name] = checker
	}
	return checkers
}

// PingChecker оборачивает функцию проверки зависимости (ping базы,
// доступность брокера) в Checker.
type PingChecker struct {
	name   string
	pingFn func() error
}

// NewPingChecker создаёт проверку на основе функции.
func NewPingChecker(name string, pingFn func() error) *PingChecker {
	return &PingChecker{name: name, pingFn: pingFn}
}

// Check выполняет проверку и замеряет её длительность.
func (c *PingChecker) Check() Probe {
	start := time.Now()
	err := c.pingFn()
	duration := time.Since(start)

	if err != nil {
		return Probe{
			Name:       c.name,
			Status:     StatusUnhealthy,
			Message:    err.Error(),
			DurationMs: duration.Milliseconds(),
		}
	}

	return Probe{
		Name:       c.name,
		Status:     StatusHealthy,
		DurationMs: duration.Milliseconds(),
	}
}

var _ Checker = (*PingChecker)(nil)
