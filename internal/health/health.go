// Package health отдаёт health/liveness/readiness пробы в общем формате ответа.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/contract/contract/envelope"
)

// checkTimeout ограничивает одну проверку компонента.
const checkTimeout = 2 * time.Second

// Status — состояние компонента или сервиса целиком.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// Check — результат проверки одного компонента.
type Check struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

// Report — сводный отчёт о здоровье сервиса; передаётся в поле data ответа.
type Report struct {
	Status        Status           `json:"status"`
	Checks        map[string]Check `json:"checks,omitempty"`
	Version       string           `json:"version,omitempty"`
	UptimeSeconds int64            `json:"uptimeSeconds"`
}

// Failing возвращает отсортированные имена компонентов в статусе unhealthy.
func (r Report) Failing() []string {
	var names []string
	for name, check := range r.Checks {
		if check.Status == StatusUnhealthy {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Checker проверяет один компонент.
type Checker interface {
	Check(ctx context.Context) Check
}

// Handler собирает проверки компонентов и отдаёт их по HTTP.
type Handler struct {
	mu        sync.RWMutex
	checkers  map[string]Checker
	version   string
	startedAt time.Time
}

// NewHandler создаёт handler без зарегистрированных проверок.
func NewHandler(version string) *Handler {
	return &Handler{
		checkers:  make(map[string]Checker),
		version:   version,
		startedAt: time.Now(),
	}
}

// RegisterChecker добавляет или заменяет проверку с именем name.
func (h *Handler) RegisterChecker(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// Report запускает все проверки параллельно, каждую со своим таймаутом.
// Сервис unhealthy, если unhealthy хотя бы один компонент, и degraded,
// если есть деградировавшие.
func (h *Handler) Report(ctx context.Context) Report {
	checkers := h.snapshot()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		checks = make(map[string]Check, len(checkers))
	)
	for name, checker := range checkers {
		wg.Add(1)
		go func(name string, checker Checker) {
			defer wg.Done()
			checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
			defer cancel()
			check := checker.Check(checkCtx)

			mu.Lock()
			checks[name] = check
			mu.Unlock()
		}(name, checker)
	}
	wg.Wait()

	overall := StatusHealthy
	for _, check := range checks {
		switch {
		case check.Status == StatusUnhealthy:
			overall = StatusUnhealthy
		case check.Status == StatusDegraded && overall == StatusHealthy:
			overall = StatusDegraded
		}
	}

	return Report{
		Status:        overall,
		Checks:        checks,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
	}
}

// ServeHTTP отдаёт отчёт: 200 с success=true, либо 503 с success=false.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	report := h.Report(r.Context())

	if report.Status == StatusUnhealthy {
		writeJSON(w, http.StatusServiceUnavailable,
			envelope.Error("Service is unhealthy", report).WithPath(r.URL.Path))
		return
	}
	writeJSON(w, http.StatusOK, envelope.Success(report, "Service is "+string(report.Status)).WithPath(r.URL.Path))
}

// LivenessHandler всегда отвечает 200: процесс жив, пока отвечает.
func LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope.SuccessMessage("alive").WithPath(r.URL.Path))
}

// ReadinessHandler отвечает 503, пока хотя бы один компонент unhealthy.
// Деградация готовность не снимает.
func (h *Handler) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	report := h.Report(r.Context())
	if failing := report.Failing(); len(failing) > 0 {
		writeJSON(w, http.StatusServiceUnavailable,
			envelope.Error[any]("Service is not ready: "+strings.Join(failing, ", ")).WithPath(r.URL.Path))
		return
	}

	writeJSON(w, http.StatusOK, envelope.SuccessMessage("ready").WithPath(r.URL.Path))
}

func (h *Handler) snapshot() map[string]Checker {
	h.mu.RLock()
	defer h.mu.RUnlock()

	checkers := make(map[string]Checker, len(h.checkers))
	for k, v := range h.checkers {
		checkers[k] = v
	}
	return checkers
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// SimpleChecker превращает функцию проверки в Checker: ошибка означает unhealthy.
type SimpleChecker struct {
	name    string
	checkFn func(ctx context.Context) error
}

func NewSimpleChecker(name string, checkFn func(ctx context.Context) error) *SimpleChecker {
	return &SimpleChecker{name: name, checkFn: checkFn}
}

// Check вызывает функцию проверки и замеряет её длительность.
func (c *SimpleChecker) Check(ctx context.Context) Check {
	started := time.Now()
	err := c.checkFn(ctx)

	check := Check{
		Name:       c.name,
		Status:     StatusHealthy,
		DurationMs: time.Since(started).Milliseconds(),
	}
	if err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
	}
	return check
}
