package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ServiceName is reported by the liveness endpoint.
const ServiceName = "browser-agent"

// healthBody is the fixed liveness payload.
type healthBody struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// HealthCheck is a named readiness probe.
type HealthCheck interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthCheckFunc adapts a function to HealthCheck.
type HealthCheckFunc struct {
	CheckName string
	Fn        func(ctx context.Context) error
}

func (f HealthCheckFunc) Name() string                    { return f.CheckName }
func (f HealthCheckFunc) Check(ctx context.Context) error { return f.Fn(ctx) }

// CheckResult reports one readiness probe outcome.
type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// ReadyStatus is the readiness response body.
type ReadyStatus struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// HealthHandler serves the liveness, readiness and version endpoints.
type HealthHandler struct {
	logger  *zap.Logger
	version string
	mu      sync.RWMutex
	checks  []HealthCheck
}

// NewHealthHandler builds a handler with no registered checks.
func NewHealthHandler(version string, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{logger: logger, version: version}
}

// RegisterCheck adds a readiness probe.
func (h *HealthHandler) RegisterCheck(check HealthCheck) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks = append(h.checks, check)
}

// HandleHealth answers the liveness probe. The body is fixed; it never
// reflects dependency state.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, healthBody{Status: "ok", Service: ServiceName})
}

// HandleReady runs the registered probes and answers 503 when any
// fails.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	h.mu.RLock()
	checks := make([]HealthCheck, len(h.checks))
	copy(checks, h.checks)
	h.mu.RUnlock()

	status := ReadyStatus{
		Status: "ready",
		Checks: make(map[string]CheckResult, len(checks)),
	}

	ready := true
	for _, check := range checks {
		start := time.Now()
		err := check.Check(ctx)
		latency := time.Since(start)

		result := CheckResult{Status: "pass", Latency: latency.String()}
		if err != nil {
			result.Status = "fail"
			result.Message = err.Error()
			ready = false

			h.logger.Warn("readiness check failed",
				zap.String("check", check.Name()),
				zap.Error(err),
				zap.Duration("latency", latency),
			)
		}
		status.Checks[check.Name()] = result
	}

	if !ready {
		status.Status = "not ready"
		WriteJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	WriteJSON(w, http.StatusOK, status)
}

// HandleVersion reports the build version.
func (h *HealthHandler) HandleVersion(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"service": ServiceName,
		"version": h.version,
	})
}
