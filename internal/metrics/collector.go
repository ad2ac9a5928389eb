// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector holds the service's prometheus instruments.
type Collector struct {
	// HTTP surface
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// Browser runs
	agentRunsTotal   *prometheus.CounterVec
	agentRunDuration *prometheus.HistogramVec
	promptTokens     *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector registers the instruments under the given namespace on
// the default registry.
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	c.httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	c.httpResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_response_size_bytes",
			Help:      "HTTP response size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	c.agentRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_runs_total",
			Help:      "Total number of browser runtime runs",
		},
		[]string{"route", "status"},
	)

	c.agentRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "agent_run_duration_seconds",
			Help:      "Browser runtime run duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"route"},
	)

	c.promptTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prompt_tokens_total",
			Help:      "Estimated prompt tokens sent to the runtime",
		},
		[]string{"route"},
	)

	c.logger.Info("metrics collector initialized", zap.String("namespace", namespace))
	return c
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration, responseSize int64) {
	statusStr := statusLabel(status)
	c.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	if responseSize > 0 {
		c.httpResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordAgentRun records one browser runtime run outcome.
func (c *Collector) RecordAgentRun(route, status string, duration time.Duration) {
	c.agentRunsTotal.WithLabelValues(route, status).Inc()
	c.agentRunDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordPromptTokens adds the estimated token count of a dispatched
// prompt.
func (c *Collector) RecordPromptTokens(route string, tokens int) {
	if tokens <= 0 {
		return
	}
	c.promptTokens.WithLabelValues(route).Add(float64(tokens))
}

func statusLabel(status int) string {
	switch {
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
