package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics stores Prometheus collectors for the upload and dispatch flows.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal       *prometheus.CounterVec
	httpRequestDuration     *prometheus.HistogramVec
	uploadsAcceptedTotal    prometheus.Counter
	uploadsRejectedTotal    *prometheus.CounterVec
	alertsDispatchedTotal   *prometheus.CounterVec
	deliveriesFailedTotal   *prometheus.CounterVec
	dispatchDurationSeconds *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "medpredict_alerts",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "medpredict_alerts",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds by method and path.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		uploadsAcceptedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "medpredict_alerts",
				Name:      "uploads_accepted_total",
				Help:      "Total number of uploads accepted and written to disk.",
			},
		),
		uploadsRejectedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "medpredict_alerts",
				Name:      "uploads_rejected_total",
				Help:      "Total number of uploads rejected before storage, by reason.",
			},
			[]string{"reason"},
		),
		alertsDispatchedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "medpredict_alerts",
				Name:      "alerts_dispatched_total",
				Help:      "Total number of dispatch batches, by workflow and outcome.",
			},
			[]string{"workflow", "outcome"},
		),
		deliveriesFailedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "medpredict_alerts",
				Name:      "deliveries_failed_total",
				Help:      "Total number of per-recipient trigger failures, by workflow.",
			},
			[]string{"workflow"},
		),
		dispatchDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "medpredict_alerts",
				Name:      "dispatch_duration_seconds",
				Help:      "Full fan-out duration in seconds grouped by workflow.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"workflow"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.uploadsAcceptedTotal,
		m.uploadsRejectedTotal,
		m.alertsDispatchedTotal,
		m.deliveriesFailedTotal,
		m.dispatchDurationSeconds,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) HTTPMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := routePath(c)
		// Avoid self-scrape noise for request counters.
		if path == "/metrics" {
			return err
		}

		m.recordHTTPRequest(c.Method(), path, statusFromResult(c, err), time.Since(start))
		return err
	}
}

func (m *Metrics) IncUploadAccepted() {
	if m == nil {
		return
	}
	m.uploadsAcceptedTotal.Inc()
}

func (m *Metrics) IncUploadRejected(reason string) {
	if m == nil {
		return
	}
	reasonLabel := strings.TrimSpace(strings.ToLower(reason))
	if reasonLabel == "" {
		reasonLabel = "unknown"
	}
	m.uploadsRejectedTotal.WithLabelValues(reasonLabel).Inc()
}

func (m *Metrics) IncAlertDispatched(workflow string, success bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "partial_failure"
	}
	m.alertsDispatchedTotal.WithLabelValues(normalizeWorkflow(workflow), outcome).Inc()
}

func (m *Metrics) IncDeliveryFailed(workflow string) {
	if m == nil {
		return
	}
	m.deliveriesFailedTotal.WithLabelValues(normalizeWorkflow(workflow)).Inc()
}

func (m *Metrics) ObserveDispatchDuration(workflow string, duration time.Duration) {
	if m == nil {
		return
	}
	seconds := duration.Seconds()
	if seconds < 0 {
		seconds = 0
	}
	m.dispatchDurationSeconds.WithLabelValues(normalizeWorkflow(workflow)).Observe(seconds)
}

func (m *Metrics) recordHTTPRequest(method string, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	methodLabel := strings.ToUpper(strings.TrimSpace(method))
	if methodLabel == "" {
		methodLabel = "UNKNOWN"
	}
	pathLabel := strings.TrimSpace(path)
	if pathLabel == "" {
		pathLabel = "unmatched"
	}

	m.httpRequestsTotal.WithLabelValues(methodLabel, pathLabel, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(methodLabel, pathLabel).Observe(duration.Seconds())
}

func routePath(c *fiber.Ctx) string {
	if c == nil {
		return "unmatched"
	}

	if route := c.Route(); route != nil {
		if path := strings.TrimSpace(route.Path); path != "" {
			return path
		}
	}
	return "unmatched"
}

func statusFromResult(c *fiber.Ctx, err error) int {
	if err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			return fiberErr.Code
		}
		return fiber.StatusInternalServerError
	}

	if c == nil {
		return fiber.StatusOK
	}

	status := c.Response().StatusCode()
	if status == 0 {
		return fiber.StatusOK
	}
	return status
}

func normalizeWorkflow(workflow string) string {
	normalized := strings.ToLower(strings.TrimSpace(workflow))
	if normalized == "" {
		return "unknown"
	}
	return normalized
}
