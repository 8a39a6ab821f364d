package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Expansion outcomes reported through RecordExpansion.
const (
	OutcomeOK       = "ok"
	OutcomeEmpty    = "empty"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "emmet").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "emmet",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

type metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	expansionsTotal *prometheus.CounterVec
	inputBytes      prometheus.Histogram
	liveClients     prometheus.Gauge
	wsErrors        *prometheus.CounterVec
}

// globalMetrics is the singleton metrics instance.
// Created on first call to Prometheus().
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of HTTP requests by route and status code",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		expansionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "expansions_total",
			Help:        "Total number of abbreviation expansions by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		inputBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "abbreviation_bytes",
			Help:        "Size of expanded abbreviations in bytes",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{8, 32, 128, 512, 2048, 8192, 65536},
		}),

		liveClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_clients",
			Help:        "Number of connected live playground clients",
			ConstLabels: config.ConstLabels,
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total WebSocket errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// Prometheus creates HTTP middleware that collects request metrics.
//
// Metrics collected:
//   - emmet_requests_total: Counter of requests by route pattern and status code
//   - emmet_request_duration_seconds: Histogram of request duration by route
//   - emmet_expansions_total: Counter of expansions by outcome (RecordExpansion)
//   - emmet_abbreviation_bytes: Histogram of abbreviation sizes (RecordExpansion)
//   - emmet_live_clients: Gauge of live playground clients (RecordLiveClient)
//   - emmet_websocket_errors_total: Counter of WebSocket errors
//
// Routes are labelled with the chi route pattern, so "/api/snippets/{id}"
// is one series no matter how many ids are requested. Requests that match
// no route are labelled "unmatched".
//
// The first call fixes the configuration; later calls share the same
// collectors.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Use(middleware.Prometheus(middleware.WithNamespace("playground")))
//	r.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) func(http.Handler) http.Handler {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			route := routePattern(r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
			m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		})
	}
}

// routePattern returns the matched chi route pattern for r.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// =============================================================================
// Metrics Recording Functions
// =============================================================================

// currentMetrics returns the installed metrics, or nil before the
// middleware has been created.
func currentMetrics() *metrics {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	return globalMetrics
}

// RecordExpansion records one expansion with its outcome and input size.
func RecordExpansion(outcome string, inputBytes int) {
	if m := currentMetrics(); m != nil {
		m.expansionsTotal.WithLabelValues(outcome).Inc()
		m.inputBytes.Observe(float64(inputBytes))
	}
}

// RecordLiveClient adjusts the live client gauge by delta.
func RecordLiveClient(delta int) {
	if m := currentMetrics(); m != nil {
		m.liveClients.Add(float64(delta))
	}
}

// RecordWebSocketError records a WebSocket error.
func RecordWebSocketError(errorType string) {
	if m := currentMetrics(); m != nil {
		m.wsErrors.WithLabelValues(errorType).Inc()
	}
}

// =============================================================================
// Metrics Collector
// =============================================================================

// Collector exposes the metrics for use in custom registrations and tests.
type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ExpansionsTotal *prometheus.CounterVec
	InputBytes      prometheus.Histogram
	LiveClients     prometheus.Gauge
	WebSocketErrors *prometheus.CounterVec
}

// GetMetrics returns the global metrics collector.
// Returns nil if Prometheus middleware has not been initialized.
func GetMetrics() *Collector {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()

	if globalMetrics == nil {
		return nil
	}
	return &Collector{
		RequestsTotal:   globalMetrics.requestsTotal,
		RequestDuration: globalMetrics.requestDuration,
		ExpansionsTotal: globalMetrics.expansionsTotal,
		InputBytes:      globalMetrics.inputBytes,
		LiveClients:     globalMetrics.liveClients,
		WebSocketErrors: globalMetrics.wsErrors,
	}
}
