// Package metrics exposes protocol and HTTP metrics through a dedicated prometheus registry.
package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"venuegate/internal/domain/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "venuegate"

// Metrics owns a registry and the collectors registered on it.
type Metrics struct {
	registry *prometheus.Registry

	entryOutcomes  *prometheus.CounterVec
	transitions    *prometheus.CounterVec
	auditFailures  *prometheus.CounterVec
	storeCalls     *prometheus.CounterVec
	storeAttempts  *prometheus.HistogramVec
	storeDuration  *prometheus.HistogramVec
	httpInFlight   prometheus.Gauge
	httpRequests   *prometheus.CounterVec
	httpDurationHs *prometheus.HistogramVec
}

var _ service.ProtocolMetrics = (*Metrics)(nil)

// New creates the collectors and registers them together with the go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		entryOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entry_outcomes_total",
			Help:      "Nonce and verify outcomes by step and reason.",
		}, []string{"step", "reason"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "presence_transitions_total",
			Help:      "Presence state transitions.",
		}, []string{"from", "to", "reason"}),
		auditFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_write_failures_total",
			Help:      "Security audit entries that could not be written.",
		}, []string{"event_type"}),
		storeCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_calls_total",
			Help:      "Store operations by outcome.",
		}, []string{"operation", "outcome"}),
		storeAttempts: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_call_attempts",
			Help:      "Attempts per store operation.",
			Buckets:   []float64{1, 2, 3, 4, 5},
		}, []string{"operation"}),
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_call_duration_seconds",
			Help:      "Store operation latency including retries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "In-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpDurationHs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.entryOutcomes,
		m.transitions,
		m.auditFailures,
		m.storeCalls,
		m.storeAttempts,
		m.storeDuration,
		m.httpInFlight,
		m.httpRequests,
		m.httpDurationHs,
	)

	return m
}

// NewProtocolMetrics adapts New for Fx consumers of the domain interface.
func NewProtocolMetrics(m *Metrics) service.ProtocolMetrics {
	return m
}

// RegisterDBStats exports the connection pool statistics of db under the given name.
func (m *Metrics) RegisterDBStats(db *sql.DB, name string) error {
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Registry returns the registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveEntry(step, reason string) {
	m.entryOutcomes.WithLabelValues(step, reason).Inc()
}

func (m *Metrics) ObserveTransition(from, to, reason string) {
	m.transitions.WithLabelValues(from, to, reason).Inc()
}

func (m *Metrics) ObserveAuditFailure(eventType string) {
	m.auditFailures.WithLabelValues(eventType).Inc()
}

func (m *Metrics) ObserveStoreCall(operation string, attempts int, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.storeCalls.WithLabelValues(operation, outcome).Inc()
	m.storeAttempts.WithLabelValues(operation).Observe(float64(attempts))
	m.storeDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RequestStarted marks a request in flight. The returned func records it once the status is known.
func (m *Metrics) RequestStarted(method, route string) func(status int) {
	start := time.Now()
	m.httpInFlight.Inc()

	return func(status int) {
		m.httpInFlight.Dec()
		code := strconv.Itoa(status)
		m.httpRequests.WithLabelValues(method, route, code).Inc()
		m.httpDurationHs.WithLabelValues(method, route, code).Observe(time.Since(start).Seconds())
	}
}
