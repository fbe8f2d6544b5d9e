package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors of one application instance.
type Metrics struct {
	registry          *prometheus.Registry
	requestCount      *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	errorCount        *prometheus.CounterVec
	sessionTransition *prometheus.CounterVec
	decodeFailures    prometheus.Counter
}

// NewMetrics initializes collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fooddash_http_requests_total",
			Help: "Served HTTP requests by route, method and status.",
		}, []string{"path", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fooddash_http_request_duration_seconds",
			Help:    "Latency of served HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errorCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fooddash_http_errors_total",
			Help: "Requests that ended with a domain error, by code.",
		}, []string{"path", "method", "code"}),
		sessionTransition: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fooddash_session_transitions_total",
			Help: "Session store transitions by event type.",
		}, []string{"event"}),
		decodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fooddash_token_decode_failures_total",
			Help: "Session tokens whose claims could not be decoded.",
		}),
	}
	m.registry.MustRegister(
		m.requestCount,
		m.requestDuration,
		m.errorCount,
		m.sessionTransition,
		m.decodeFailures,
	)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(path, method, code).Inc()
}

// RecordSessionTransition counts a session store event.
func (m *Metrics) RecordSessionTransition(event string) {
	if m == nil {
		return
	}
	m.sessionTransition.WithLabelValues(event).Inc()
}

// RecordDecodeFailure counts a token that yielded no claims.
func (m *Metrics) RecordDecodeFailure() {
	if m == nil {
		return
	}
	m.decodeFailures.Inc()
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
