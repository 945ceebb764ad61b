// Package metrics exposes HTTP and blade lifecycle metrics in Prometheus
// format. Collectors live on a registry owned by Metrics, not the global one.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the registry and collectors of one server
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	transitions         *prometheus.CounterVec
}

// New creates the collectors and registers them with a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bladetrack_lifecycle_transitions_total",
				Help: "Blade lifecycle operations by outcome.",
			},
			[]string{"operation", "outcome"},
		),
	}

	m.registry.MustRegister(
		m.httpInFlight,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.transitions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors live on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Transition counts one lifecycle operation and its outcome
func (m *Metrics) Transition(operation, outcome string) {
	m.transitions.WithLabelValues(operation, outcome).Inc()
}

// Middleware measures in-flight requests, request counts and latency. Routes
// are labelled by their template so IDs do not explode cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.httpInFlight.Inc()
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		m.httpRequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(duration)
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpInFlight.Dec()
	}
}
