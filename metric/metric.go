// Package metric provides Prometheus instrumentation for the graphpath
// client: queries issued, failures by error class, and request duration.
// Metrics are optional; a client without a registry records nothing.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics contains all client-level metrics.
type Metrics struct {
	// QueriesTotal counts query exchanges by outcome ("ok" or the error
	// class: "transient", "invalid", "fatal").
	QueriesTotal *prometheus.CounterVec

	// RequestDuration observes the wall time of each query exchange.
	RequestDuration prometheus.Histogram

	// ResponseBytes observes the size of each response body.
	ResponseBytes prometheus.Histogram
}

// NewMetrics creates a new Metrics instance with all client metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "graphpath",
				Subsystem: "client",
				Name:      "queries_total",
				Help:      "Total number of query exchanges by outcome",
			},
			[]string{"outcome"},
		),
		RequestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "graphpath",
				Subsystem: "client",
				Name:      "request_duration_seconds",
				Help:      "Wall time of query exchanges",
				Buckets:   prometheus.DefBuckets,
			},
		),
		ResponseBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "graphpath",
				Subsystem: "client",
				Name:      "response_bytes",
				Help:      "Size of query response bodies",
				Buckets:   prometheus.ExponentialBuckets(64, 4, 10),
			},
		),
	}
}

// MetricsRegistry manages the registration and lifecycle of client
// metrics on a dedicated Prometheus registry.
type MetricsRegistry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics
}

// NewMetricsRegistry creates a registry with all client metrics plus the
// Go runtime collectors registered.
func NewMetricsRegistry() *MetricsRegistry {
	registry := &MetricsRegistry{
		prometheusRegistry: prometheus.NewRegistry(),
		Metrics:            NewMetrics(),
	}

	registry.prometheusRegistry.MustRegister(
		registry.Metrics.QueriesTotal,
		registry.Metrics.RequestDuration,
		registry.Metrics.ResponseBytes,
	)
	registry.prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

// PrometheusRegistry returns the underlying Prometheus registry, for
// exposing through an HTTP handler.
func (r *MetricsRegistry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// ObserveQuery records one completed query exchange.
func (r *MetricsRegistry) ObserveQuery(outcome string, duration time.Duration, responseBytes int) {
	if r == nil {
		return
	}
	r.Metrics.QueriesTotal.WithLabelValues(outcome).Inc()
	r.Metrics.RequestDuration.Observe(duration.Seconds())
	if responseBytes >= 0 {
		r.Metrics.ResponseBytes.Observe(float64(responseBytes))
	}
}
