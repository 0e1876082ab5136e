package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector the service exposes.
type Registry struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DatasetLoadsTotal   *prometheus.CounterVec
	DatasetLoadDuration prometheus.Histogram
	DatasetManholes     prometheus.Gauge
	DatasetPipes        prometheus.Gauge
	CacheInvalidations  prometheus.Counter

	ExportsTotal *prometheus.CounterVec
}

func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	r := &Registry{registry: reg}
	r.initHTTPMetrics()
	r.initDatasetMetrics()
	return r
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sewer_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sewer_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
}

func (r *Registry) initDatasetMetrics() {
	r.DatasetLoadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sewer_dataset_loads_total",
			Help: "Dataset cold loads by manhole table source",
		},
		[]string{"source"}, // file, synthetic, fallback
	)

	r.DatasetLoadDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sewer_dataset_load_duration_seconds",
			Help:    "Duration of dataset cold loads in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	r.DatasetManholes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sewer_dataset_manholes",
			Help: "Manholes in the cached dataset",
		},
	)

	r.DatasetPipes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sewer_dataset_pipes",
			Help: "Pipes in the cached dataset",
		},
	)

	r.CacheInvalidations = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "sewer_cache_invalidations_total",
			Help: "Operator-triggered dataset cache invalidations",
		},
	)

	r.ExportsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sewer_exports_total",
			Help: "CSV exports written, by kind",
		},
		[]string{"kind"},
	)
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordDatasetLoad records a cold load and the resulting table sizes.
func (r *Registry) RecordDatasetLoad(source string, manholes, pipes int, duration time.Duration) {
	r.DatasetLoadsTotal.WithLabelValues(source).Inc()
	r.DatasetLoadDuration.Observe(duration.Seconds())
	r.DatasetManholes.Set(float64(manholes))
	r.DatasetPipes.Set(float64(pipes))
}

func (r *Registry) RecordExport(kind string) {
	r.ExportsTotal.WithLabelValues(kind).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
