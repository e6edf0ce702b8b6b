// Package metrics defines the Prometheus collectors of the analysis engine and
// exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors. Each instance owns its registry so
// several engines (or tests) can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	RebuildsTotal       *prometheus.CounterVec
	RebuildDuration     prometheus.Histogram
	DocumentsIndexed    prometheus.Gauge
	IndexGeneration     prometheus.Gauge
	AnalysisDuration    *prometheus.HistogramVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates and registers all metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RebuildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bug_analysis_rebuilds_total",
				Help: "Index rebuilds by status (success, failed, rejected).",
			},
			[]string{"status"},
		),
		RebuildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bug_analysis_rebuild_duration_seconds",
				Help:    "Index rebuild latency in seconds.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		DocumentsIndexed: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "bug_analysis_documents_indexed",
				Help: "Documents in the current index generation.",
			},
		),
		IndexGeneration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "bug_analysis_index_generation",
				Help: "Generation number of the current index.",
			},
		),
		AnalysisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bug_analysis_operation_duration_seconds",
				Help:    "Analysis operation latency in seconds.",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"operation"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bug_analysis_http_requests_total",
				Help: "HTTP requests by method, route, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bug_analysis_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RebuildsTotal,
		m.RebuildDuration,
		m.DocumentsIndexed,
		m.IndexGeneration,
		m.AnalysisDuration,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)
	return m
}

// ObserveRebuild records the outcome of one rebuild. status is "success",
// "failed" or "rejected".
func (m *Metrics) ObserveRebuild(status string, elapsed time.Duration, docs int, generation uint64) {
	m.RebuildsTotal.WithLabelValues(status).Inc()
	if status != "success" {
		return
	}
	m.RebuildDuration.Observe(elapsed.Seconds())
	m.DocumentsIndexed.Set(float64(docs))
	m.IndexGeneration.Set(float64(generation))
}

// ObserveAnalysis records the latency of one analysis operation.
func (m *Metrics) ObserveAnalysis(operation string, elapsed time.Duration) {
	m.AnalysisDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus scrape HTTP handler of this instance.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
