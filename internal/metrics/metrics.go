// Package metrics provides the centralized Prometheus metrics registry for the prediction API.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "acebet",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})
	AuthFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "acebet",
		Name:      "auth_failures_total",
		Help:      "Total number of authentication failures by reason",
	}, []string{"reason"})
	RateLimitRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "acebet",
		Name:      "rate_limit_rejections_total",
		Help:      "Total number of requests rejected by admission control",
	}, []string{"route"})
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "acebet",
		Name:      "predictions_total",
		Help:      "Total number of prediction requests by outcome",
	}, []string{"outcome"})
	TokensIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "acebet",
		Name:      "tokens_issued_total",
		Help:      "Total number of access tokens issued",
	})
)

// Gauge metrics
var (
	ArtifactAgeSeconds = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "acebet",
		Name:      "artifact_age_seconds",
		Help:      "Age of the currently resolvable model artifact",
	})
	ArtifactModTimeSeconds = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "acebet",
		Name:      "artifact_mtime_seconds",
		Help:      "Modification timestamp of the currently resolvable model artifact",
	})
	DatasetRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "acebet",
		Name:      "dataset_rows",
		Help:      "Row count of the most recently loaded dataset snapshot",
	})
)

// Histogram metrics
var (
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "acebet",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
	PredictionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "acebet",
		Name:      "prediction_duration_seconds",
		Help:      "End-to-end prediction latency including artifact resolution and lookup",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	})
)

// Registry returns the singleton metrics registry with all collectors registered
func Registry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			RequestsTotal,
			AuthFailuresTotal,
			RateLimitRejectionsTotal,
			PredictionsTotal,
			TokensIssuedTotal,
			ArtifactAgeSeconds,
			ArtifactModTimeSeconds,
			DatasetRows,
			RequestDuration,
			PredictionLatency,
		)
	})
	return registry
}

// Handler returns an HTTP handler serving the registry
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{})
}
