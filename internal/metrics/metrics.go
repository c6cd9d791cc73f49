// Stylematch - Fashion Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylematch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylematch_recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"kind", "strategy", "status"},
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stylematch_recommend_duration_seconds",
			Help:    "Recommendation latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"kind"},
	)

	RecommendCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylematch_recommend_cache_total",
			Help: "Recommendation cache lookups by result",
		},
		[]string{"result"}, // result: "hit", "miss"
	)

	ProfileMemo = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylematch_profile_memo_total",
			Help: "Preference profile memo lookups by result",
		},
		[]string{"result"},
	)

	// Catalog Metrics
	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stylematch_catalog_items",
			Help: "Number of items in the active catalog",
		},
	)

	CatalogLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylematch_catalog_loads_total",
			Help: "Catalog load attempts by outcome",
		},
		[]string{"status"},
	)

	CatalogSkippedRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stylematch_catalog_skipped_records_total",
			Help: "Catalog records skipped during parsing",
		},
	)

	FeatureBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stylematch_feature_build_duration_seconds",
			Help:    "Feature extraction duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	VisualDescriptorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylematch_visual_descriptor_failures_total",
			Help: "Items that fell back to a zero visual vector",
		},
		[]string{"provider"},
	)

	// Signal Metrics
	Interactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylematch_interactions_total",
			Help: "Recorded user interactions by type",
		},
		[]string{"type"},
	)

	QuizSubmissions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stylematch_quiz_submissions_total",
			Help: "Quiz answer sets saved",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stylematch_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylematch_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylematch_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// HTTP Metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylematch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stylematch_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stylematch_http_active_requests",
			Help: "Current number of active HTTP requests",
		},
	)

	HTTPRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stylematch_http_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"route"},
	)
)

// RecordRecommendation records the outcome of a recommendation call.
func RecordRecommendation(kind, strategy, status string, duration time.Duration) {
	RecommendRequests.WithLabelValues(kind, strategy, status).Inc()
	RecommendDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordCacheLookup records a recommendation cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		RecommendCache.WithLabelValues("hit").Inc()
		return
	}
	RecommendCache.WithLabelValues("miss").Inc()
}

// RecordCatalogLoad records a catalog load attempt.
func RecordCatalogLoad(items, skipped int, err error) {
	if err != nil {
		CatalogLoads.WithLabelValues("error").Inc()
		return
	}
	CatalogLoads.WithLabelValues("success").Inc()
	CatalogItems.Set(float64(items))
	CatalogSkippedRecords.Add(float64(skipped))
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active HTTP requests.
func TrackActiveRequest(inc bool) {
	if inc {
		HTTPActiveRequests.Inc()
	} else {
		HTTPActiveRequests.Dec()
	}
}
