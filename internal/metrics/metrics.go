// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Recommendation latency and outcomes
// - Feature extraction and the feature cache
// - Remote image fetching
// - Catalog loading and warm-up
// - API endpoint latency and throughput

var (
	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookalike_recommendations_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"mode", "result"}, // result: "ok", "cached", "unknown_product", "invalid", "error"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lookalike_recommendation_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"mode"},
	)

	RecommendationCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lookalike_recommendation_candidates",
			Help:    "Number of candidates scored per recommendation request",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		},
	)

	// Feature Metrics
	FeatureExtractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookalike_feature_extractions_total",
			Help: "Total number of feature set computations",
		},
		[]string{"result"}, // "ok", "error"
	)

	FeatureExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lookalike_feature_extraction_duration_seconds",
			Help:    "Duration of feature set computation including image retrieval",
			Buckets: prometheus.DefBuckets,
		},
	)

	ImageFeaturesAbsent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookalike_image_features_absent_total",
			Help: "Total number of products whose image features were absent",
		},
		[]string{"reason"}, // "no_source", "fetch_failed", "decode_failed", "disabled"
	)

	// Cache Metrics (General)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "features", "results", "images"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	// Image Fetch Metrics
	ImageFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookalike_image_fetch_total",
			Help: "Total number of image fetch attempts",
		},
		[]string{"source", "result"}, // source: "http", "file"; result: "ok", "error", "rejected"
	)

	ImageFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lookalike_image_fetch_duration_seconds",
			Help:    "Duration of image fetches in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	ImageFetchBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lookalike_image_fetch_bytes",
			Help:    "Size of fetched images in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8), // 1KiB .. 16MiB
		},
	)

	ImageFetchInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lookalike_image_fetch_in_flight",
			Help: "Current number of image fetches in progress",
		},
	)

	// Catalog Metrics
	CatalogProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lookalike_catalog_products",
			Help: "Number of products in the loaded catalog",
		},
	)

	CatalogSkippedRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lookalike_catalog_skipped_records_total",
			Help: "Total number of catalog records skipped for missing id or name",
		},
	)

	CatalogLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lookalike_catalog_load_duration_seconds",
			Help:    "Duration of catalog loading in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	WarmupProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lookalike_warmup_products",
			Help: "Feature warm-up progress",
		},
		[]string{"state"}, // "total", "done"
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordRecommendation records a recommendation request metric
func RecordRecommendation(mode, result string, candidates int, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(mode, result).Inc()
	RecommendationDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if candidates > 0 {
		RecommendationCandidates.Observe(float64(candidates))
	}
}

// RecordFeatureExtraction records a feature set computation
func RecordFeatureExtraction(duration time.Duration, err error) {
	FeatureExtractionDuration.Observe(duration.Seconds())
	if err != nil {
		FeatureExtractions.WithLabelValues("error").Inc()
		return
	}
	FeatureExtractions.WithLabelValues("ok").Inc()
}

// RecordImageAbsent records why a product ended up without image features
func RecordImageAbsent(reason string) {
	ImageFeaturesAbsent.WithLabelValues(reason).Inc()
}

// RecordCacheLookup records a hit or miss for the named cache
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
		return
	}
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// UpdateCacheSize sets the entry gauge for the named cache
func UpdateCacheSize(cacheType string, entries int) {
	CacheSize.WithLabelValues(cacheType).Set(float64(entries))
}

// RecordImageFetch records an image fetch attempt
func RecordImageFetch(source, result string, size int, duration time.Duration) {
	ImageFetchTotal.WithLabelValues(source, result).Inc()
	ImageFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
	if size > 0 {
		ImageFetchBytes.Observe(float64(size))
	}
}

// TrackImageFetch tracks image fetches in progress
func TrackImageFetch(inc bool) {
	if inc {
		ImageFetchInFlight.Inc()
	} else {
		ImageFetchInFlight.Dec()
	}
}

// RecordCatalogLoad records a completed catalog load
func RecordCatalogLoad(products, skipped int, duration time.Duration) {
	CatalogProducts.Set(float64(products))
	CatalogSkippedRecords.Add(float64(skipped))
	CatalogLoadDuration.Observe(duration.Seconds())
}

// UpdateWarmupProgress sets the warm-up gauges
func UpdateWarmupProgress(done, total int) {
	WarmupProgress.WithLabelValues("done").Set(float64(done))
	WarmupProgress.WithLabelValues("total").Set(float64(total))
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordAPIStatus is RecordAPIRequest with an integer status code
func RecordAPIStatus(method, endpoint string, status int, duration time.Duration) {
	RecordAPIRequest(method, endpoint, strconv.Itoa(status), duration)
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a request rejected by the rate limiter
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// SetAppInfo publishes build information
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}
