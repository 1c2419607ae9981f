// Waypost - Travel Itinerary Discovery and Social Feed Platform
// Copyright 2026 Waypost Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waypost/waypost

// Package metrics defines the Prometheus instrumentation for the
// discovery feed service. All collectors are registered on the default
// registry and exposed via the /metrics endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts API requests by method, endpoint, and status.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waypost_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	// APIRequestDuration tracks API request latency.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "waypost_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// APIActiveRequests tracks in-flight API requests.
	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "waypost_api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	// FeedAssemblyDuration tracks end-to-end feed assembly latency,
	// including snapshot fetching.
	FeedAssemblyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "waypost_feed_assembly_duration_seconds",
			Help:    "Feed assembly duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// FeedCandidates tracks the candidate pool size per assembled feed.
	FeedCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "waypost_feed_candidates",
			Help:    "Number of candidates considered per feed request",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000},
		},
	)

	// FeedCacheHits counts feed responses served from cache.
	FeedCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "waypost_feed_cache_hits_total",
			Help: "Total number of feed cache hits",
		},
	)

	// FeedCacheMisses counts feed responses assembled from scratch.
	FeedCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "waypost_feed_cache_misses_total",
			Help: "Total number of feed cache misses",
		},
	)

	// StoreQueryDuration tracks storage layer query latency.
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "waypost_store_query_duration_seconds",
			Help:    "Storage query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)
)

// RecordAPIRequest records a completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordFeedAssembly records one assembled feed.
func RecordFeedAssembly(duration time.Duration, candidates int, cacheHit bool) {
	FeedAssemblyDuration.Observe(duration.Seconds())
	FeedCandidates.Observe(float64(candidates))

	if cacheHit {
		FeedCacheHits.Inc()
	} else {
		FeedCacheMisses.Inc()
	}
}

// RecordStoreQuery records one storage layer query.
func RecordStoreQuery(query string, duration time.Duration) {
	StoreQueryDuration.WithLabelValues(query).Observe(duration.Seconds())
}
