// Package observability provides metrics and tracing for the application.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minisocial_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// LikesTotal counts like/unlike operations by outcome.
	// Outcomes: "liked", "already_liked", "unliked", "noop_unlike".
	LikesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minisocial_likes_total",
		Help: "Total number of like and unlike operations by outcome",
	}, []string{"outcome"})

	// CommentsTotal counts comment create/delete operations.
	CommentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minisocial_comments_total",
		Help: "Total number of comment operations by action",
	}, []string{"action"})

	// CounterDrift counts cases where a primary write succeeded but the
	// follow-up counter update failed, leaving a denormalized counter stale.
	CounterDrift = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minisocial_counter_drift_total",
		Help: "Counter updates that failed after the primary write succeeded",
	}, []string{"counter"})

	// TrendingQueryLatency records trending feed query latency.
	TrendingQueryLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "minisocial_trending_query_latency_seconds",
		Help:    "Trending feed query latency in seconds",
		Buckets: prometheus.DefBuckets,
	})
)

// ObserveTrendingQuery records the latency of a trending query started at start.
func ObserveTrendingQuery(start time.Time) {
	TrendingQueryLatency.Observe(time.Since(start).Seconds())
}
