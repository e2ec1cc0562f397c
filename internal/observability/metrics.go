// Package observability provides Prometheus collectors and the OpenTelemetry
// tracer used across the service.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for ListMutations.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultConflict = "conflict"
	ResultError    = "error"
)

var (
	// ListMutations counts embedded list edits by list kind, operation and result.
	ListMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devsocial_list_mutations_total",
		Help: "Total number of embedded list mutations",
	}, []string{"kind", "op", "result"})

	// StaleWrites counts optimistic writes that lost against a concurrent update.
	StaleWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devsocial_stale_writes_total",
		Help: "Total number of conditional writes rejected by a version mismatch",
	}, []string{"aggregate"})

	// GithubRequests counts GitHub repository lookups by outcome.
	GithubRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devsocial_github_requests_total",
		Help: "Total number of GitHub repository lookups by outcome",
	}, []string{"outcome"})

	// RateLimited counts requests rejected by the Redis rate limiter, per route group.
	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devsocial_rate_limited_total",
		Help: "Total number of requests rejected by the rate limiter",
	}, []string{"resource"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devsocial_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devsocial_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// RecordMutation increments ListMutations.
func RecordMutation(kind, op, result string) {
	ListMutations.WithLabelValues(kind, op, result).Inc()
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
