package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DescribeRequests counts description generation calls by outcome.
	DescribeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dwellr_describe_requests_total",
		Help: "Total description generation calls by outcome",
	}, []string{"outcome"})

	// DescribeLatency records the round-trip latency of the generative call.
	DescribeLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dwellr_describe_latency_seconds",
		Help:    "Description generation latency in seconds",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
	})

	// UploadGrantsIssued counts issued presigned upload URLs.
	UploadGrantsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dwellr_upload_grants_issued_total",
		Help: "Total presigned upload URLs issued",
	})

	// PostsCreated counts successfully created posts.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dwellr_posts_created_total",
		Help: "Total posts created",
	})

	// DatabaseQueryLatency records database query latency by operation.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dwellr_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
