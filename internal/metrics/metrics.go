// Package metrics exposes Prometheus metrics for the back-office.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace is the namespace component of the fully qualified metric name
const Namespace = "numera"

// DefaultRegistry is the default [prometheus.Registry] for metrics.
var DefaultRegistry = prometheus.NewPedanticRegistry()

var (
	// FeedAttemptsTotal counts content-fetch strategy attempts by outcome.
	FeedAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "feed_attempts_total",
			Help:      "Total number of content-fetch strategy attempts",
		},
		[]string{"strategy", "outcome"},
	)

	// FeedAttemptDuration observes how long each strategy attempt took.
	FeedAttemptDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "feed_attempt_duration_seconds",
			Help:      "Duration of content-fetch strategy attempts",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		},
		[]string{"strategy"},
	)

	// UploadAttemptsTotal counts media upload attempts per backend.
	UploadAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "upload_attempts_total",
			Help:      "Total number of media upload attempts",
		},
		[]string{"backend", "outcome"},
	)

	// HTTPRequestsTotal counts served HTTP requests.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served",
		},
		[]string{"method", "code"},
	)
)

// Handler returns the HTTP handler serving [DefaultRegistry].
func Handler() http.Handler {
	return promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{})
}

// FeedObserver records feed strategy attempts.
type FeedObserver struct{}

// Attempt records one strategy attempt.
func (FeedObserver) Attempt(strategy, outcome string, took time.Duration) {
	FeedAttemptsTotal.WithLabelValues(strategy, outcome).Inc()
	FeedAttemptDuration.WithLabelValues(strategy).Observe(took.Seconds())
}

// UploadObserver records media upload attempts.
type UploadObserver struct{}

// Attempt records one upload attempt.
func (UploadObserver) Attempt(backend, outcome string) {
	UploadAttemptsTotal.WithLabelValues(backend, outcome).Inc()
}

// ObserveRequest records one served request.
func ObserveRequest(method string, code int) {
	HTTPRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

// init registers collectors with the [DefaultRegistry].
func init() {
	DefaultRegistry.MustRegister(
		FeedAttemptsTotal,
		FeedAttemptDuration,
		UploadAttemptsTotal,
		HTTPRequestsTotal,

		// Standard Go metrics
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}
