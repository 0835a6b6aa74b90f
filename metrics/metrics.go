package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "music_service"

var (
	// Registry holds the service collectors. It is private so tests and
	// multiple servers in one process do not collide on the default registry.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	subscriptionOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subscriptions",
			Name:      "operations_total",
			Help:      "Subscribe calls by outcome (created, extended, conflict, error).",
		},
		[]string{"outcome"},
	)

	subscriptionsDeactivated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subscriptions",
			Name:      "deactivated_total",
			Help:      "Subscriptions flipped inactive by the expiry sweep.",
		},
	)

	followOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "social",
			Name:      "operations_total",
			Help:      "Follow graph mutations by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	reviewsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reviews",
			Name:      "created_total",
			Help:      "Track reviews stored.",
		},
	)

	feedDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "compose_duration_seconds",
			Help:      "Time spent composing a home feed.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		subscriptionOps,
		subscriptionsDeactivated,
		followOps,
		reviewsCreated,
		feedDuration,
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordSubscription(outcome string) {
	subscriptionOps.WithLabelValues(outcome).Inc()
}

func RecordDeactivated(n int64) {
	if n > 0 {
		subscriptionsDeactivated.Add(float64(n))
	}
}

func RecordFollow(op, outcome string) {
	followOps.WithLabelValues(op, outcome).Inc()
}

func RecordReview() {
	reviewsCreated.Inc()
}

func ObserveFeed(duration time.Duration) {
	feedDuration.Observe(duration.Seconds())
}
