// Package metrics declares the Prometheus collectors of the API process.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmdb_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filmdb_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "filmdb_http_active_requests",
			Help: "Requests currently being served",
		},
	)

	// TMDB proxy
	TMDBRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmdb_tmdb_requests_total",
			Help: "Upstream TMDB calls by endpoint and result",
		},
		[]string{"endpoint", "result"}, // result: success, failure, rejected
	)

	TMDBCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmdb_tmdb_cache_lookups_total",
			Help: "TMDB cache lookups by result",
		},
		[]string{"result"}, // hit, miss
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "filmdb_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmdb_circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Outbox
	OutboxEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmdb_outbox_events_total",
			Help: "Activity events handed to the sender",
		},
		[]string{"event", "result"},
	)
)

// RecordAPIRequest records one served request.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

func RecordCacheLookup(hit bool) {
	if hit {
		TMDBCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	TMDBCacheLookups.WithLabelValues("miss").Inc()
}
