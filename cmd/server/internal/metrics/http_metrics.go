package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests.
	// Labels: method, route (gin FullPath or "unmatched"), status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roomz_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency in seconds.
	// Labels: method, route
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roomz_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds by method and route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	// AuthFailuresTotal counts rejected Basic Auth attempts.
	AuthFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roomz_auth_failures_total",
			Help: "Total number of requests rejected by basic auth",
		},
	)
)

// RecordRequest records one finished HTTP request.
func RecordRequest(method, route, status string, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

// RecordAuthFailure records a rejected credential check.
func RecordAuthFailure() {
	AuthFailuresTotal.Inc()
}
