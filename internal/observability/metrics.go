package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// Route gatekeeper
	GatekeeperDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatekeeper_decisions_total",
			Help: "Route gatekeeper decisions by path class",
		},
		[]string{"class", "decision"},
	)

	// Remote API proxy calls. outcome is one of ok, rejected, transport, unauthenticated.
	ActionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "action_requests_total",
			Help: "Remote API calls made by the action proxies",
		},
		[]string{"resource", "operation", "outcome"},
	)

	ActionRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "action_request_duration_seconds",
			Help:    "Remote API call latency in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"resource", "operation"},
	)

	// Sessions
	SessionsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sessions_issued_total",
			Help: "Sessions issued after a successful sign-in",
		},
		[]string{"store"},
	)

	SessionsCleaned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_cleaned_total",
			Help: "Expired server-side sessions removed by the cleanup task",
		},
	)

	// Cart
	CartOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_operations_total",
			Help: "Cart store operations",
		},
		[]string{"operation", "status"},
	)
)
