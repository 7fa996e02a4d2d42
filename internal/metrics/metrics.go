// Package metrics instruments client-side operations against the remote
// commerce backend.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_backend_requests_total",
			Help: "Total number of requests issued to the commerce backend",
		},
		[]string{"operation", "status"},
	)

	backendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_backend_request_duration_seconds",
			Help:    "Backend request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	cartOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_operations_total",
			Help: "Total number of cart store operations",
		},
		[]string{"operation", "result"},
	)

	sessionTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_session_transitions_total",
			Help: "Total number of session state transitions",
		},
		[]string{"state"},
	)
)

// ObserveBackendRequest records one backend call outcome.
// A status of 0 means the request never produced an HTTP response.
func ObserveBackendRequest(operation string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	backendRequestsTotal.WithLabelValues(operation, label).Inc()
	backendRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveCartOperation records one cart store operation outcome.
func ObserveCartOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	cartOperationsTotal.WithLabelValues(operation, result).Inc()
}

// ObserveSessionTransition records a session state transition.
func ObserveSessionTransition(state string) {
	sessionTransitionsTotal.WithLabelValues(state).Inc()
}
