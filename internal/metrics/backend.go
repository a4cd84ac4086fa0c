package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Recommendation backend Prometheus metrics.
var (
	BackendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "autoadvisor",
			Name:      "backend_requests_total",
			Help:      "Total number of recommendation backend requests by outcome",
		},
		[]string{"operation", "outcome"},
	)

	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "autoadvisor",
			Name:      "backend_request_duration_seconds",
			Help:      "Recommendation backend request duration in seconds",
			// LLM-backed search routinely takes tens of seconds.
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30, 60, 90, 120},
		},
		[]string{"operation"},
	)

	RecommendationsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "autoadvisor",
			Name:      "recommendations_returned",
			Help:      "Number of recommendations in a successful search response",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20},
		},
	)
)

// Backend request outcomes.
const (
	OutcomeSuccess        = "success"
	OutcomeTimeout        = "timeout"
	OutcomeBackendError   = "backend_error"
	OutcomeMalformed      = "malformed"
	OutcomeTransportError = "transport_error"
)

var registerBackendOnce sync.Once

// RegisterBackendMetrics registers backend metrics on the default registry. Safe to call more than once.
func RegisterBackendMetrics() {
	registerBackendOnce.Do(func() {
		prometheus.MustRegister(BackendRequestsTotal)
		prometheus.MustRegister(BackendRequestDuration)
		prometheus.MustRegister(RecommendationsReturned)
	})
}
