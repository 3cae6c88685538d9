package metrics

import "github.com/prometheus/client_golang/prometheus"

// Resolution Prometheus metrics.
var (
	ResolveRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalogd",
			Name:      "resolve_requests_total",
			Help:      "Total number of resolve requests",
		},
		[]string{"kind", "status"},
	)

	ResolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catalogd",
			Name:      "resolve_duration_seconds",
			Help:      "Resolve request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"kind"},
	)

	ResolveMatchesReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catalogd",
			Name:      "resolve_matches_returned",
			Help:      "Number of matches returned per resolve request",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
		[]string{"kind"},
	)

	ResolveEmptyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalogd",
			Name:      "resolve_empty_total",
			Help:      "Resolve requests that returned no matches",
		},
		[]string{"kind"},
	)
)

var resolveMetricsRegistered bool

// RegisterResolveMetrics registers Prometheus resolve metrics. Must be called once from main.
func RegisterResolveMetrics() {
	if resolveMetricsRegistered {
		return
	}
	prometheus.MustRegister(ResolveRequestsTotal)
	prometheus.MustRegister(ResolveDuration)
	prometheus.MustRegister(ResolveMatchesReturned)
	prometheus.MustRegister(ResolveEmptyTotal)
	resolveMetricsRegistered = true
}
