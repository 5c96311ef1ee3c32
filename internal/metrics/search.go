package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "glyphdex",
			Name:      "search_requests_total",
			Help:      "Total number of search requests by ranking mode",
		},
		[]string{"mode"}, // "hybrid" / "lexical" / "semantic" / "browse"
	)

	SearchDegradedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "glyphdex",
			Name:      "search_degraded_total",
			Help:      "Searches that lost the semantic signal and fell back to lexical ranking",
		},
		[]string{"reason"}, // "timeout" / "provider_error" / "budget" / "index_error"
	)

	SearchQuotaRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "glyphdex",
			Name:      "search_quota_rejected_total",
			Help:      "Search requests rejected by the daily usage guard",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDegradedTotal)
	prometheus.MustRegister(SearchQuotaRejectedTotal)
	searchMetricsRegistered = true
}
