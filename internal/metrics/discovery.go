package metrics

import "github.com/prometheus/client_golang/prometheus"

// Discovery Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mechfind",
			Name:      "searches_total",
			Help:      "Total number of provider searches",
		},
		[]string{"sort", "status"},
	)

	SearchFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mechfind",
			Name:      "search_fallbacks_total",
			Help:      "Distance sorts served by rating because no origin was given",
		},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mechfind",
			Name:      "search_results",
			Help:      "Number of providers returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		},
	)

	StoreFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mechfind",
			Name:      "store_fetch_duration_seconds",
			Help:      "Provider store fetch duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"backend", "method", "status"},
	)

	StoreCandidates = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mechfind",
			Name:      "store_candidates",
			Help:      "Number of candidate providers returned by a store fetch",
			Buckets:   []float64{0, 10, 50, 100, 500, 1000, 5000, 10000},
		},
		[]string{"backend", "method"},
	)

	CoalescedFetchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mechfind",
			Name:      "store_coalesced_fetches_total",
			Help:      "Store fetches whose result was shared with concurrent callers",
		},
	)
)

var discoveryMetricsRegistered bool

// RegisterDiscoveryMetrics registers Prometheus discovery metrics. Must be called once from main.
func RegisterDiscoveryMetrics() {
	if discoveryMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchFallbacksTotal)
	prometheus.MustRegister(SearchResults)
	prometheus.MustRegister(StoreFetchDuration)
	prometheus.MustRegister(StoreCandidates)
	prometheus.MustRegister(CoalescedFetchesTotal)
	discoveryMetricsRegistered = true
}
