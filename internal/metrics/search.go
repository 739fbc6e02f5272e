package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and catalog-load Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prodex",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"mode", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "prodex",
			Name:      "search_duration_seconds",
			Help:      "Search execution time in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"mode"},
	)

	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "prodex",
			Name:      "search_results",
			Help:      "Number of hits returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		},
		[]string{"mode"},
	)

	CatalogLoadTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prodex",
			Name:      "catalog_load_products_total",
			Help:      "Products processed by the load pipeline",
		},
		[]string{"status"}, // "succeeded" / "failed"
	)

	CatalogLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "prodex",
			Name:      "catalog_load_duration_seconds",
			Help:      "Full catalog load duration in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search and pipeline metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchResults)
	prometheus.MustRegister(CatalogLoadTotal)
	prometheus.MustRegister(CatalogLoadDuration)
	searchMetricsRegistered = true
}
