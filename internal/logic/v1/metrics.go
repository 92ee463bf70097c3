package v1

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	importRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "directory",
			Name:      "import_rows_total",
			Help:      "Bulk import rows by outcome",
		},
		[]string{"result"},
	)

	listingResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "directory",
			Name:      "listing_results",
			Help:      "Number of profiles matching a listing query",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		},
	)
)
