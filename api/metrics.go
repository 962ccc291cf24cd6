package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricSearches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studio_finder",
			Name:      "searches_total",
			Help:      "Searches served, by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	metricResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "studio_finder",
			Name:      "search_results",
			Help:      "Number of matches returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"mode"},
	)

	metricSearchSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "studio_finder",
			Name:      "search_duration_seconds",
			Help:      "Wall time of a search including the row fetch",
			Buckets:   prometheus.DefBuckets,
		},
	)
)
