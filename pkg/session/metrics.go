package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	noFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfacets_catalog_loads_total",
		Help: "The total number of catalog loads",
	})
	noFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfacets_catalog_load_failures_total",
		Help: "The total number of catalog loads that ended with an empty catalog due to an error",
	})
	noToggles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfacets_facet_toggles_total",
		Help: "The total number of processed facet toggles",
	})
	filteredItems = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "slaskfacets_filtered_items",
		Help:    "Number of products left after a facet toggle",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})
)
