package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slaskfacets_active_sessions",
		Help: "Number of browsing sessions held in memory",
	})
	noRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskfacets_api_requests_total",
		Help: "The total number of api requests",
	}, []string{"endpoint"})
)
