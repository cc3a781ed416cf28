package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	simulationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wishsim_simulations_total",
			Help: "Simulation requests by outcome.",
		},
		[]string{"status"},
	)

	simulationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wishsim_simulation_duration_seconds",
			Help:    "Wall time of one simulation batch.",
			Buckets: prometheus.DefBuckets,
		},
	)

	trialsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wishsim_trials_total",
			Help: "Monte Carlo trials executed.",
		},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wishsim_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)
)
