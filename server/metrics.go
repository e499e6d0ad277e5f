package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexbench",
		Name:      "runs_total",
		Help:      "Completed benchmark runs by method, distribution and outcome.",
	}, []string{"method", "distribution", "outcome"})

	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "indexbench",
		Name:      "run_duration_seconds",
		Help:      "End-to-end benchmark run duration.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"method", "distribution"})

	generationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexbench",
		Name:      "generations_total",
		Help:      "Dataset generations by distribution.",
	}, []string{"distribution"})
)
