package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCheckMetrics() {
	r.ChecksTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "archcheck_checks_total",
			Help: "Total number of conformance checks executed",
		},
		[]string{"status"},
	)

	r.CheckDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "archcheck_check_duration_seconds",
			Help:    "Conformance check duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)

	r.ViolationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "archcheck_violations_total",
			Help: "Total number of violations found, by kind",
		},
		[]string{"kind"},
	)

	r.GraphModules = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "archcheck_graph_modules",
			Help:    "Number of modules per checked graph",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000},
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "archcheck_graph_edges",
			Help:    "Number of dependency edges per checked graph",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		},
	)
}
