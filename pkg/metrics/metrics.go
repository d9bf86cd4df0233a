// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// TogglesTotal counts collection toggles by direction ("acquire",
	// "release").
	TogglesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "critterdex_collection_toggles_total",
			Help: "Number of collection toggle operations by direction.",
		},
		[]string{"direction"},
	)

	// ToggleErrorsTotal counts failed toggles by error kind.
	ToggleErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "critterdex_collection_toggle_errors_total",
			Help: "Number of failed collection toggle operations by kind.",
		},
		[]string{"kind"},
	)

	// CascadeSize observes how many species one cascading acquire touched.
	CascadeSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "critterdex_collection_cascade_size",
			Help:    "Number of species affected per cascading acquire.",
			Buckets: []float64{1, 2, 3, 4, 5, 8, 13},
		},
	)

	// RequestDuration observes HTTP request latency by method and status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "critterdex_http_request_duration_seconds",
			Help:    "Time taken to serve HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		TogglesTotal,
		ToggleErrorsTotal,
		CascadeSize,
		RequestDuration,
	)
}
