package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repfeed_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "repfeed_http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "route"},
	)

	ParseCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repfeed_parses_total",
			Help: "Total number of parse operations by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	ExercisesPerParse = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "repfeed_parse_exercises",
			Help:    "Number of exercises found per parse",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
		},
		[]string{"source"},
	)

	FetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repfeed_fetch_failures_total",
			Help: "Recovered failures of external metadata and title fetches",
		},
		[]string{"kind"},
	)
)
