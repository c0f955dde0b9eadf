package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelOutcome = "outcome"

	OutcomeSuccess           = "success"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeAlreadyReturned   = "already_returned"
	OutcomeRejected          = "rejected"
	OutcomeError             = "error"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invenedu_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "invenedu_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "invenedu_http_requests_in_flight",
			Help: "Number of HTTP requests being served",
		},
	)
)

// Business Metrics
var (
	IssuancesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invenedu_issuances_total",
			Help: "Issue attempts by outcome",
		},
		[]string{LabelOutcome},
	)

	ReturnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invenedu_returns_total",
			Help: "Return attempts by outcome",
		},
		[]string{LabelOutcome},
	)

	UnitsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "invenedu_units_issued_total",
			Help: "Units removed from stock by committed issuances",
		},
	)

	UnitsReturned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "invenedu_units_returned_total",
			Help: "Units restored to stock by committed returns",
		},
	)
)
