package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ReadingsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "readings_submitted_total",
			Help: "Total number of nozzle reading submissions accepted",
		},
	)

	ReconcileRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_reconcile_runs_total",
			Help: "Total reconciliation runs by outcome",
		},
		[]string{"outcome"}, // applied, skipped_absent, skipped_locked, error
	)

	ReportsEmailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reports_emailed_total",
			Help: "Total report emails by kind and result",
		},
		[]string{"kind", "result"}, // kind: daily, monthly; result: sent, failed
	)
)
