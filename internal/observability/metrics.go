// Package observability holds the Prometheus metrics recorded for each
// reconciliation run and HTTP request.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal tracks reconciliation runs by mode and outcome
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoice_matcher_runs_total",
			Help: "Total number of reconciliation runs",
		},
		[]string{"mode", "outcome"},
	)

	// RecordsTotal tracks how records were classified
	RecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoice_matcher_records_total",
			Help: "Invoices and payments classified by reconciliation runs",
		},
		[]string{"kind", "group"},
	)

	// RunDuration tracks time spent matching
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "invoice_matcher_run_duration_seconds",
			Help:    "Reconciliation run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"mode"},
	)

	// HTTPRequestsTotal tracks API requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoice_matcher_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
)

// RunCounts is what a run contributes to RecordsTotal
type RunCounts struct {
	Matched           int
	UnmatchedInvoices int
	UnmatchedPayments int
	SkippedInvoices   int
	SkippedPayments   int
}

// ObserveRun records a completed run
func ObserveRun(mode string, d time.Duration, c RunCounts) {
	RunsTotal.WithLabelValues(mode, "success").Inc()
	RunDuration.WithLabelValues(mode).Observe(d.Seconds())

	RecordsTotal.WithLabelValues("invoice", "matched").Add(float64(c.Matched))
	RecordsTotal.WithLabelValues("payment", "matched").Add(float64(c.Matched))
	RecordsTotal.WithLabelValues("invoice", "unmatched").Add(float64(c.UnmatchedInvoices))
	RecordsTotal.WithLabelValues("payment", "unmatched").Add(float64(c.UnmatchedPayments))
	RecordsTotal.WithLabelValues("invoice", "skipped").Add(float64(c.SkippedInvoices))
	RecordsTotal.WithLabelValues("payment", "skipped").Add(float64(c.SkippedPayments))
}

// ObserveRunFailure records a run that returned an error
func ObserveRunFailure(mode string) {
	RunsTotal.WithLabelValues(mode, "error").Inc()
}
