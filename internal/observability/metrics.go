package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// total requests per endpoint, method and status code
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_requests_total",
			Help: "Total API requests received",
		},
		[]string{"endpoint", "method", "status"},
	)

	// request latency in seconds per endpoint/method
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_request_duration_seconds",
			Help:    "Histogram of request latencies",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	// wizard step advances, labelled by outcome (advanced/blocked)
	WizardAdvanceCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_wizard_advances_total",
			Help: "Total wizard step advance attempts",
		},
		[]string{"result"},
	)

	// per-field validation failures recorded while gating step advancement
	ValidationFailureCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_validation_failures_total",
			Help: "Total field validation failures",
		},
		[]string{"field"},
	)

	// reference data batch loads, labelled by outcome (ok/error)
	RefDataLoadCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_refdata_loads_total",
			Help: "Total reference data batch loads",
		},
		[]string{"result"},
	)

	// reference data batch load latency
	RefDataLoadLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "console_refdata_load_duration_seconds",
			Help:    "Histogram of reference data load latencies",
			Buckets: prometheus.DefBuckets,
		},
	)

	// campaign/creative submissions, labelled by outcome
	SubmissionCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_submissions_total",
			Help: "Total wizard submissions",
		},
		[]string{"result"},
	)

	// file uploads per category and outcome
	UploadCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_uploads_total",
			Help: "Total file uploads",
		},
		[]string{"category", "result"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestCount,
		RequestLatency,
		WizardAdvanceCount,
		ValidationFailureCount,
		RefDataLoadCount,
		RefDataLoadLatency,
		SubmissionCount,
		UploadCount,
	)
}
