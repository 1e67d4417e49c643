package observability

import "time"

// MetricsRegistry provides an interface for recording application metrics.
// Components receive it by injection instead of touching the global
// Prometheus collectors directly.
type MetricsRegistry interface {
	// HTTP request metrics
	IncrementRequests(endpoint, method, status string)
	RecordRequestLatency(endpoint, method string, duration time.Duration)

	// Wizard metrics
	IncrementWizardAdvance(result string)
	IncrementValidationFailure(field string)

	// Reference data metrics
	IncrementRefDataLoad(result string)
	RecordRefDataLoadLatency(duration time.Duration)

	// Submission and upload metrics
	IncrementSubmission(result string)
	IncrementUpload(category, result string)
}

// PrometheusRegistry implements MetricsRegistry using the package's
// registered Prometheus collectors.
type PrometheusRegistry struct{}

// NewPrometheusRegistry creates a new PrometheusRegistry
func NewPrometheusRegistry() *PrometheusRegistry {
	return &PrometheusRegistry{}
}

func (r *PrometheusRegistry) IncrementRequests(endpoint, method, status string) {
	RequestCount.WithLabelValues(endpoint, method, status).Inc()
}

func (r *PrometheusRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {
	RequestLatency.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

func (r *PrometheusRegistry) IncrementWizardAdvance(result string) {
	WizardAdvanceCount.WithLabelValues(result).Inc()
}

func (r *PrometheusRegistry) IncrementValidationFailure(field string) {
	ValidationFailureCount.WithLabelValues(field).Inc()
}

func (r *PrometheusRegistry) IncrementRefDataLoad(result string) {
	RefDataLoadCount.WithLabelValues(result).Inc()
}

func (r *PrometheusRegistry) RecordRefDataLoadLatency(duration time.Duration) {
	RefDataLoadLatency.Observe(duration.Seconds())
}

func (r *PrometheusRegistry) IncrementSubmission(result string) {
	SubmissionCount.WithLabelValues(result).Inc()
}

func (r *PrometheusRegistry) IncrementUpload(category, result string) {
	UploadCount.WithLabelValues(category, result).Inc()
}
