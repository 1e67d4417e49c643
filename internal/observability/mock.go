package observability

import (
	"sync"
	"time"
)

// MockMetricsRegistry is a MetricsRegistry for tests. It records counts so
// assertions can check what was emitted.
type MockMetricsRegistry struct {
	mu                 sync.Mutex
	Requests           map[string]int
	WizardAdvances     map[string]int
	ValidationFailures map[string]int
	RefDataLoads       map[string]int
	Submissions        map[string]int
	Uploads            map[string]int
}

// NewMockMetricsRegistry creates a MockMetricsRegistry with initialized maps.
func NewMockMetricsRegistry() *MockMetricsRegistry {
	return &MockMetricsRegistry{
		Requests:           make(map[string]int),
		WizardAdvances:     make(map[string]int),
		ValidationFailures: make(map[string]int),
		RefDataLoads:       make(map[string]int),
		Submissions:        make(map[string]int),
		Uploads:            make(map[string]int),
	}
}

func (m *MockMetricsRegistry) inc(dst map[string]int, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dst[key]++
}

func (m *MockMetricsRegistry) IncrementRequests(endpoint, method, status string) {
	m.inc(m.Requests, endpoint+" "+method+" "+status)
}

func (m *MockMetricsRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {}

func (m *MockMetricsRegistry) IncrementWizardAdvance(result string) {
	m.inc(m.WizardAdvances, result)
}

func (m *MockMetricsRegistry) IncrementValidationFailure(field string) {
	m.inc(m.ValidationFailures, field)
}

func (m *MockMetricsRegistry) IncrementRefDataLoad(result string) {
	m.inc(m.RefDataLoads, result)
}

func (m *MockMetricsRegistry) RecordRefDataLoadLatency(duration time.Duration) {}

func (m *MockMetricsRegistry) IncrementSubmission(result string) {
	m.inc(m.Submissions, result)
}

func (m *MockMetricsRegistry) IncrementUpload(category, result string) {
	m.inc(m.Uploads, category+" "+result)
}
