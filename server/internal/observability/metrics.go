package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics aggregates chat and document counters per operation. Counters only;
// percentile breakdowns belong to an external system.
type Metrics struct {
	mu sync.Mutex

	requestTotal  atomic.Int64
	requestFailed atomic.Int64
	llmCalls      atomic.Int64
	llmFailures   atomic.Int64

	operations map[string]*OperationMetrics
}

// OperationMetrics holds counters for one named operation.
type OperationMetrics struct {
	count         atomic.Int64
	errorCount    atomic.Int64
	totalDuration atomic.Int64 // milliseconds
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{operations: make(map[string]*OperationMetrics)}
}

var globalMetrics = NewMetrics()

// GlobalMetrics returns the process-wide metrics instance.
func GlobalMetrics() *Metrics {
	return globalMetrics
}

// RecordRequest records an incoming request for an operation.
func (m *Metrics) RecordRequest(operation string) {
	m.requestTotal.Add(1)
	m.getOperation(operation).count.Add(1)
}

// RecordFailure records a failed request for an operation.
func (m *Metrics) RecordFailure(operation string) {
	m.requestFailed.Add(1)
	m.getOperation(operation).errorCount.Add(1)
}

// RecordDuration records how long an operation took.
func (m *Metrics) RecordDuration(operation string, duration time.Duration) {
	m.getOperation(operation).totalDuration.Add(duration.Milliseconds())
}

// RecordLLMCall records a model invocation and whether it failed.
func (m *Metrics) RecordLLMCall(failed bool) {
	m.llmCalls.Add(1)
	if failed {
		m.llmFailures.Add(1)
	}
}

func (m *Metrics) getOperation(operation string) *OperationMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	om, ok := m.operations[operation]
	if !ok {
		om = &OperationMetrics{}
		m.operations[operation] = om
	}
	return om
}

// Snapshot returns a point-in-time copy of all counters.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	ops := make(map[string]*OperationSnapshot, len(m.operations))
	for name, om := range m.operations {
		count := om.count.Load()
		snap := &OperationSnapshot{
			Count:         count,
			ErrorCount:    om.errorCount.Load(),
			TotalDuration: om.totalDuration.Load(),
		}
		if count > 0 {
			snap.AverageDuration = snap.TotalDuration / count
		}
		ops[name] = snap
	}

	return &MetricsSnapshot{
		RequestTotal:  m.requestTotal.Load(),
		RequestFailed: m.requestFailed.Load(),
		LLMCalls:      m.llmCalls.Load(),
		LLMFailures:   m.llmFailures.Load(),
		Operations:    ops,
	}
}

// Reset clears all counters. Test helper.
func (m *Metrics) Reset() {
	m.requestTotal.Store(0)
	m.requestFailed.Store(0)
	m.llmCalls.Store(0)
	m.llmFailures.Store(0)

	m.mu.Lock()
	m.operations = make(map[string]*OperationMetrics)
	m.mu.Unlock()
}

// MetricsSnapshot is a point-in-time copy of the collector state.
type MetricsSnapshot struct {
	RequestTotal  int64                         `json:"requestTotal"`
	RequestFailed int64                         `json:"requestFailed"`
	LLMCalls      int64                         `json:"llmCalls"`
	LLMFailures   int64                         `json:"llmFailures"`
	Operations    map[string]*OperationSnapshot `json:"operations"`
}

// OperationSnapshot is the per-operation slice of a snapshot.
type OperationSnapshot struct {
	Count           int64 `json:"count"`
	ErrorCount      int64 `json:"errorCount"`
	TotalDuration   int64 `json:"totalDurationMs"`
	AverageDuration int64 `json:"averageDurationMs"`
}

// SuccessRate returns the success rate as a percentage (0-100).
func (s *MetricsSnapshot) SuccessRate() float64 {
	if s.RequestTotal == 0 {
		return 100.0
	}
	return float64(s.RequestTotal-s.RequestFailed) / float64(s.RequestTotal) * 100.0
}
