package observability

import "sync"

// Metrics provides basic in-memory counters for assignment activity.
type Metrics struct {
	mu          sync.Mutex
	assignments map[string]int64
	resolutions int64
	errorCount  map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		assignments: make(map[string]int64),
		errorCount:  make(map[string]int64),
	}
}

// RecordAssignment increments the counter for an assignment outcome.
func (m *Metrics) RecordAssignment(outcome string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[outcome]++
}

// RecordResolution increments the resolution counter.
func (m *Metrics) RecordResolution() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolutions++
}

// RecordError increments error counters keyed by operation and code.
func (m *Metrics) RecordError(operation, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[operation+"|"+code]++
}

// AssignmentCount returns the count recorded for an outcome.
func (m *Metrics) AssignmentCount(outcome string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assignments[outcome]
}

// ResolutionCount returns the number of resolutions recorded.
func (m *Metrics) ResolutionCount() int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolutions
}

// Snapshot copies all counters for reporting.
func (m *Metrics) Snapshot() map[string]int64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.assignments)+len(m.errorCount)+1)
	for outcome, count := range m.assignments {
		out["assignments|"+outcome] = count
	}
	for key, count := range m.errorCount {
		out["errors|"+key] = count
	}
	out["resolutions"] = m.resolutions
	return out
}
