package amc

import "sync"

// DecisionMetrics tracks in-memory counters for AMC decisions. All counters
// are concurrency-safe so external exporters can read them while a
// simulation is running.
type DecisionMetrics struct {
	mu sync.Mutex

	NumDecisions      uint64
	NumCqiFloor       uint64 // decisions that reported CQI 0
	NumCqiCeiling     uint64 // decisions that reported CQI 15
	NumPredictorEvals uint64 // error-model invocations across all loops

	// Probing policy activity.
	NumProbeRaises    uint64
	NumProbeReverts   uint64
	NumProbeWalkSteps uint64
}

// NewDecisionMetrics creates a DecisionMetrics with all counters at zero.
func NewDecisionMetrics() *DecisionMetrics {
	return &DecisionMetrics{}
}

// IncDecisions increments the decision counter.
func (m *DecisionMetrics) IncDecisions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NumDecisions++
}

// IncCqiFloor increments the CQI-0 outcome counter.
func (m *DecisionMetrics) IncCqiFloor() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NumCqiFloor++
}

// IncCqiCeiling increments the CQI-15 outcome counter.
func (m *DecisionMetrics) IncCqiCeiling() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NumCqiCeiling++
}

// IncPredictorEvals increments the predictor invocation counter.
func (m *DecisionMetrics) IncPredictorEvals() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NumPredictorEvals++
}

// IncProbeRaise counts an OUT_STEP to IN_STEP transition.
func (m *DecisionMetrics) IncProbeRaise() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NumProbeRaises++
}

// IncProbeRevert counts an IN_STEP to OUT_STEP transition.
func (m *DecisionMetrics) IncProbeRevert() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NumProbeReverts++
}

// IncProbeWalkSteps counts one candidate evaluated by the probe walk.
func (m *DecisionMetrics) IncProbeWalkSteps() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NumProbeWalkSteps++
}

// DecisionMetricsSnapshot is a point-in-time copy of the counters, safe to
// read without holding the mutex.
type DecisionMetricsSnapshot struct {
	NumDecisions      uint64
	NumCqiFloor       uint64
	NumCqiCeiling     uint64
	NumPredictorEvals uint64
	NumProbeRaises    uint64
	NumProbeReverts   uint64
	NumProbeWalkSteps uint64
}

// Snapshot returns a copy of the current counter values.
func (m *DecisionMetrics) Snapshot() DecisionMetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return DecisionMetricsSnapshot{
		NumDecisions:      m.NumDecisions,
		NumCqiFloor:       m.NumCqiFloor,
		NumCqiCeiling:     m.NumCqiCeiling,
		NumPredictorEvals: m.NumPredictorEvals,
		NumProbeRaises:    m.NumProbeRaises,
		NumProbeReverts:   m.NumProbeReverts,
		NumProbeWalkSteps: m.NumProbeWalkSteps,
	}
}
