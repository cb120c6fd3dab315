package amc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalsfoundry/linkadapt-simulator/model"
	"github.com/signalsfoundry/linkadapt-simulator/timectrl"
)

func newProbingAmc(t *testing.T, em ErrorModel, cfg model.ProbeConfig, seedCqi int) (*Amc, *timectrl.TimeController) {
	t.Helper()
	tc := timectrl.NewTimeController(time.Unix(0, 0), time.Millisecond)
	a, err := New(em,
		WithClock(tc),
		WithPolicy(model.CqiPolicyProbing),
	)
	require.NoError(t, err)
	require.NoError(t, a.EnableProbing(cfg, seedCqi))
	return a, tc
}

func probeCfg() model.ProbeConfig {
	return model.ProbeConfig{
		CqiGain:       2,
		StepDuration:  50 * time.Millisecond,
		StepFrequency: 500 * time.Millisecond,
	}
}

func TestProbingHoldsSeedBeforeFirstStep(t *testing.T) {
	a, _ := newProbingAmc(t, newStubModel(), probeCfg(), 7)

	sel, err := a.SelectCqiAndMcs(uniformSample(4, 10.0))
	require.NoError(t, err)
	assert.Equal(t, 7, sel.Cqi)
	// SE(CQI 7) = 1.4766 maps to MCS 11, which matches it exactly.
	assert.Equal(t, 11, sel.Mcs)
	assert.NotZero(t, sel.TbSize)
}

func TestProbingRaiseAndRevertCycle(t *testing.T) {
	a, tc := newProbingAmc(t, newStubModel(), probeCfg(), 7)
	sample := uniformSample(4, 10.0)

	// Spacing not yet exceeded: strict comparison keeps the baseline.
	tc.Advance(500 * time.Millisecond)
	sel, err := a.SelectCqiAndMcs(sample)
	require.NoError(t, err)
	assert.Equal(t, 7, sel.Cqi)

	// One more millisecond and the probe fires.
	tc.Advance(time.Millisecond)
	sel, err = a.SelectCqiAndMcs(sample)
	require.NoError(t, err)
	assert.Equal(t, 9, sel.Cqi)

	// Held for the step duration, then reverted.
	tc.Advance(49 * time.Millisecond)
	sel, err = a.SelectCqiAndMcs(sample)
	require.NoError(t, err)
	assert.Equal(t, 9, sel.Cqi)

	tc.Advance(time.Millisecond)
	sel, err = a.SelectCqiAndMcs(sample)
	require.NoError(t, err)
	assert.Equal(t, 7, sel.Cqi)

	snap := a.Metrics().Snapshot()
	assert.Equal(t, uint64(1), snap.NumProbeRaises)
	assert.Equal(t, uint64(1), snap.NumProbeReverts)
	assert.NotZero(t, snap.NumProbeWalkSteps)
}

func TestProbingClampsAtCqiCeiling(t *testing.T) {
	cfg := probeCfg()
	cfg.CqiGain = 5
	a, tc := newProbingAmc(t, newStubModel(), cfg, 14)
	sample := uniformSample(4, 10.0)

	tc.Advance(501 * time.Millisecond)
	sel, err := a.SelectCqiAndMcs(sample)
	require.NoError(t, err)
	assert.Equal(t, 15, sel.Cqi)

	// The revert subtracts the full gain from the clamped value.
	tc.Advance(50 * time.Millisecond)
	sel, err = a.SelectCqiAndMcs(sample)
	require.NoError(t, err)
	assert.Equal(t, 10, sel.Cqi)
}

func TestProbingWalkStopsAtTarget(t *testing.T) {
	em := newStubModel()
	// MCS 2 is the first candidate above the 0.1 walk threshold, so the
	// walk evaluates MCS 0, 1 and 2 and stops.
	em.blerFn = func(mcs, tbSize int) float64 { return 0.06 * float64(mcs) }

	a, tc := newProbingAmc(t, em, probeCfg(), 7)
	tc.Advance(501 * time.Millisecond)
	_, err := a.SelectCqiAndMcs(uniformSample(4, 10.0))
	require.NoError(t, err)

	snap := a.Metrics().Snapshot()
	assert.Equal(t, uint64(3), snap.NumProbeWalkSteps)
	assert.Equal(t, uint64(3), snap.NumPredictorEvals)
}

func TestProbingWalkSkipsEmptyAllocation(t *testing.T) {
	a, tc := newProbingAmc(t, newStubModel(), probeCfg(), 7)
	tc.Advance(501 * time.Millisecond)

	sel, err := a.SelectCqiAndMcs(uniformSample(4, 0.0))
	require.NoError(t, err)
	// The raise still happens; only the walk and TB sizing are skipped.
	assert.Equal(t, 9, sel.Cqi)
	assert.Zero(t, sel.TbSize)

	snap := a.Metrics().Snapshot()
	assert.Equal(t, uint64(1), snap.NumProbeRaises)
	assert.Zero(t, snap.NumProbeWalkSteps)
}

func TestEnableProbingIsOneShot(t *testing.T) {
	a, _ := newProbingAmc(t, newStubModel(), probeCfg(), 7)
	err := a.EnableProbing(probeCfg(), 3)
	assert.ErrorIs(t, err, ErrProbingActive)
}

func TestEnableProbingValidation(t *testing.T) {
	tc := timectrl.NewTimeController(time.Unix(0, 0), time.Millisecond)
	a, err := New(newStubModel(), WithClock(tc), WithPolicy(model.CqiPolicyProbing))
	require.NoError(t, err)

	bad := probeCfg()
	bad.CqiGain = 0
	assert.Error(t, a.EnableProbing(bad, 7))

	assert.ErrorIs(t, a.EnableProbing(probeCfg(), 16), ErrCqiRange)
	assert.ErrorIs(t, a.EnableProbing(probeCfg(), -1), ErrCqiRange)
}

func TestProbingPolicyRequiresClock(t *testing.T) {
	_, err := New(newStubModel(), WithPolicy(model.CqiPolicyProbing))
	assert.ErrorIs(t, err, ErrNoClock)
}

func TestProbingInactiveReportsHeldValue(t *testing.T) {
	tc := timectrl.NewTimeController(time.Unix(0, 0), time.Millisecond)
	a, err := New(newStubModel(), WithClock(tc), WithPolicy(model.CqiPolicyProbing))
	require.NoError(t, err)

	// Probing configured but never activated: the held CQI stays at its
	// zero value and no transition is evaluated, however far time moves.
	tc.Advance(time.Hour)
	sel, err := a.SelectCqiAndMcs(uniformSample(4, 10.0))
	require.NoError(t, err)
	assert.Equal(t, 0, sel.Cqi)
	assert.Equal(t, 0, sel.Mcs)

	snap := a.Metrics().Snapshot()
	assert.Zero(t, snap.NumProbeRaises)
}
