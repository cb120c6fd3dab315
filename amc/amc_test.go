package amc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalsfoundry/linkadapt-simulator/model"
)

func TestNewValidatesConfiguration(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilErrorModel)

	_, err = New(newStubModel(), WithModel(model.AmcModel("guesswork")))
	assert.Error(t, err)

	_, err = New(newStubModel(), WithPolicy(model.CqiPolicy("dartboard")))
	assert.Error(t, err)

	_, err = New(newStubModel(), WithBlerTarget(0))
	assert.Error(t, err)
	_, err = New(newStubModel(), WithBlerTarget(1))
	assert.Error(t, err)

	_, err = New(newStubModel(), WithUsableSubcarriers(0))
	assert.Error(t, err)
}

func TestShannonModelIgnoresPredictor(t *testing.T) {
	em := newStubModel()
	em.blerFn = func(mcs, tbSize int) float64 {
		t.Fatal("shannon model must not consult the error model predictor")
		return 0
	}

	a, err := New(em, WithModel(model.AmcModelShannon))
	require.NoError(t, err)

	sel, err := a.SelectCqiAndMcs(uniformSample(6, 50.0))
	require.NoError(t, err)
	assert.Positive(t, sel.Cqi)
	assert.Positive(t, sel.TbSize)
	assert.Zero(t, sel.Bler)
	assert.Zero(t, a.Metrics().Snapshot().NumPredictorEvals)
}

func TestShannonModelSaturatesOnStrongChannel(t *testing.T) {
	a, err := New(newStubModel(), WithModel(model.AmcModelShannon))
	require.NoError(t, err)

	sel, err := a.SelectCqiAndMcs(uniformSample(6, 10000.0))
	require.NoError(t, err)
	assert.Equal(t, 15, sel.Cqi)
	assert.Equal(t, newStubModel().MaxMcs(), sel.Mcs)
	assert.Equal(t, uint64(1), a.Metrics().Snapshot().NumCqiCeiling)
}

func TestShannonModelFloorsOnSilentChannel(t *testing.T) {
	a, err := New(newStubModel(), WithModel(model.AmcModelShannon))
	require.NoError(t, err)

	sel, err := a.SelectCqiAndMcs(uniformSample(6, 0.0))
	require.NoError(t, err)
	assert.Equal(t, Selection{}, sel)
	assert.Equal(t, uint64(1), a.Metrics().Snapshot().NumCqiFloor)
}

func TestShannonModelSkipsZeroSubbands(t *testing.T) {
	a, err := New(newStubModel(), WithModel(model.AmcModelShannon))
	require.NoError(t, err)

	// Zero subbands are unallocated, not zero-SINR: the average must not
	// be dragged down by them.
	mixed := model.ChannelQualitySample{50.0, 0, 50.0, 0, 50.0, 0}
	full := uniformSample(3, 50.0)

	selMixed, err := a.SelectCqiAndMcs(mixed)
	require.NoError(t, err)
	selFull, err := a.SelectCqiAndMcs(full)
	require.NoError(t, err)
	assert.Equal(t, selFull.Cqi, selMixed.Cqi)
	assert.Equal(t, selFull.Mcs, selMixed.Mcs)
	assert.Equal(t, selFull.TbSize, selMixed.TbSize)
}

func TestSetPolicyRebindsSelection(t *testing.T) {
	em := newStubModel()
	em.blerFn = func(mcs, tbSize int) float64 { return 0.02 * float64(mcs) }
	sample := uniformSample(4, 10.0)

	a, err := New(em)
	require.NoError(t, err)

	sel, err := a.SelectCqiAndMcs(sample)
	require.NoError(t, err)
	assert.Equal(t, 5, sel.Mcs)

	require.NoError(t, a.SetBlerTarget(0.05))
	require.NoError(t, a.SetPolicy(model.CqiPolicyFixedTarget))
	sel, err = a.SelectCqiAndMcs(sample)
	require.NoError(t, err)
	assert.Equal(t, 2, sel.Mcs)

	assert.Error(t, a.SetPolicy(model.CqiPolicy("dartboard")))
	assert.ErrorIs(t, a.SetPolicy(model.CqiPolicyProbing), ErrNoClock)
}

func TestSetModelSwitchesFamilies(t *testing.T) {
	em := newStubModel()
	em.blerFn = func(mcs, tbSize int) float64 { return 0.02 * float64(mcs) }

	a, err := New(em)
	require.NoError(t, err)
	require.NoError(t, a.SetModel(model.AmcModelShannon))

	before := a.Metrics().Snapshot().NumPredictorEvals
	_, err = a.SelectCqiAndMcs(uniformSample(4, 10.0))
	require.NoError(t, err)
	assert.Equal(t, before, a.Metrics().Snapshot().NumPredictorEvals)

	assert.Error(t, a.SetModel(model.AmcModel("guesswork")))
}
