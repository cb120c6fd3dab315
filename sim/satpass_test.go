package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Canonical sample TLE (ISS, 2008). Any well-formed element set works here;
// the trace only needs a plausible orbit.
const (
	testTle1 = "1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927"
	testTle2 = "2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563537"
)

func testPassConfig() SatPassConfig {
	return SatPassConfig{
		TLE1:    testTle1,
		TLE2:    testTle2,
		GroundX: 1113.0,
		GroundY: -4843.0,
		GroundZ: 3983.0,
		Start:   time.Date(2008, time.September, 20, 12, 0, 0, 0, time.UTC),
		Tick:    time.Second,
		Ticks:   30,
		NumRb:   25,
		// Keep the satellite "visible" for the whole run so every sample
		// carries an allocation.
		MinElevationDeg: -90,
		RippleDb:        3,
	}
}

func TestGenerateSinrTraceDimensions(t *testing.T) {
	cfg := testPassConfig()
	trace, err := GenerateSinrTrace(cfg)
	require.NoError(t, err)
	require.Len(t, trace, cfg.Ticks)
	for i, sample := range trace {
		assert.Len(t, sample, cfg.NumRb, "tick %d", i)
	}
}

func TestGenerateSinrTraceVisibleSamplesArePositive(t *testing.T) {
	trace, err := GenerateSinrTrace(testPassConfig())
	require.NoError(t, err)
	for i, sample := range trace {
		for rb, sinr := range sample {
			assert.Positive(t, sinr, "tick %d rb %d", i, rb)
		}
	}
}

func TestGenerateSinrTraceHorizonGate(t *testing.T) {
	cfg := testPassConfig()
	// An impossible elevation keeps the satellite "invisible" everywhere.
	cfg.MinElevationDeg = 91
	trace, err := GenerateSinrTrace(cfg)
	require.NoError(t, err)
	for i, sample := range trace {
		for rb, sinr := range sample {
			assert.Zero(t, sinr, "tick %d rb %d", i, rb)
		}
	}
}

func TestGenerateSinrTraceDeterministic(t *testing.T) {
	a, err := GenerateSinrTrace(testPassConfig())
	require.NoError(t, err)
	b, err := GenerateSinrTrace(testPassConfig())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateSinrTraceRippleVariesAcrossRbs(t *testing.T) {
	trace, err := GenerateSinrTrace(testPassConfig())
	require.NoError(t, err)

	sample := trace[0]
	first := sample[0]
	varies := false
	for _, sinr := range sample[1:] {
		if sinr != first {
			varies = true
			break
		}
	}
	assert.True(t, varies, "ripple must produce a frequency-selective sample")
}

func TestGenerateSinrTraceValidation(t *testing.T) {
	base := testPassConfig()

	cfg := base
	cfg.TLE1 = ""
	_, err := GenerateSinrTrace(cfg)
	assert.Error(t, err)

	cfg = base
	cfg.Ticks = 0
	_, err = GenerateSinrTrace(cfg)
	assert.Error(t, err)

	cfg = base
	cfg.Tick = 0
	_, err = GenerateSinrTrace(cfg)
	assert.Error(t, err)

	cfg = base
	cfg.NumRb = 0
	_, err = GenerateSinrTrace(cfg)
	assert.Error(t, err)
}
