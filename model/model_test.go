package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAllocationMap(t *testing.T) {
	tests := []struct {
		name   string
		sample ChannelQualitySample
		want   AllocationMap
	}{
		{"all allocated", ChannelQualitySample{1, 2, 3}, AllocationMap{0, 1, 2}},
		{"sparse", ChannelQualitySample{0, 5.5, 0, 0.1}, AllocationMap{1, 3}},
		{"all zero", ChannelQualitySample{0, 0, 0}, AllocationMap{}},
		{"empty", nil, AllocationMap{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BuildAllocationMap(tc.sample))
		})
	}
}

func TestParseAmcModel(t *testing.T) {
	m, err := ParseAmcModel("shannon")
	require.NoError(t, err)
	assert.Equal(t, AmcModelShannon, m)

	m, err = ParseAmcModel("error-driven")
	require.NoError(t, err)
	assert.Equal(t, AmcModelErrorDriven, m)

	_, err = ParseAmcModel("")
	assert.Error(t, err)
	_, err = ParseAmcModel("Shannon")
	assert.Error(t, err)
}

func TestParseCqiPolicy(t *testing.T) {
	for _, s := range []string{"legacy", "fixed-target", "exponential", "hybrid", "probing"} {
		p, err := ParseCqiPolicy(s)
		require.NoError(t, err)
		assert.Equal(t, CqiPolicy(s), p)
	}
	_, err := ParseCqiPolicy("adaptive")
	assert.Error(t, err)
}

func TestParseDirection(t *testing.T) {
	for _, s := range []string{"downlink", "dl", ""} {
		d, err := ParseDirection(s)
		require.NoError(t, err)
		assert.Equal(t, DirectionDownlink, d)
	}
	for _, s := range []string{"uplink", "ul"} {
		d, err := ParseDirection(s)
		require.NoError(t, err)
		assert.Equal(t, DirectionUplink, d)
	}
	_, err := ParseDirection("sideways")
	assert.Error(t, err)
}

func TestProbeConfigValidate(t *testing.T) {
	good := ProbeConfig{CqiGain: 3, StepDuration: 50 * time.Millisecond, StepFrequency: time.Second}
	assert.NoError(t, good.Validate())

	tests := []struct {
		name string
		cfg  ProbeConfig
	}{
		{"zero gain", ProbeConfig{CqiGain: 0, StepDuration: time.Second, StepFrequency: time.Second}},
		{"gain too large", ProbeConfig{CqiGain: 16, StepDuration: time.Second, StepFrequency: time.Second}},
		{"zero duration", ProbeConfig{CqiGain: 1, StepFrequency: time.Second}},
		{"zero frequency", ProbeConfig{CqiGain: 1, StepDuration: time.Second}},
		{"negative duration", ProbeConfig{CqiGain: 1, StepDuration: -time.Second, StepFrequency: time.Second}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.cfg.Validate())
		})
	}
}
