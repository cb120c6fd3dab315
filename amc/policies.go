package amc

import (
	"math"

	"github.com/signalsfoundry/linkadapt-simulator/model"
)

// legacyBlerTarget is the historical fixed target. It also governs the
// probing policy's candidate walk regardless of the configured policy.
const legacyBlerTarget = 0.1

// hybridCrossoverDb is the effective SINR above which the hybrid policy
// switches from the exponential target to the configured fixed one.
const hybridCrossoverDb = 10.0

func (a *Amc) legacyTarget(_ model.ChannelQualitySample, _ model.AllocationMap, _ int) (float64, error) {
	return legacyBlerTarget, nil
}

func (a *Amc) fixedTarget(_ model.ChannelQualitySample, _ model.AllocationMap, _ int) (float64, error) {
	return a.blerTarget, nil
}

// exponentialTarget relaxes the acceptable BLER as the channel worsens:
// 0.3*exp(-0.08*effSinrDb). A strong channel gets a tight target, a weak one
// a loose target so that low MCS values remain usable.
func (a *Amc) exponentialTarget(sample model.ChannelQualitySample, alloc model.AllocationMap, mcs int) (float64, error) {
	effDb, err := effectiveSinrDb(sample, alloc, mcs)
	if err != nil {
		return 0, err
	}
	return exponentialBler(effDb), nil
}

// hybridTarget uses the exponential target in the low-SINR regime and the
// configured fixed target above the crossover.
func (a *Amc) hybridTarget(sample model.ChannelQualitySample, alloc model.AllocationMap, mcs int) (float64, error) {
	effDb, err := effectiveSinrDb(sample, alloc, mcs)
	if err != nil {
		return 0, err
	}
	if effDb <= hybridCrossoverDb {
		return exponentialBler(effDb), nil
	}
	return a.blerTarget, nil
}

func exponentialBler(effSinrDb float64) float64 {
	return 0.3 * math.Exp(-0.08*effSinrDb)
}
