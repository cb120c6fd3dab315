package phy

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/linkadapt-simulator/model"
)

// Turbo-code style limits used by the coded model.
const (
	// maxCodeBlockBits caps a single code block; larger transport blocks
	// are segmented and carry per-block parity.
	maxCodeBlockBits = 6144
)

// CodedModel is the non-legacy error model: block error rates come from a
// per-MCS waterfall curve evaluated at the effective SINR, and transport
// blocks above the code-block limit are segmented, each segment failing
// independently. Transport-block sizing against this model subtracts
// per-block parity (see the AMC core's CalculateTbSize).
type CodedModel struct{}

// NewCodedModel returns the segmentation-aware coded error model.
func NewCodedModel() *CodedModel { return &CodedModel{} }

// Legacy reports that this model requires parity subtraction in TB sizing.
func (m *CodedModel) Legacy() bool { return false }

// MaxMcs returns the highest MCS index this model can predict for. The top
// ladder entry is not calibrated for this model and is excluded.
func (m *CodedModel) MaxMcs() int { return len(mcsSpectralEfficiency) - 2 }

// SpectralEfficiencyForMcs returns the nominal efficiency of an MCS.
func (m *CodedModel) SpectralEfficiencyForMcs(mcs int) float64 {
	return mcsSpectralEfficiency[mcs]
}

// SpectralEfficiencyForCqi returns the efficiency a CQI value claims.
func (m *CodedModel) SpectralEfficiencyForCqi(cqi int) float64 {
	return cqiSpectralEfficiency[cqi]
}

// MaxCodeBlockSize returns the largest code block the decoder accepts for
// this payload and MCS.
func (m *CodedModel) MaxCodeBlockSize(payloadBits, mcs int) int {
	return maxCodeBlockBits
}

// PayloadSize computes the raw payload bits for numRb resource blocks.
func (m *CodedModel) PayloadSize(usableSubcarriers, mcs, numRb int, dir model.Direction) int {
	return payloadBits(usableSubcarriers, mcs, numRb, dir)
}

// PredictBler estimates the transport-block error rate at the candidate MCS.
// The per-code-block error rate follows a logistic waterfall centred on the
// Shannon-derived threshold of the MCS; the transport block fails if any of
// its code blocks fails.
func (m *CodedModel) PredictBler(sample model.ChannelQualitySample, alloc model.AllocationMap, tbSizeBits, mcs int, history []model.HarqAttempt) (model.BlerEstimate, error) {
	if mcs < 0 || mcs > m.MaxMcs() {
		return model.BlerEstimate{}, fmt.Errorf("coded model: mcs %d outside [0,%d]", mcs, m.MaxMcs())
	}
	if tbSizeBits <= 0 {
		return model.BlerEstimate{}, fmt.Errorf("coded model: non-positive tb size %d", tbSizeBits)
	}
	eff, err := compressSinr(sample, alloc, mcs, history)
	if err != nil {
		return model.BlerEstimate{}, err
	}
	effDb := -300.0
	if eff > 0 {
		effDb = 10.0 * math.Log10(eff)
	}

	cbBler := logistic(effDb - snrThresholdDb(mcs))
	blocks := (tbSizeBits + maxCodeBlockBits - 1) / maxCodeBlockBits
	tbBler := 1.0 - math.Pow(1.0-cbBler, float64(blocks))
	return model.BlerEstimate{Bler: tbBler, CodeBlocks: blocks}, nil
}

// snrThresholdDb is the SINR at which an MCS sits mid-waterfall: the Shannon
// requirement for its efficiency plus a modulation-dependent implementation
// margin.
func snrThresholdDb(mcs int) float64 {
	se := mcsSpectralEfficiency[mcs]
	shannon := 10.0 * math.Log10(math.Pow(2, se)-1.0)
	switch modulationOrder(mcs) {
	case 2:
		return shannon + 0.5
	case 4:
		return shannon + 1.0
	default:
		return shannon + 1.5
	}
}

// logistic maps "dB above threshold" to a falling error probability. The
// 0.45 dB scale gives roughly a 2 dB waterfall from 0.9 to 0.1.
func logistic(deltaDb float64) float64 {
	return 1.0 / (1.0 + math.Exp(deltaDb/0.45))
}
