package phy

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/linkadapt-simulator/model"
)

// ReferenceModel is the legacy error model: an uncoded-BER driven predictor
// where a transport block succeeds only if every bit decodes, i.e.
// P(success) = (1-ber)^tbSize. It performs no parity accounting and no code
// block segmentation, so transport-block sizing equals the raw payload size.
type ReferenceModel struct{}

// NewReferenceModel returns the legacy reference error model.
func NewReferenceModel() *ReferenceModel { return &ReferenceModel{} }

// Legacy reports that this model belongs to the legacy family: callers must
// not subtract block parity when sizing transport blocks for it.
func (m *ReferenceModel) Legacy() bool { return true }

// MaxMcs returns the highest MCS index this model can predict for.
func (m *ReferenceModel) MaxMcs() int { return len(mcsSpectralEfficiency) - 1 }

// SpectralEfficiencyForMcs returns the nominal efficiency of an MCS.
func (m *ReferenceModel) SpectralEfficiencyForMcs(mcs int) float64 {
	return mcsSpectralEfficiency[mcs]
}

// SpectralEfficiencyForCqi returns the efficiency a CQI value claims.
func (m *ReferenceModel) SpectralEfficiencyForCqi(cqi int) float64 {
	return cqiSpectralEfficiency[cqi]
}

// MaxCodeBlockSize is effectively unlimited for the legacy model; it never
// segments transport blocks.
func (m *ReferenceModel) MaxCodeBlockSize(payloadBits, mcs int) int {
	return 1 << 20
}

// PayloadSize computes the number of payload bits carried by numRb resource
// blocks at the given MCS: usable subcarriers times data symbols times the
// nominal per-symbol efficiency.
func (m *ReferenceModel) PayloadSize(usableSubcarriers, mcs, numRb int, dir model.Direction) int {
	return payloadBits(usableSubcarriers, mcs, numRb, dir)
}

// PredictBler estimates the transport-block error rate for the sample and
// allocation at the candidate MCS.
func (m *ReferenceModel) PredictBler(sample model.ChannelQualitySample, alloc model.AllocationMap, tbSizeBits, mcs int, history []model.HarqAttempt) (model.BlerEstimate, error) {
	if mcs < 0 || mcs > m.MaxMcs() {
		return model.BlerEstimate{}, fmt.Errorf("reference model: mcs %d outside [0,%d]", mcs, m.MaxMcs())
	}
	if tbSizeBits <= 0 {
		return model.BlerEstimate{}, fmt.Errorf("reference model: non-positive tb size %d", tbSizeBits)
	}
	eff, err := compressSinr(sample, alloc, mcs, history)
	if err != nil {
		return model.BlerEstimate{}, err
	}
	ber := uncodedBer(modulationOrder(mcs), eff*codingGain(codeRate(mcs)))
	pSuccess := math.Pow(1.0-ber, float64(tbSizeBits))
	return model.BlerEstimate{Bler: 1.0 - pSuccess, CodeBlocks: 1}, nil
}

// payloadBits is shared by both models; only the error-rate prediction and
// the segmentation behaviour differ between them.
func payloadBits(usableSubcarriers, mcs, numRb int, dir model.Direction) int {
	dataSymbols := symbolsPerRb - downlinkCtrlSymbols
	if dir == model.DirectionUplink {
		dataSymbols = symbolsPerRb - uplinkRefSymbols
	}
	res := float64(numRb * usableSubcarriers * dataSymbols)
	return int(res * mcsSpectralEfficiency[mcs])
}
