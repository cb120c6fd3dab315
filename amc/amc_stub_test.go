package amc

import "github.com/signalsfoundry/linkadapt-simulator/model"

// stubErrorModel gives tests full control over the predictor and the
// lookup tables the search engine consumes.
type stubErrorModel struct {
	maxMcs    int
	legacy    bool
	cbSize    int
	seForMcs  []float64
	seForCqi  []float64
	blerFn    func(mcs, tbSize int) float64
	payloadFn func(usableSc, mcs, numRb int) int
}

// newStubModel returns a stub with the standard efficiency tables and a
// predictor that always succeeds.
func newStubModel() *stubErrorModel {
	return &stubErrorModel{
		maxMcs: 28,
		cbSize: 6144,
		seForMcs: []float64{
			0.2344, 0.3066, 0.3770, 0.4902, 0.6016, 0.7402, 0.8770, 1.0273, 1.1758, 1.3262,
			1.3281, 1.4766, 1.6953, 1.9141, 2.1602, 2.4063, 2.5664, 2.5703, 2.7305, 3.0293,
			3.3223, 3.6094, 3.9023, 4.2129, 4.5234, 4.8164, 5.1152, 5.3320, 5.5547,
		},
		seForCqi: []float64{
			0.0, 0.1523, 0.2344, 0.3770, 0.6016, 0.8770, 1.1758, 1.4766,
			1.9141, 2.4063, 2.7305, 3.3223, 3.9023, 4.5234, 5.1152, 5.5547,
		},
		blerFn: func(mcs, tbSize int) float64 { return 0 },
	}
}

func (s *stubErrorModel) MaxMcs() int { return s.maxMcs }

func (s *stubErrorModel) Legacy() bool { return s.legacy }

func (s *stubErrorModel) SpectralEfficiencyForMcs(mcs int) float64 { return s.seForMcs[mcs] }

func (s *stubErrorModel) SpectralEfficiencyForCqi(cqi int) float64 { return s.seForCqi[cqi] }

func (s *stubErrorModel) MaxCodeBlockSize(payloadBits, mcs int) int { return s.cbSize }

func (s *stubErrorModel) PayloadSize(usableSc, mcs, numRb int, dir model.Direction) int {
	if s.payloadFn != nil {
		return s.payloadFn(usableSc, mcs, numRb)
	}
	return numRb * usableSc * 11 * (mcs + 1)
}

func (s *stubErrorModel) PredictBler(sample model.ChannelQualitySample, alloc model.AllocationMap, tbSizeBits, mcs int, history []model.HarqAttempt) (model.BlerEstimate, error) {
	return model.BlerEstimate{Bler: s.blerFn(mcs, tbSizeBits), CodeBlocks: 1}, nil
}
