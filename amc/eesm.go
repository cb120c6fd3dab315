package amc

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/linkadapt-simulator/model"
)

// Per-MCS EESM calibration constants. QPSK entries sit near the classical
// 1.49 value; the 16QAM and 64QAM entries grow with the code rate, as the
// compression has to weight deep fades more heavily at higher rates.
var eesmBeta = [29]float64{
	1.49, 1.49, 1.49, 1.51, 1.53, 1.55, 1.56, 1.57, 1.59, 1.61,
	3.45, 4.26, 4.85, 5.41, 6.27, 6.91, 7.71,
	9.33, 11.10, 13.80, 16.90, 19.30, 21.80, 24.30, 26.40, 28.60, 30.90, 33.20, 35.40,
}

// EffectiveSinr compresses the allocated subbands of sample into one scalar
// linear SINR for the candidate MCS:
//
//	effSinr = -beta * ln((a + sum_{i in alloc} exp(-sinr[i]/beta)) / b)
//
// with beta the per-MCS calibration constant. Callers pass a=0 and
// b=len(alloc) to obtain the exponential effective SINR (EESM) average; for
// a single-subband allocation with a=0, b=1 the mapping collapses to the
// identity. The result is linear scale; convert with 10*log10 before
// comparing against dB thresholds.
func EffectiveSinr(sample model.ChannelQualitySample, alloc model.AllocationMap, mcs int, a, b float64) (float64, error) {
	if len(alloc) == 0 {
		return 0, ErrEmptyAllocation
	}
	if mcs < 0 || mcs >= len(eesmBeta) {
		return 0, fmt.Errorf("%w: mcs %d has no eesm calibration", ErrMcsRange, mcs)
	}
	if b <= 0 {
		return 0, fmt.Errorf("amc: eesm scale b must be positive, got %v", b)
	}

	beta := eesmBeta[mcs]
	sum := a
	for _, rb := range alloc {
		if rb < 0 || rb >= len(sample) {
			return 0, fmt.Errorf("amc: allocation index %d outside sample of %d subbands", rb, len(sample))
		}
		sum += math.Exp(-sample[rb] / beta)
	}
	return -beta * math.Log(sum/b), nil
}

// effectiveSinrDb is the EESM average of the allocation in dB, the form the
// SINR-dependent BLER-target policies consume.
func effectiveSinrDb(sample model.ChannelQualitySample, alloc model.AllocationMap, mcs int) (float64, error) {
	eff, err := EffectiveSinr(sample, alloc, mcs, 0, float64(len(alloc)))
	if err != nil {
		return 0, err
	}
	return 10.0 * math.Log10(eff), nil
}
