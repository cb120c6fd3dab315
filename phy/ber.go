package phy

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/linkadapt-simulator/model"
)

// Uncoded bit-error-rate approximations per modulation at a linear SNR.
// Standard Gray-mapped AWGN expressions; the 16QAM and 64QAM forms are the
// usual nearest-neighbour approximations.
func uncodedBer(order int, snr float64) float64 {
	if snr <= 0 {
		return 0.5
	}
	switch order {
	case 2:
		return 0.5 * math.Erfc(math.Sqrt(snr))
	case 4:
		return (3.0 / 8.0) * math.Erfc(math.Sqrt(snr/5.0))
	default:
		return (7.0 / 24.0) * math.Erfc(math.Sqrt(snr/21.0))
	}
}

// codingGain scales the operating SNR to account for channel coding. Lower
// code rates buy a larger gain; the constants are calibration values in the
// same spirit as the link-budget defaults used elsewhere in the simulator,
// chosen for a monotonic rate/robustness relationship rather than for
// engineering-grade accuracy.
func codingGain(rate float64) float64 {
	return 1.0 + 2.2*(1.0-rate)
}

// Per-modulation EESM calibration used internally by the error models to
// compress a per-subband SINR vector. This is the predictor's own
// compression and is distinct from the per-MCS calibration the AMC core uses
// for its policy thresholds.
func modulationBeta(order int) float64 {
	switch order {
	case 2:
		return 1.6
	case 4:
		return 4.5
	default:
		return 18.0
	}
}

// compressSinr reduces the allocated subbands of the sample to one linear
// SNR using an exponential effective SINR average, then applies a simple
// combining gain for previous HARQ attempts.
func compressSinr(sample model.ChannelQualitySample, alloc model.AllocationMap, mcs int, history []model.HarqAttempt) (float64, error) {
	if len(alloc) == 0 {
		return 0, fmt.Errorf("compress sinr: empty allocation map")
	}
	beta := modulationBeta(modulationOrder(mcs))
	sum := 0.0
	for _, rb := range alloc {
		if rb < 0 || rb >= len(sample) {
			return 0, fmt.Errorf("compress sinr: allocation index %d outside sample of %d subbands", rb, len(sample))
		}
		sum += math.Exp(-sample[rb] / beta)
	}
	eff := -beta * math.Log(sum/float64(len(alloc)))

	// Chase-combining style gain: each retransmission adds half the
	// nominal energy of the first attempt.
	if n := len(history); n > 0 {
		eff *= 1.0 + 0.5*float64(n)
	}
	return eff, nil
}
