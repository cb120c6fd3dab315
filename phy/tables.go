package phy

// Fixed modulation/coding tables shared by the reference error models.
//
// Spectral efficiencies follow the standard 4-bit CQI table and the usual
// 29-entry MCS ladder (QPSK for MCS 0-9, 16QAM for 10-16, 64QAM for 17-28).
// The MCS table is monotonically non-decreasing so reverse lookups by
// spectral efficiency are well defined.

// cqiSpectralEfficiency maps CQI 0..15 to the efficiency (bit/s/Hz) the
// receiver claims it can sustain. CQI 0 means "no usable MCS".
var cqiSpectralEfficiency = [16]float64{
	0.0, 0.1523, 0.2344, 0.3770, 0.6016, 0.8770, 1.1758, 1.4766,
	1.9141, 2.4063, 2.7305, 3.3223, 3.9023, 4.5234, 5.1152, 5.5547,
}

// mcsSpectralEfficiency maps MCS 0..28 to nominal efficiency (bit/s/Hz).
var mcsSpectralEfficiency = [29]float64{
	0.2344, 0.3066, 0.3770, 0.4902, 0.6016, 0.7402, 0.8770, 1.0273, 1.1758, 1.3262,
	1.3281, 1.4766, 1.6953, 1.9141, 2.1602, 2.4063, 2.5664, 2.5703, 2.7305, 3.0293,
	3.3223, 3.6094, 3.9023, 4.2129, 4.5234, 4.8164, 5.1152, 5.3320, 5.5547,
}

// modulationOrder returns the bits per modulation symbol for an MCS.
func modulationOrder(mcs int) int {
	switch {
	case mcs <= 9:
		return 2 // QPSK
	case mcs <= 16:
		return 4 // 16QAM
	default:
		return 6 // 64QAM
	}
}

// codeRate returns the effective channel code rate of an MCS.
func codeRate(mcs int) float64 {
	return mcsSpectralEfficiency[mcs] / float64(modulationOrder(mcs))
}

// Per-resource-block data symbols. The downlink loses three of the fourteen
// OFDM symbols to control signalling, the uplink two to reference signals.
const (
	symbolsPerRb        = 14
	downlinkCtrlSymbols = 3
	uplinkRefSymbols    = 2
)
