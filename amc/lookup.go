package amc

import "fmt"

// CqiFromSpectralEfficiency quantizes an achieved spectral efficiency to the
// highest CQI whose requirement is strictly below it. Negative efficiencies
// are a caller bug and rejected.
func CqiFromSpectralEfficiency(em ErrorModel, se float64) (int, error) {
	if se < 0 {
		return 0, fmt.Errorf("%w: %v", ErrNegativeSpectralEfficiency, se)
	}
	cqi := 0
	for cqi < 15 && em.SpectralEfficiencyForCqi(cqi+1) < se {
		cqi++
	}
	return cqi, nil
}

// McsFromSpectralEfficiency quantizes an achieved spectral efficiency to the
// highest MCS whose nominal efficiency is strictly below it.
func McsFromSpectralEfficiency(em ErrorModel, se float64) (int, error) {
	if se < 0 {
		return 0, fmt.Errorf("%w: %v", ErrNegativeSpectralEfficiency, se)
	}
	mcs := 0
	for mcs < em.MaxMcs() && em.SpectralEfficiencyForMcs(mcs+1) < se {
		mcs++
	}
	return mcs, nil
}

// McsFromCqi maps a reported CQI back to the highest MCS whose nominal
// efficiency does not exceed what the CQI claims.
func (a *Amc) McsFromCqi(cqi int) (int, error) {
	if cqi < 0 || cqi > 15 {
		return 0, fmt.Errorf("%w: %d", ErrCqiRange, cqi)
	}
	se := a.em.SpectralEfficiencyForCqi(cqi)
	mcs := 0
	for mcs < a.em.MaxMcs() && a.em.SpectralEfficiencyForMcs(mcs+1) <= se {
		mcs++
	}
	return mcs, nil
}
