package amc

import "github.com/signalsfoundry/linkadapt-simulator/model"

// targetFunc supplies the acceptable BLER for a candidate MCS. The
// SINR-dependent policies derive it from the effective SINR of the current
// allocation, which itself depends on the MCS, so the function is called
// once per loop iteration and its result is never cached.
type targetFunc func(sample model.ChannelQualitySample, alloc model.AllocationMap, mcs int) (float64, error)

// searchSelector wraps the shared BLER-target search into a selection
// function for the given target policy.
func (a *Amc) searchSelector(target targetFunc) selectFunc {
	return func(sample model.ChannelQualitySample) (Selection, error) {
		alloc := model.BuildAllocationMap(sample)
		if len(alloc) == 0 {
			// Nothing allocated: no transmission recommended.
			a.metrics.IncCqiFloor()
			return Selection{}, nil
		}
		return a.searchMcs(sample, alloc, target)
	}
}

// searchMcs scans MCS values upward while the predicted BLER for the current
// transport-block sizing stays within the policy's target, then steps back to
// the last accepted candidate. The scan tolerates the predictor being only
// approximately monotonic in MCS: it stops at the first violation rather than
// assuming later candidates fail too.
func (a *Amc) searchMcs(sample model.ChannelQualitySample, alloc model.AllocationMap, target targetFunc) (Selection, error) {
	maxMcs := a.em.MaxMcs()
	mcs := 0
	violatedAtZero := false
	acceptedBler := 0.0

	for mcs <= maxMcs {
		tbSize, err := a.CalculateTbSize(mcs, len(alloc))
		if err != nil {
			return Selection{}, err
		}
		est, err := a.em.PredictBler(sample, alloc, tbSize, mcs, nil)
		if err != nil {
			return Selection{}, err
		}
		a.metrics.IncPredictorEvals()

		tgt, err := target(sample, alloc, mcs)
		if err != nil {
			return Selection{}, err
		}
		if est.Bler > tgt {
			violatedAtZero = mcs == 0
			break
		}
		acceptedBler = est.Bler
		mcs++
	}
	// The exit MCS either violated the target or overran the table; step
	// back to the last accepted candidate.
	if mcs > 0 {
		mcs--
	}

	if violatedAtZero {
		// Even MCS 0 exceeds the policy's target for this channel.
		a.metrics.IncCqiFloor()
		return Selection{}, nil
	}

	tbSize, err := a.CalculateTbSize(mcs, len(alloc))
	if err != nil {
		return Selection{}, err
	}
	sel := Selection{Mcs: mcs, TbSize: tbSize, Bler: acceptedBler}

	if mcs == maxMcs {
		sel.Cqi = 15
		a.metrics.IncCqiCeiling()
		return sel, nil
	}

	// Quantize the accepted MCS's nominal efficiency to a CQI. This path
	// deliberately uses a non-strict comparison: a CQI whose requirement
	// exactly matches the achieved efficiency is still reported.
	se := a.em.SpectralEfficiencyForMcs(mcs)
	cqi := 0
	for cqi < 15 && a.em.SpectralEfficiencyForCqi(cqi+1) <= se {
		cqi++
	}
	sel.Cqi = cqi
	return sel, nil
}
