package amc

import (
	"time"

	"github.com/signalsfoundry/linkadapt-simulator/model"
)

// probePhase is the latched state of the probing policy.
type probePhase int

const (
	// probeOutStep is the baseline phase: the held CQI is reported as-is.
	probeOutStep probePhase = iota
	// probeInStep is the elevated phase: the held CQI carries the probe
	// gain until the step duration elapses.
	probeInStep
)

// probeState is the per-link mutable state of the probing policy. One
// instance per link; it is mutated only by the probing selections of its own
// link and must never be shared across links.
type probeState struct {
	cfg            model.ProbeConfig
	active         bool
	phase          probePhase
	lastActivation time.Time
	heldCqi        int
}

// EnableProbing activates the probing policy for this link with the given
// configuration, seeding the held CQI. Activation is one-shot per link:
// enabling an already-active instance is a configuration bug and fails.
// The probe timers start from the current simulation time.
func (a *Amc) EnableProbing(cfg model.ProbeConfig, seedCqi int) error {
	if a.probe.active {
		return ErrProbingActive
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if seedCqi < 0 || seedCqi > 15 {
		return ErrCqiRange
	}
	if a.clock == nil {
		return ErrNoClock
	}
	a.probe = probeState{
		cfg:            cfg,
		active:         true,
		phase:          probeOutStep,
		lastActivation: a.clock.Now(),
		heldCqi:        seedCqi,
	}
	return nil
}

// selectProbing reports the held CQI, periodically overshooting it by the
// configured gain to probe link headroom. When probing was never activated
// the held value is returned without evaluating any transition.
func (a *Amc) selectProbing(sample model.ChannelQualitySample) (Selection, error) {
	p := &a.probe
	if !p.active {
		return a.heldSelection(sample, p.heldCqi)
	}

	now := a.clock.Now()
	switch p.phase {
	case probeOutStep:
		if now.Sub(p.lastActivation) > p.cfg.StepFrequency {
			p.phase = probeInStep
			p.lastActivation = now
			p.heldCqi += p.cfg.CqiGain
			if p.heldCqi > 15 {
				p.heldCqi = 15
			}
			a.metrics.IncProbeRaise()
			if err := a.probeWalk(sample, p.heldCqi); err != nil {
				return Selection{}, err
			}
		}
	case probeInStep:
		if now.Sub(p.lastActivation) >= p.cfg.StepDuration {
			p.phase = probeOutStep
			p.lastActivation = now
			p.heldCqi -= p.cfg.CqiGain
			if p.heldCqi < 0 {
				p.heldCqi = 0
			}
			a.metrics.IncProbeRevert()
		}
	}
	return a.heldSelection(sample, p.heldCqi)
}

// probeWalk drives a bounded MCS scan under the raised CQI for statistics
// only: candidates are sized and predicted up to the MCS the held CQI
// implies, stopping early once the legacy target is exceeded. It never
// alters the reported CQI. Kept separate from the generic search engine on
// purpose — the two loops have different stopping conditions and the probe
// always uses the legacy target, whatever policy is nominally configured.
func (a *Amc) probeWalk(sample model.ChannelQualitySample, heldCqi int) error {
	alloc := model.BuildAllocationMap(sample)
	if len(alloc) == 0 {
		return nil
	}
	bound, err := a.McsFromCqi(heldCqi)
	if err != nil {
		return err
	}
	for mcs := 0; mcs <= bound; mcs++ {
		tbSize, err := a.CalculateTbSize(mcs, len(alloc))
		if err != nil {
			return err
		}
		est, err := a.em.PredictBler(sample, alloc, tbSize, mcs, nil)
		if err != nil {
			return err
		}
		a.metrics.IncPredictorEvals()
		a.metrics.IncProbeWalkSteps()
		if est.Bler > legacyBlerTarget {
			break
		}
	}
	return nil
}

// heldSelection materializes a Selection for the currently held CQI.
func (a *Amc) heldSelection(sample model.ChannelQualitySample, heldCqi int) (Selection, error) {
	mcs, err := a.McsFromCqi(heldCqi)
	if err != nil {
		return Selection{}, err
	}
	sel := Selection{Cqi: heldCqi, Mcs: mcs}
	if alloc := model.BuildAllocationMap(sample); len(alloc) > 0 {
		tbSize, err := a.CalculateTbSize(mcs, len(alloc))
		if err != nil {
			return Selection{}, err
		}
		sel.TbSize = tbSize
	}
	return sel, nil
}
