package model

import (
	"fmt"
	"time"
)

// AmcModel selects the family of the CQI/MCS decision function.
type AmcModel string

const (
	// AmcModelShannon derives spectral efficiency from the Shannon bound
	// under a reference BER assumption, without consulting an error model.
	AmcModelShannon AmcModel = "shannon"
	// AmcModelErrorDriven searches MCS candidates against the predicted
	// block error rate of the configured error model.
	AmcModelErrorDriven AmcModel = "error-driven"
)

// ParseAmcModel maps a config string to an AmcModel value.
func ParseAmcModel(s string) (AmcModel, error) {
	switch AmcModel(s) {
	case AmcModelShannon, AmcModelErrorDriven:
		return AmcModel(s), nil
	}
	return "", fmt.Errorf("unknown amc model %q", s)
}

// CqiPolicy selects the BLER-target strategy used by the error-driven model.
type CqiPolicy string

const (
	// CqiPolicyLegacy uses the historical fixed 0.1 BLER target.
	CqiPolicyLegacy CqiPolicy = "legacy"
	// CqiPolicyFixedTarget uses a caller-configured fixed BLER target.
	CqiPolicyFixedTarget CqiPolicy = "fixed-target"
	// CqiPolicyExponential derives the target from the effective SINR in
	// dB via 0.3*exp(-0.08*sinr).
	CqiPolicyExponential CqiPolicy = "exponential"
	// CqiPolicyHybrid uses the exponential target up to 10 dB effective
	// SINR and the configured fixed target above it.
	CqiPolicyHybrid CqiPolicy = "hybrid"
	// CqiPolicyProbing periodically overshoots the reported CQI to probe
	// link headroom, then reverts.
	CqiPolicyProbing CqiPolicy = "probing"
)

// ParseCqiPolicy maps a config string to a CqiPolicy value.
func ParseCqiPolicy(s string) (CqiPolicy, error) {
	switch CqiPolicy(s) {
	case CqiPolicyLegacy, CqiPolicyFixedTarget, CqiPolicyExponential,
		CqiPolicyHybrid, CqiPolicyProbing:
		return CqiPolicy(s), nil
	}
	return "", fmt.Errorf("unknown cqi policy %q", s)
}

// Direction is the link direction a payload-size computation applies to.
// Downlink reserves more symbols per resource block for control signalling.
type Direction int

const (
	DirectionDownlink Direction = iota
	DirectionUplink
)

// ParseDirection maps a config string to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "downlink", "dl", "":
		return DirectionDownlink, nil
	case "uplink", "ul":
		return DirectionUplink, nil
	}
	return 0, fmt.Errorf("unknown link direction %q", s)
}

// ProbeConfig is the static configuration of the probing CQI policy.
type ProbeConfig struct {
	// CqiGain is the number of CQI steps added while probing, in [1,15].
	CqiGain int
	// StepDuration is how long an elevated probe is held.
	StepDuration time.Duration
	// StepFrequency is the minimum spacing between probe activations.
	StepFrequency time.Duration
}

// Validate rejects probe configurations that cannot drive the state machine.
func (c ProbeConfig) Validate() error {
	if c.CqiGain < 1 || c.CqiGain > 15 {
		return fmt.Errorf("probe cqi gain %d outside [1,15]", c.CqiGain)
	}
	if c.StepDuration <= 0 {
		return fmt.Errorf("probe step duration %v must be positive", c.StepDuration)
	}
	if c.StepFrequency <= 0 {
		return fmt.Errorf("probe step frequency %v must be positive", c.StepFrequency)
	}
	return nil
}
