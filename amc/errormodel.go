package amc

import (
	"errors"

	"github.com/signalsfoundry/linkadapt-simulator/model"
)

// ErrorModel is the capability interface the AMC core consumes from the
// physical layer. It is injected at construction; the core never reaches for
// a registry. Implementations must be deterministic for a given input — the
// selection loop relies on re-evaluating the predictor once per candidate
// MCS with identical results for identical arguments.
type ErrorModel interface {
	// MaxMcs returns the highest MCS index the model can predict for.
	MaxMcs() int
	// SpectralEfficiencyForMcs returns the nominal efficiency of an MCS.
	SpectralEfficiencyForMcs(mcs int) float64
	// SpectralEfficiencyForCqi returns the efficiency a CQI claims. The
	// table must be monotonically non-decreasing in the CQI index.
	SpectralEfficiencyForCqi(cqi int) float64
	// MaxCodeBlockSize returns the largest code block accepted for the
	// payload and MCS; transport blocks above it are segmented.
	MaxCodeBlockSize(payloadBits, mcs int) int
	// PayloadSize returns the raw payload bits numRb resource blocks
	// carry at the MCS, before any parity accounting.
	PayloadSize(usableSubcarriers, mcs, numRb int, dir model.Direction) int
	// PredictBler estimates the block error rate of a transport block of
	// tbSizeBits sent at mcs over the allocated subbands of sample,
	// optionally soft-combined with previous HARQ attempts.
	PredictBler(sample model.ChannelQualitySample, alloc model.AllocationMap, tbSizeBits, mcs int, history []model.HarqAttempt) (model.BlerEstimate, error)
	// Legacy reports whether this model belongs to the legacy family, in
	// which transport-block sizing performs no parity subtraction.
	Legacy() bool
}

// Sentinel errors for precondition violations. These indicate a caller or
// configuration bug, not a channel condition; the current decision is
// aborted rather than clamped.
var (
	ErrNilErrorModel              = errors.New("amc: error model is nil")
	ErrCqiRange                   = errors.New("amc: cqi outside [0,15]")
	ErrMcsRange                   = errors.New("amc: mcs outside [0,maxMcs]")
	ErrNegativeSpectralEfficiency = errors.New("amc: negative spectral efficiency")
	ErrEmptyAllocation            = errors.New("amc: empty allocation map")
	ErrProbingActive              = errors.New("amc: probing already activated for this link")
	ErrNoClock                    = errors.New("amc: probing policy requires a simulation clock")
)
