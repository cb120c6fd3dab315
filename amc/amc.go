// Package amc implements adaptive modulation and coding for a cellular radio
// link: given a per-resource-block SINR sample it selects the MCS to transmit
// with and the CQI to report back, under a configurable policy trading
// throughput against block error rate.
package amc

import (
	"context"
	"fmt"
	"math"

	"github.com/signalsfoundry/linkadapt-simulator/internal/logging"
	"github.com/signalsfoundry/linkadapt-simulator/model"
	"github.com/signalsfoundry/linkadapt-simulator/timectrl"
)

// Selection is the outcome of one AMC decision.
type Selection struct {
	// Cqi is the channel quality indicator to report, 0..15. 0 means no
	// transmission is recommended, 15 that even the maximum MCS meets the
	// policy target.
	Cqi int
	// Mcs is the modulation and coding scheme to transmit with.
	Mcs int
	// TbSize is the transport-block size in bits for the selected MCS
	// over the current allocation.
	TbSize int
	// Bler is the predicted block error rate of the accepted candidate
	// (zero for the Shannon model and the probing policy).
	Bler float64
}

// selectFunc is a policy resolved into a concrete selection function. The
// dispatch over AMC model and CQI policy happens once at configuration time,
// not per call.
type selectFunc func(sample model.ChannelQualitySample) (Selection, error)

// Amc is the per-link adaptive modulation and coding engine. It is
// single-threaded by design: decisions run synchronously inside the
// simulator's event callbacks and the only mutable state, the probing
// policy's, belongs to exactly one link.
type Amc struct {
	em      ErrorModel
	clock   timectrl.SimClock
	log     logging.Logger
	metrics *DecisionMetrics

	amcModel          model.AmcModel
	policy            model.CqiPolicy
	blerTarget        float64
	usableSubcarriers int
	direction         model.Direction

	selectFn selectFunc
	probe    probeState
}

// Option configures an Amc at construction.
type Option func(*Amc)

// WithClock supplies the simulation clock consumed by the probing policy.
func WithClock(c timectrl.SimClock) Option {
	return func(a *Amc) { a.clock = c }
}

// WithLogger supplies a structured logger; decisions log at debug level.
func WithLogger(l logging.Logger) Option {
	return func(a *Amc) { a.log = l }
}

// WithModel selects the AMC model family.
func WithModel(m model.AmcModel) Option {
	return func(a *Amc) { a.amcModel = m }
}

// WithPolicy selects the BLER-target policy of the error-driven family.
func WithPolicy(p model.CqiPolicy) Option {
	return func(a *Amc) { a.policy = p }
}

// WithBlerTarget sets the fixed BLER target used by the configurable and
// hybrid policies.
func WithBlerTarget(t float64) Option {
	return func(a *Amc) { a.blerTarget = t }
}

// WithUsableSubcarriers sets the usable subcarriers per resource block fed
// into payload sizing.
func WithUsableSubcarriers(n int) Option {
	return func(a *Amc) { a.usableSubcarriers = n }
}

// WithDirection sets the link direction payload sizing applies to.
func WithDirection(d model.Direction) Option {
	return func(a *Amc) { a.direction = d }
}

// New constructs an Amc bound to the given error model. Defaults: the
// error-driven model with the legacy policy, a 0.1 BLER target, 12 usable
// subcarriers per resource block, downlink sizing, and a no-op logger.
func New(em ErrorModel, opts ...Option) (*Amc, error) {
	if em == nil {
		return nil, ErrNilErrorModel
	}
	a := &Amc{
		em:                em,
		log:               logging.Noop(),
		metrics:           NewDecisionMetrics(),
		amcModel:          model.AmcModelErrorDriven,
		policy:            model.CqiPolicyLegacy,
		blerTarget:        legacyBlerTarget,
		usableSubcarriers: 12,
		direction:         model.DirectionDownlink,
	}
	for _, opt := range opts {
		opt(a)
	}

	if err := validateModel(a.amcModel); err != nil {
		return nil, err
	}
	if err := a.validatePolicy(a.policy); err != nil {
		return nil, err
	}
	if err := validateBlerTarget(a.blerTarget); err != nil {
		return nil, err
	}
	if a.usableSubcarriers <= 0 {
		return nil, fmt.Errorf("amc: usable subcarriers %d must be positive", a.usableSubcarriers)
	}
	a.resolve()
	return a, nil
}

// SelectCqiAndMcs runs one AMC decision for the sample: it picks the CQI to
// report and the MCS to use under the configured model and policy. Called
// once per reporting opportunity.
func (a *Amc) SelectCqiAndMcs(sample model.ChannelQualitySample) (Selection, error) {
	sel, err := a.selectFn(sample)
	if err != nil {
		return Selection{}, err
	}
	a.metrics.IncDecisions()
	a.log.Debug(context.Background(), "amc decision",
		logging.String("policy", string(a.policy)),
		logging.Int("cqi", sel.Cqi),
		logging.Int("mcs", sel.Mcs),
		logging.Int("tb_size", sel.TbSize),
	)
	return sel, nil
}

// Metrics exposes the decision counters for external exporters.
func (a *Amc) Metrics() *DecisionMetrics { return a.metrics }

// SetModel switches the AMC model family.
func (a *Amc) SetModel(m model.AmcModel) error {
	if err := validateModel(m); err != nil {
		return err
	}
	a.amcModel = m
	a.resolve()
	return nil
}

// SetPolicy switches the BLER-target policy of the error-driven family.
func (a *Amc) SetPolicy(p model.CqiPolicy) error {
	if err := a.validatePolicy(p); err != nil {
		return err
	}
	a.policy = p
	a.resolve()
	return nil
}

// SetBlerTarget updates the fixed BLER target.
func (a *Amc) SetBlerTarget(t float64) error {
	if err := validateBlerTarget(t); err != nil {
		return err
	}
	a.blerTarget = t
	return nil
}

// resolve binds the configured model and policy to a concrete selection
// function so the per-call path carries no dispatch branching.
func (a *Amc) resolve() {
	if a.amcModel == model.AmcModelShannon {
		a.selectFn = a.selectShannon
		return
	}
	switch a.policy {
	case model.CqiPolicyLegacy:
		a.selectFn = a.searchSelector(a.legacyTarget)
	case model.CqiPolicyFixedTarget:
		a.selectFn = a.searchSelector(a.fixedTarget)
	case model.CqiPolicyExponential:
		a.selectFn = a.searchSelector(a.exponentialTarget)
	case model.CqiPolicyHybrid:
		a.selectFn = a.searchSelector(a.hybridTarget)
	case model.CqiPolicyProbing:
		a.selectFn = a.selectProbing
	}
}

// Reference BER assumptions of the Shannon closed form. The legacy family
// keeps the historical constant; the coded family assumes a stronger code
// and a correspondingly smaller reference BER.
const (
	shannonBerLegacy = 5.0e-5
	shannonBerCoded  = 5.0e-6
)

// selectShannon derives the decision from the Shannon bound under a
// reference BER instead of consulting the error model's predictor: the
// per-subband efficiencies log2(1+sinr/gamma) are averaged over the
// allocated subbands and quantized through the spectral-efficiency tables.
func (a *Amc) selectShannon(sample model.ChannelQualitySample) (Selection, error) {
	ber := shannonBerCoded
	if a.em.Legacy() {
		ber = shannonBerLegacy
	}
	gamma := -math.Log(5.0*ber) / 1.5

	sum := 0.0
	n := 0
	for _, sinr := range sample {
		if sinr != 0 {
			sum += math.Log2(1.0 + sinr/gamma)
			n++
		}
	}
	if n == 0 {
		a.metrics.IncCqiFloor()
		return Selection{}, nil
	}
	se := sum / float64(n)

	cqi, err := CqiFromSpectralEfficiency(a.em, se)
	if err != nil {
		return Selection{}, err
	}
	mcs, err := McsFromSpectralEfficiency(a.em, se)
	if err != nil {
		return Selection{}, err
	}
	tbSize, err := a.CalculateTbSize(mcs, n)
	if err != nil {
		return Selection{}, err
	}
	switch cqi {
	case 0:
		a.metrics.IncCqiFloor()
	case 15:
		a.metrics.IncCqiCeiling()
	}
	return Selection{Cqi: cqi, Mcs: mcs, TbSize: tbSize}, nil
}

func validateModel(m model.AmcModel) error {
	_, err := model.ParseAmcModel(string(m))
	return err
}

func (a *Amc) validatePolicy(p model.CqiPolicy) error {
	if _, err := model.ParseCqiPolicy(string(p)); err != nil {
		return err
	}
	if p == model.CqiPolicyProbing && a.clock == nil {
		return ErrNoClock
	}
	return nil
}

func validateBlerTarget(t float64) error {
	if t <= 0 || t >= 1 {
		return fmt.Errorf("amc: bler target %v outside (0,1)", t)
	}
	return nil
}
