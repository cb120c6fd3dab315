package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signalsfoundry/linkadapt-simulator/amc"
)

// AmcCollector bundles Prometheus metrics for the link-adaptation loop and
// provides a ready-to-serve /metrics handler.
type AmcCollector struct {
	gatherer prometheus.Gatherer

	Decisions   *prometheus.CounterVec
	SelectedCqi *prometheus.HistogramVec
	SelectedMcs *prometheus.HistogramVec

	PredictorEvals prometheus.Gauge
	CqiFloorTotal  prometheus.Gauge
	CqiCeilTotal   prometheus.Gauge
	ProbeRaises    prometheus.Gauge
	ProbeReverts   prometheus.Gauge
}

// NewAmcCollector registers the AMC Prometheus metrics against the provided
// registerer, defaulting to the global registry when nil.
func NewAmcCollector(reg prometheus.Registerer) (*AmcCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "amc_decisions_total",
		Help: "Total AMC decisions, labeled by CQI policy.",
	}, []string{"policy"})
	decisions, err := registerCounterVec(reg, decisions, "amc_decisions_total")
	if err != nil {
		return nil, err
	}

	cqiHist := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "amc_selected_cqi",
		Help:    "Distribution of reported CQI values.",
		Buckets: prometheus.LinearBuckets(0, 1, 16),
	}, []string{"policy"})
	cqiHist, err = registerHistogramVec(reg, cqiHist, "amc_selected_cqi")
	if err != nil {
		return nil, err
	}

	mcsHist := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "amc_selected_mcs",
		Help:    "Distribution of selected MCS values.",
		Buckets: prometheus.LinearBuckets(0, 2, 15),
	}, []string{"policy"})
	mcsHist, err = registerHistogramVec(reg, mcsHist, "amc_selected_mcs")
	if err != nil {
		return nil, err
	}

	evals, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "amc_predictor_evaluations",
		Help: "Cumulative error-model predictor invocations.",
	}), "amc_predictor_evaluations")
	if err != nil {
		return nil, err
	}
	floor, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "amc_cqi_floor_total",
		Help: "Decisions that reported CQI 0 (no transmission recommended).",
	}), "amc_cqi_floor_total")
	if err != nil {
		return nil, err
	}
	ceil, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "amc_cqi_ceiling_total",
		Help: "Decisions that reported CQI 15.",
	}), "amc_cqi_ceiling_total")
	if err != nil {
		return nil, err
	}
	raises, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "amc_probe_raises_total",
		Help: "Probing policy transitions into the elevated step.",
	}), "amc_probe_raises_total")
	if err != nil {
		return nil, err
	}
	reverts, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "amc_probe_reverts_total",
		Help: "Probing policy transitions back to baseline.",
	}), "amc_probe_reverts_total")
	if err != nil {
		return nil, err
	}

	return &AmcCollector{
		gatherer:       gatherer,
		Decisions:      decisions,
		SelectedCqi:    cqiHist,
		SelectedMcs:    mcsHist,
		PredictorEvals: evals,
		CqiFloorTotal:  floor,
		CqiCeilTotal:   ceil,
		ProbeRaises:    raises,
		ProbeReverts:   reverts,
	}, nil
}

// ObserveDecision records one AMC selection under the given policy label.
func (c *AmcCollector) ObserveDecision(policy string, sel amc.Selection) {
	if c == nil {
		return
	}
	if c.Decisions != nil {
		c.Decisions.WithLabelValues(policy).Inc()
	}
	if c.SelectedCqi != nil {
		c.SelectedCqi.WithLabelValues(policy).Observe(float64(sel.Cqi))
	}
	if c.SelectedMcs != nil {
		c.SelectedMcs.WithLabelValues(policy).Observe(float64(sel.Mcs))
	}
}

// SyncCounters mirrors the core's in-memory decision counters into the
// exported gauges. Call it after a run or on a scrape-aligned cadence.
func (c *AmcCollector) SyncCounters(snap amc.DecisionMetricsSnapshot) {
	if c == nil {
		return
	}
	if c.PredictorEvals != nil {
		c.PredictorEvals.Set(float64(snap.NumPredictorEvals))
	}
	if c.CqiFloorTotal != nil {
		c.CqiFloorTotal.Set(float64(snap.NumCqiFloor))
	}
	if c.CqiCeilTotal != nil {
		c.CqiCeilTotal.Set(float64(snap.NumCqiCeiling))
	}
	if c.ProbeRaises != nil {
		c.ProbeRaises.Set(float64(snap.NumProbeRaises))
	}
	if c.ProbeReverts != nil {
		c.ProbeReverts.Set(float64(snap.NumProbeReverts))
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *AmcCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
