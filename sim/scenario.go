package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/signalsfoundry/linkadapt-simulator/amc"
	"github.com/signalsfoundry/linkadapt-simulator/internal/logging"
	"github.com/signalsfoundry/linkadapt-simulator/model"
	"github.com/signalsfoundry/linkadapt-simulator/phy"
	"github.com/signalsfoundry/linkadapt-simulator/timectrl"
)

// LinkConfig is the per-link AMC configuration loaded from a scenario.
type LinkConfig struct {
	Model             model.AmcModel
	Policy            model.CqiPolicy
	ErrorModel        string // "reference" | "coded"
	BlerTarget        float64
	UsableSubcarriers int
	Direction         model.Direction

	Probe        *model.ProbeConfig
	ProbeSeedCqi int
}

// Scenario is one loaded simulation scenario: a link configuration plus the
// SINR trace to replay against it.
type Scenario struct {
	Link  LinkConfig
	Trace []model.ChannelQualitySample
	Start time.Time
	Tick  time.Duration
}

// internal JSON shapes - kept unexported so we're free to evolve them.
type scenarioJSON struct {
	Link    linkJSON     `json:"link"`
	Start   string       `json:"start,omitempty"` // RFC 3339; defaults to epoch
	TickMs  int          `json:"tick_ms,omitempty"`
	Trace   [][]float64  `json:"trace,omitempty"`
	SatPass *satPassJSON `json:"sat_pass,omitempty"`
}

type linkJSON struct {
	Model             string     `json:"model"`
	Policy            string     `json:"policy"`
	ErrorModel        string     `json:"error_model"`
	BlerTarget        float64    `json:"bler_target,omitempty"`
	UsableSubcarriers int        `json:"usable_subcarriers,omitempty"`
	Direction         string     `json:"direction,omitempty"`
	Probe             *probeJSON `json:"probe,omitempty"`
}

type probeJSON struct {
	CqiGain         int `json:"cqi_gain"`
	StepDurationMs  int `json:"step_duration_ms"`
	StepFrequencyMs int `json:"step_frequency_ms"`
	SeedCqi         int `json:"seed_cqi"`
}

type satPassJSON struct {
	Tle1            string     `json:"tle1"`
	Tle2            string     `json:"tle2"`
	GroundKm        [3]float64 `json:"ground_km"`
	Ticks           int        `json:"ticks"`
	NumRb           int        `json:"num_rb"`
	MinElevationDeg float64    `json:"min_elevation_deg"`
	FrequencyGhz    float64    `json:"frequency_ghz,omitempty"`
	TxPowerDbw      float64    `json:"tx_power_dbw,omitempty"`
	GainTxDbi       float64    `json:"gain_tx_dbi,omitempty"`
	GainRxDbi       float64    `json:"gain_rx_dbi,omitempty"`
	NoiseFigureDb   float64    `json:"noise_figure_db,omitempty"`
	RippleDb        float64    `json:"ripple_db,omitempty"`
}

// LoadScenario reads a JSON scenario from r, validates the link
// configuration and materializes the SINR trace, either verbatim from the
// file or generated from a satellite pass.
func LoadScenario(r io.Reader) (*Scenario, error) {
	var payload scenarioJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("sim: decode scenario: %w", err)
	}

	link, err := parseLink(payload.Link)
	if err != nil {
		return nil, err
	}

	start := time.Unix(0, 0).UTC()
	if payload.Start != "" {
		start, err = time.Parse(time.RFC3339, payload.Start)
		if err != nil {
			return nil, fmt.Errorf("sim: parse scenario start: %w", err)
		}
	}
	tick := 10 * time.Millisecond
	if payload.TickMs > 0 {
		tick = time.Duration(payload.TickMs) * time.Millisecond
	}

	sc := &Scenario{Link: link, Start: start, Tick: tick}
	switch {
	case len(payload.Trace) > 0 && payload.SatPass != nil:
		return nil, fmt.Errorf("sim: scenario has both an explicit trace and a satellite pass")
	case len(payload.Trace) > 0:
		sc.Trace = make([]model.ChannelQualitySample, len(payload.Trace))
		for i, row := range payload.Trace {
			sc.Trace[i] = model.ChannelQualitySample(row)
		}
	case payload.SatPass != nil:
		p := payload.SatPass
		sc.Trace, err = GenerateSinrTrace(SatPassConfig{
			TLE1:            p.Tle1,
			TLE2:            p.Tle2,
			GroundX:         p.GroundKm[0],
			GroundY:         p.GroundKm[1],
			GroundZ:         p.GroundKm[2],
			Start:           start,
			Tick:            tick,
			Ticks:           p.Ticks,
			NumRb:           p.NumRb,
			MinElevationDeg: p.MinElevationDeg,
			FrequencyGHz:    p.FrequencyGhz,
			TxPowerDbw:      p.TxPowerDbw,
			GainTxDbi:       p.GainTxDbi,
			GainRxDbi:       p.GainRxDbi,
			NoiseFigureDb:   p.NoiseFigureDb,
			RippleDb:        p.RippleDb,
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("sim: scenario has neither a trace nor a satellite pass")
	}
	return sc, nil
}

func parseLink(j linkJSON) (LinkConfig, error) {
	var link LinkConfig
	var err error

	if link.Model, err = model.ParseAmcModel(j.Model); err != nil {
		return link, err
	}
	if link.Policy, err = model.ParseCqiPolicy(j.Policy); err != nil {
		return link, err
	}
	if link.Direction, err = model.ParseDirection(j.Direction); err != nil {
		return link, err
	}
	switch j.ErrorModel {
	case "reference", "coded":
		link.ErrorModel = j.ErrorModel
	case "":
		link.ErrorModel = "coded"
	default:
		return link, fmt.Errorf("sim: unknown error model %q", j.ErrorModel)
	}
	link.BlerTarget = j.BlerTarget
	link.UsableSubcarriers = j.UsableSubcarriers

	if j.Probe != nil {
		link.Probe = &model.ProbeConfig{
			CqiGain:       j.Probe.CqiGain,
			StepDuration:  time.Duration(j.Probe.StepDurationMs) * time.Millisecond,
			StepFrequency: time.Duration(j.Probe.StepFrequencyMs) * time.Millisecond,
		}
		link.ProbeSeedCqi = j.Probe.SeedCqi
	}
	return link, nil
}

// BuildAmc wires a Scenario's link configuration into a ready-to-run AMC
// instance bound to the given clock.
func BuildAmc(sc *Scenario, clock timectrl.SimClock, log logging.Logger) (*amc.Amc, error) {
	var em amc.ErrorModel
	if sc.Link.ErrorModel == "reference" {
		em = phy.NewReferenceModel()
	} else {
		em = phy.NewCodedModel()
	}

	opts := []amc.Option{
		amc.WithClock(clock),
		amc.WithLogger(log),
		amc.WithModel(sc.Link.Model),
		amc.WithPolicy(sc.Link.Policy),
	}
	if sc.Link.BlerTarget > 0 {
		opts = append(opts, amc.WithBlerTarget(sc.Link.BlerTarget))
	}
	if sc.Link.UsableSubcarriers > 0 {
		opts = append(opts, amc.WithUsableSubcarriers(sc.Link.UsableSubcarriers))
	}
	opts = append(opts, amc.WithDirection(sc.Link.Direction))

	a, err := amc.New(em, opts...)
	if err != nil {
		return nil, err
	}
	if sc.Link.Probe != nil {
		if err := a.EnableProbing(*sc.Link.Probe, sc.Link.ProbeSeedCqi); err != nil {
			return nil, err
		}
	}
	return a, nil
}
