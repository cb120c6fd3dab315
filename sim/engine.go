package sim

import (
	"context"
	"fmt"

	"github.com/signalsfoundry/linkadapt-simulator/amc"
	"github.com/signalsfoundry/linkadapt-simulator/internal/logging"
	"github.com/signalsfoundry/linkadapt-simulator/model"
	"github.com/signalsfoundry/linkadapt-simulator/timectrl"
)

// Engine replays a SINR trace against one AMC instance, advancing the
// simulation clock one tick per sample. Decisions run synchronously in trace
// order, so runs are exactly reproducible.
type Engine struct {
	Amc   *amc.Amc
	Clock *timectrl.TimeController

	log           logging.Logger
	tickListeners []func(tick int, sel amc.Selection)
}

// NewEngine constructs an engine around an AMC instance and its clock.
func NewEngine(a *amc.Amc, clock *timectrl.TimeController, log logging.Logger) *Engine {
	if log == nil {
		log = logging.Noop()
	}
	return &Engine{Amc: a, Clock: clock, log: log}
}

// RegisterTickListener registers a callback invoked after every decision.
func (e *Engine) RegisterTickListener(fn func(tick int, sel amc.Selection)) {
	e.tickListeners = append(e.tickListeners, fn)
}

// Run replays the trace and returns the per-tick selections. The decision
// for sample i is taken at simulation time start + i*tick.
func (e *Engine) Run(trace []model.ChannelQualitySample) ([]amc.Selection, error) {
	selections := make([]amc.Selection, 0, len(trace))
	for tick, sample := range trace {
		sel, err := e.Amc.SelectCqiAndMcs(sample)
		if err != nil {
			return selections, fmt.Errorf("sim: decision at tick %d: %w", tick, err)
		}
		selections = append(selections, sel)

		for _, fn := range e.tickListeners {
			fn(tick, sel)
		}
		e.Clock.Step()
	}

	snap := e.Amc.Metrics().Snapshot()
	e.log.Info(context.Background(), "trace replay finished",
		logging.Int("ticks", len(trace)),
		logging.Any("decisions", snap.NumDecisions),
		logging.Any("predictor_evals", snap.NumPredictorEvals),
	)
	return selections, nil
}
