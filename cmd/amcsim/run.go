package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/linkadapt-simulator/amc"
	"github.com/signalsfoundry/linkadapt-simulator/internal/logging"
	"github.com/signalsfoundry/linkadapt-simulator/internal/observability"
	"github.com/signalsfoundry/linkadapt-simulator/sim"
	"github.com/signalsfoundry/linkadapt-simulator/timectrl"
)

var (
	scenarioPath string
	metricsAddr  string
	printPerTick bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one scenario and print the decision trace",
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(runScenario())
	},
}

func init() {
	runCmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "path to the JSON scenario file")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "listen address for the Prometheus /metrics endpoint (disabled when empty)")
	runCmd.Flags().BoolVar(&printPerTick, "per-tick", false, "print one line per tick instead of only the summary")
	_ = runCmd.MarkFlagRequired("scenario")
	rootCmd.AddCommand(runCmd)
}

func runScenario() error {
	ctx := context.Background()
	log := logging.NewFromEnv()

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown, log)

	f, err := os.Open(scenarioPath)
	if err != nil {
		return fmt.Errorf("open scenario: %w", err)
	}
	defer f.Close()

	sc, err := sim.LoadScenario(f)
	if err != nil {
		return err
	}

	clock := timectrl.NewTimeController(sc.Start, sc.Tick)
	adaptor, err := sim.BuildAmc(sc, clock, log)
	if err != nil {
		return err
	}
	engine := sim.NewEngine(adaptor, clock, log)

	var collector *observability.AmcCollector
	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		collector, err = observability.NewAmcCollector(reg)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		engine.RegisterTickListener(func(tick int, sel amc.Selection) {
			collector.ObserveDecision(string(sc.Link.Policy), sel)
		})
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", collector.Handler())
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				log.Warn(ctx, "metrics server stopped", logging.String("error", err.Error()))
			}
		}()
	}

	if printPerTick {
		engine.RegisterTickListener(func(tick int, sel amc.Selection) {
			fmt.Printf("%d\tcqi=%d\tmcs=%d\ttb=%d\tbler=%.4f\n",
				tick, sel.Cqi, sel.Mcs, sel.TbSize, sel.Bler)
		})
	}

	tracer := otel.Tracer("amcsim")
	_, span := tracer.Start(ctx, "scenario-run",
		trace.WithAttributes(
			attribute.String("policy", string(sc.Link.Policy)),
			attribute.Int("ticks", len(sc.Trace)),
		))

	selections, err := engine.Run(sc.Trace)
	span.End()
	if err != nil {
		return err
	}

	if collector != nil {
		collector.SyncCounters(adaptor.Metrics().Snapshot())
	}

	snap := adaptor.Metrics().Snapshot()
	fmt.Printf("ticks=%d decisions=%d cqi0=%d cqi15=%d predictor_evals=%d probe_raises=%d probe_reverts=%d\n",
		len(selections), snap.NumDecisions, snap.NumCqiFloor, snap.NumCqiCeiling,
		snap.NumPredictorEvals, snap.NumProbeRaises, snap.NumProbeReverts)
	return nil
}
