package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"membership-sim/internal/config"
	"membership-sim/internal/logging"
	"membership-sim/internal/scenario"
	"membership-sim/internal/sim"
)

var (
	simConfigPath  string
	simSchemaPath  string
	simScenario    string
	simFormat      string
	simLogFile     string
	simResultFile  string
	simMetricsFile string
	simSeed        uint64
	simWorkers     int
	simIterations  int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the Monte-Carlo cost comparison",
	Long: "simulate generates a network, perturbs it with compromise, leave and drain events " +
		"and prints the averaged cost curves of every configured scheme.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadExperiment(cmd, simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("seed") {
			cfg.Simulation.Seed = simSeed
		}
		if cmd.Flags().Changed("workers") {
			cfg.Simulation.Workers = simWorkers
		}
		if cmd.Flags().Changed("iterations") {
			cfg.Simulation.Iterations = simIterations
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		experiments := []config.Experiment{*cfg}
		if simScenario != "" {
			sc, err := scenario.Resolve(simScenario)
			if err != nil {
				return err
			}
			experiments = sc.Apply(*cfg)
			for i := range experiments {
				if err := experiments[i].Validate(); err != nil {
					return err
				}
			}
		}

		writer, tui, cleanup, err := newWriters(cfg, simFormat, simLogFile, simResultFile)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		log := logging.FromContext(ctx)
		if tui != nil {
			ctx = logging.NewContext(ctx, logging.Discard())
		}

		metrics := sim.NewMetrics()
		opts := []sim.DriverOption{sim.WithMetrics(metrics)}
		if tui != nil {
			opts = append(opts, sim.WithObserver(tui))
		}

		if err := runExperiments(ctx, experiments, writer, opts); err != nil {
			if tui != nil {
				tui.Close()
			}
			return err
		}
		if tui != nil {
			tui.Finish()
		}

		if simMetricsFile != "" {
			if err := metrics.WriteTextfile(simMetricsFile); err != nil {
				return err
			}
			log.Info("metrics written", "path", simMetricsFile)
		}
		return nil
	},
}

func runExperiments(ctx context.Context, experiments []config.Experiment, writer sim.CurveWriter, opts []sim.DriverOption) error {
	log := logging.FromContext(ctx)
	for i := range experiments {
		e := &experiments[i]
		res, err := sim.RunExperiment(ctx, e, opts...)
		if err != nil {
			return err
		}
		if res.Empty() {
			log.Warn("experiment produced no curves", "experiment", e.Name)
		}
		if err := sim.Emit(writer, res); err != nil {
			return err
		}
	}
	return nil
}

// loadExperiment loads the config file when given, validating it against the
// schema, and falls back to the defaults otherwise.
func loadExperiment(cmd *cobra.Command, configPath, schemaPath string) (*config.Experiment, error) {
	cfg, err := config.Load(configPath, schemaPath)
	if err != nil {
		return nil, err
	}
	logging.FromContext(cmd.Context()).Debug("configuration loaded", "name", cfg.Name, "config", configPath)
	return cfg, nil
}

func addConfigFlags(cmd *cobra.Command, configPath, schemaPath *string) {
	cmd.Flags().StringVar(configPath, "config", "", "Path to experiment configuration YAML (defaults to the built-in baseline)")
	cmd.Flags().StringVar(schemaPath, "schema", "schemas/experiment.cue", "Path to CUE schema file, empty to skip validation")
}

func init() {
	addConfigFlags(simulateCmd, &simConfigPath, &simSchemaPath)
	simulateCmd.Flags().StringVar(&simScenario, "scenario", "", "Built-in scenario name or scenario YAML file to sweep")
	simulateCmd.Flags().StringVar(&simFormat, "format", formatAuto, "Output format: auto, json, table, color, tui")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export curve rows (JSONL)")
	simulateCmd.Flags().StringVar(&simResultFile, "result-file", "", "Path to export the full run result (JSON)")
	simulateCmd.Flags().StringVar(&simMetricsFile, "metrics-file", "", "Path to write Prometheus textfile metrics")
	simulateCmd.Flags().Uint64Var(&simSeed, "seed", 0, "Override the random seed")
	simulateCmd.Flags().IntVar(&simWorkers, "workers", 0, "Override the number of parallel workers")
	simulateCmd.Flags().IntVar(&simIterations, "iterations", 0, "Override the iteration count")
}
