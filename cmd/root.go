package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/inference-sim/belief-sim/sim"
	"github.com/inference-sim/belief-sim/sim/line"
	"github.com/inference-sim/belief-sim/sim/marker"
	"github.com/inference-sim/belief-sim/sim/report"
	"github.com/inference-sim/belief-sim/sim/trace"
)

var (
	configPath      string // YAML run config; defaults apply when empty
	seed            int64  // Seed for transition, observation and planner noise
	maxTicks        int    // Tick budget
	sensingInterval int    // Non-sensing ticks between sensing ticks
	verbosity       int    // Per-tick reporting when > 0
	logLevel        string // Log verbosity level

	// Output paths; each output is skipped when its path is empty.
	markersPath string
	tracePath   string
	plotPath    string
	metricsPath string
)

// runOutputs collects the optional artifact paths of a run.
type runOutputs struct {
	Markers string // JSON-lines transform/marker stream
	Trace   string // per-tick CSV
	Plot    string // trajectory image
	Metrics string // Prometheus text exposition
}

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "belief-sim",
	Short: "Discrete-time simulator for belief-space planning",
}

// runCmd executes the simulation using the run config and CLI flag overrides
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a line-walk simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := DefaultRunConfig()
		if configPath != "" {
			if cfg, err = LoadRunConfig(configPath); err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		applyFlagOverrides(cmd, &cfg)

		// Per-tick reports are logged at info; make sure they are visible.
		if cfg.Simulation.Verbosity > 0 && logrus.GetLevel() < logrus.InfoLevel {
			logrus.SetLevel(logrus.InfoLevel)
		}

		out := runOutputs{Markers: markersPath, Trace: tracePath, Plot: plotPath, Metrics: metricsPath}
		if err := runSimulation(cfg, out, os.Stdout); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// applyFlagOverrides copies explicitly set flags over the loaded config.
// Only flags the user changed override; defaults never clobber file values.
func applyFlagOverrides(cmd *cobra.Command, cfg *RunConfig) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Simulation.Seed = seed
	}
	if flags.Changed("max-ticks") {
		cfg.Simulation.MaxTicks = maxTicks
	}
	if flags.Changed("sensing-interval") {
		cfg.Simulation.SensingInterval = sensingInterval
	}
	if flags.Changed("verbosity") {
		cfg.Simulation.Verbosity = verbosity
	}
}

// runSimulation builds the line-walk collaborators from cfg, runs one
// episode, prints the metrics report to stdout and writes the requested
// artifacts.
func runSimulation(cfg RunConfig, out runOutputs, stdout io.Writer) error {
	// A trace file needs tick records regardless of the configured level.
	if out.Trace != "" {
		cfg.Simulation.TraceLevel = string(trace.TraceLevelTicks)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid run config: %w", err)
	}

	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Simulation.Seed))
	lineCfg := cfg.LineConfig()
	model, err := line.NewModel(lineCfg, rng)
	if err != nil {
		return err
	}
	planner, err := line.NewParticlePlanner(lineCfg, rng)
	if err != nil {
		return err
	}

	var publisher sim.StatePublisher
	if out.Markers != "" {
		f, err := os.Create(out.Markers)
		if err != nil {
			return fmt.Errorf("creating marker stream: %w", err)
		}
		defer func() { _ = f.Close() }()
		publisher = marker.NewSink(f, model)
	}

	s, err := sim.NewSimulator(model, planner, cfg.SimConfig(), publisher)
	if err != nil {
		return err
	}
	reg, err := attachCollectors(s, out.Metrics)
	if err != nil {
		return err
	}

	logrus.Infof("Starting simulation: seed=%d, max_ticks=%d, sensing_interval=%d, goal=%v",
		cfg.Simulation.Seed, cfg.Simulation.MaxTicks, cfg.Simulation.SensingInterval, cfg.Model.Goal)
	startTime := time.Now()

	initial := mat.NewVecDense(len(cfg.Simulation.InitialState), append([]float64(nil), cfg.Simulation.InitialState...))
	if err := s.Simulate(initial, cfg.Simulation.MaxTicks, cfg.Simulation.Verbosity); err != nil {
		return err
	}
	logrus.Infof("Simulation wall time: %v", time.Since(startTime))

	s.Metrics().Print(stdout)
	if st := s.Trace(); st.Enabled() {
		summary := trace.Summarize(st)
		fmt.Fprintf(stdout, "Mean Reward per Tick : %.4f\n", summary.MeanReward)
	}

	if out.Trace != "" {
		if err := writeTraceCSV(out.Trace, s.Trace()); err != nil {
			return err
		}
	}
	if out.Plot != "" {
		if err := report.SaveTrajectoryPlot(out.Plot, s.States(), cfg.Simulation.SensingInterval); err != nil {
			return err
		}
	}
	if out.Metrics != "" {
		if err := writeMetrics(out.Metrics, reg); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "Path to YAML run config (defaults to a 1-D walk from 0 to 10)")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for transition, observation and planner noise")
	runCmd.Flags().IntVar(&maxTicks, "max-ticks", 100, "Tick budget")
	runCmd.Flags().IntVar(&sensingInterval, "sensing-interval", 1, "Non-sensing ticks between sensing ticks")
	runCmd.Flags().IntVar(&verbosity, "verbosity", 0, "Report every tick when > 0")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Outputs
	runCmd.Flags().StringVar(&markersPath, "markers", "", "Write the state marker stream (JSON lines) to this path")
	runCmd.Flags().StringVar(&tracePath, "trace", "", "Write the per-tick trace CSV to this path")
	runCmd.Flags().StringVar(&plotPath, "plot", "", "Save the trajectory plot to this path (.png, .svg, .pdf)")
	runCmd.Flags().StringVar(&metricsPath, "metrics", "", "Write Prometheus metrics in text format to this path")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
