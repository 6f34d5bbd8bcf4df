package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/belief-sim/sim"
	"github.com/inference-sim/belief-sim/sim/line"
	"github.com/inference-sim/belief-sim/sim/trace"
)

// SimulationSection configures the control loop.
type SimulationSection struct {
	Seed            int64     `yaml:"seed"`
	MaxTicks        int       `yaml:"max_ticks"`
	SensingInterval int       `yaml:"sensing_interval"`
	Verbosity       int       `yaml:"verbosity"`
	TraceLevel      string    `yaml:"trace_level"`
	InitialState    []float64 `yaml:"initial_state"`
}

// ModelSection configures the line-walk dynamics.
type ModelSection struct {
	Goal             []float64 `yaml:"goal"`
	StepReward       float64   `yaml:"step_reward"`
	TransitionNoise  float64   `yaml:"transition_noise"`
	ObservationNoise []float64 `yaml:"observation_noise"`
}

// PlannerSection configures the particle-filter planner.
type PlannerSection struct {
	StepSize     float64   `yaml:"step_size"`
	NumParticles int       `yaml:"num_particles"`
	PriorMean    []float64 `yaml:"prior_mean"`
	PriorStdDev  float64   `yaml:"prior_stddev"`
}

// RunConfig is the full run configuration file.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type RunConfig struct {
	Version    string            `yaml:"version"`
	Simulation SimulationSection `yaml:"simulation"`
	Model      ModelSection      `yaml:"model"`
	Planner    PlannerSection    `yaml:"planner"`
}

// DefaultRunConfig is a 1-D walk from 0 to 10 with two sensors.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Version: "1",
		Simulation: SimulationSection{
			Seed:            42,
			MaxTicks:        100,
			SensingInterval: 1,
			TraceLevel:      string(trace.TraceLevelNone),
			InitialState:    []float64{0},
		},
		Model: ModelSection{
			Goal:             []float64{10},
			StepReward:       -1,
			TransitionNoise:  0.05,
			ObservationNoise: []float64{0.5, 0.2},
		},
		Planner: PlannerSection{
			StepSize:     1,
			NumParticles: 200,
			PriorMean:    []float64{0},
			PriorStdDev:  0.1,
		},
	}
}

// LoadRunConfig reads a run config from path on top of DefaultRunConfig.
// Fields absent from the file keep their defaults; unknown fields are errors.
func LoadRunConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading run config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing run config %s: %w", path, err)
	}
	return cfg, nil
}

// LineConfig maps the model and planner sections onto line.Config.
func (c *RunConfig) LineConfig() line.Config {
	return line.Config{
		Goal:             c.Model.Goal,
		StepReward:       c.Model.StepReward,
		TransitionNoise:  c.Model.TransitionNoise,
		ObservationNoise: c.Model.ObservationNoise,
		StepSize:         c.Planner.StepSize,
		NumParticles:     c.Planner.NumParticles,
		PriorMean:        c.Planner.PriorMean,
		PriorStdDev:      c.Planner.PriorStdDev,
	}
}

// SimConfig maps the simulation section onto sim.SimConfig.
func (c *RunConfig) SimConfig() sim.SimConfig {
	return sim.NewSimConfig(c.Simulation.SensingInterval, trace.TraceLevel(c.Simulation.TraceLevel))
}

// Validate checks every section. Errors name the offending field.
func (c *RunConfig) Validate() error {
	s := c.Simulation
	if s.MaxTicks < 0 {
		return fmt.Errorf("simulation.max_ticks must be non-negative, got %d", s.MaxTicks)
	}
	if s.Verbosity < 0 {
		return fmt.Errorf("simulation.verbosity must be non-negative, got %d", s.Verbosity)
	}
	simCfg := c.SimConfig()
	if err := simCfg.Validate(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	lineCfg := c.LineConfig()
	if err := lineCfg.Validate(); err != nil {
		return fmt.Errorf("model/planner: %w", err)
	}
	if len(s.InitialState) != lineCfg.Dim() {
		return fmt.Errorf("simulation.initial_state has %d components, model.goal has %d",
			len(s.InitialState), lineCfg.Dim())
	}
	return nil
}
