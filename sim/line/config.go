// Package line provides a reference Model and Planner for the simulator: an
// agent walking towards a goal in R^n with Gaussian transition noise, a bank of
// noisy position sensors, and a particle-filter belief.
package line

import (
	"fmt"
	"math"
)

// Config parameterizes both the line-walk Model and its ParticlePlanner.
type Config struct {
	Goal             []float64 // terminal once every component is reached or passed
	StepReward       float64   // reward earned on every tick
	TransitionNoise  float64   // stddev of additive transition noise per component
	ObservationNoise []float64 // stddev per sensor; sensing action k reads sensor k
	StepSize         float64   // max task-action magnitude per component
	NumParticles     int       // belief size
	PriorMean        []float64 // belief prior mean
	PriorStdDev      float64   // belief prior spread per component
}

// Dim returns the state dimension.
func (c *Config) Dim() int { return len(c.Goal) }

// Validate checks that all fields in the config are valid.
func (c *Config) Validate() error {
	if len(c.Goal) == 0 {
		return fmt.Errorf("goal must have at least one component")
	}
	if len(c.PriorMean) != len(c.Goal) {
		return fmt.Errorf("prior_mean has %d components, goal has %d", len(c.PriorMean), len(c.Goal))
	}
	if len(c.ObservationNoise) == 0 {
		return fmt.Errorf("at least one sensor (observation_noise entry) required")
	}
	for i, s := range c.ObservationNoise {
		if err := validateFinitePositive(fmt.Sprintf("observation_noise[%d]", i), s); err != nil {
			return err
		}
	}
	if err := validateFiniteNonNegative("transition_noise", c.TransitionNoise); err != nil {
		return err
	}
	if err := validateFiniteNonNegative("prior_stddev", c.PriorStdDev); err != nil {
		return err
	}
	if err := validateFinitePositive("step_size", c.StepSize); err != nil {
		return err
	}
	if c.NumParticles <= 0 {
		return fmt.Errorf("num_particles must be positive, got %d", c.NumParticles)
	}
	return nil
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val <= 0 {
		return fmt.Errorf("%s must be positive, got %f", name, val)
	}
	return nil
}

func validateFiniteNonNegative(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val < 0 {
		return fmt.Errorf("%s must be non-negative, got %f", name, val)
	}
	return nil
}
