package sim

import (
	"fmt"

	"github.com/inference-sim/belief-sim/sim/trace"
)

// SimConfig groups the simulation loop parameters for NewSimulator.
type SimConfig struct {
	SensingInterval int              // non-sensing ticks between sensing ticks (>= 0)
	TraceLevel      trace.TraceLevel // "none" (default) or "ticks"
}

// NewSimConfig creates a SimConfig. No defaults are injected.
func NewSimConfig(sensingInterval int, traceLevel trace.TraceLevel) SimConfig {
	return SimConfig{
		SensingInterval: sensingInterval,
		TraceLevel:      traceLevel,
	}
}

// Validate checks the loop parameters.
func (c SimConfig) Validate() error {
	if c.SensingInterval < 0 {
		return fmt.Errorf("sensing interval must be non-negative, got %d", c.SensingInterval)
	}
	if !trace.IsValidTraceLevel(string(c.TraceLevel)) {
		return fmt.Errorf("unknown trace level %q; valid: none, ticks", c.TraceLevel)
	}
	return nil
}
