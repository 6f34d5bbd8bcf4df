// Package trace provides per-tick trace recording for offline run analysis.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

// TickRecord captures one executed tick of a simulation run.
// SensingAction and Observation are meaningful only when Sensed is true.
type TickRecord struct {
	Tick          int
	Sensed        bool
	SensingAction uint
	Observation   []float64
	BeliefState   []float64 // planner's maximum-likelihood state after the tick
	TaskAction    []float64
	State         []float64 // true state after the tick
	Reward        float64   // reward earned on this tick
}
