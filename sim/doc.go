// Package sim provides the simulation loop for a partially observable
// decision process: sense, update the belief, act, advance the true state.
//
// # Reading Guide
//
// Start with these files:
//   - collaborators.go: the Model, Planner and StatePublisher contracts
//   - simulator.go: the tick loop and the step executor
//   - trajectory.go: the append-only record of a run
//   - timing.go: begin/end phase timing and per-phase averages
//
// # Architecture
//
// The sim package owns only the loop and its bookkeeping. Collaborators live
// elsewhere:
//   - sim/line/: reference line-walk Model and particle-filter Planner
//   - sim/marker/: JSON-lines visualization sink (marker + frame transform)
//   - sim/trace/: per-tick trace records, summary and CSV export
//   - sim/report/: trajectory plots
//
// # Sensing cadence
//
// Tick n senses iff n % (SensingInterval+1) == 0. Non-sensing ticks skip the
// sensing action and observation but still advance the true state.
package sim
