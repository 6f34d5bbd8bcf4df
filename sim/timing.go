package sim

import (
	"fmt"
	"time"
)

// Phase names one timed section of a sensing tick.
type Phase int

const (
	PhaseSensingAction      Phase = iota // planner chooses a sensing action
	PhaseObservation                     // model samples an observation
	PhaseUpdateBelief                    // planner folds the observation into its belief
	PhaseUpdateBeliefTotal               // observation sampling through belief update
	PhaseTaskAction                      // planner chooses a task action
	PhasePredictBelief                   // belief prediction plus true-state advance
	PhasePredictBeliefTotal              // task-action choice through true-state advance
	numPhases
)

var phaseNames = [numPhases]string{
	PhaseSensingAction:      "sensing_action",
	PhaseObservation:        "observation",
	PhaseUpdateBelief:       "update_belief",
	PhaseUpdateBeliefTotal:  "update_belief_total",
	PhaseTaskAction:         "task_action",
	PhasePredictBelief:      "predict_belief",
	PhasePredictBeliefTotal: "predict_belief_total",
}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Phases lists every timed phase in reporting order.
func Phases() []Phase {
	out := make([]Phase, numPhases)
	for i := range out {
		out[i] = Phase(i)
	}
	return out
}

// PhaseTimer accumulates wall-clock durations per phase. Each phase is an
// independent span: composite phases are measured with their own Begin/End
// pair rather than summed from the phases they cover.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PhaseTimer struct {
	now      func() time.Time
	started  [numPhases]time.Time
	open     [numPhases]bool
	sums     [numPhases]time.Duration
	averages [numPhases]time.Duration
	observer func(Phase, time.Duration)
}

// NewPhaseTimer returns a timer reading the wall clock.
func NewPhaseTimer() *PhaseTimer {
	return &PhaseTimer{now: time.Now}
}

// Reset zeroes all sums and averages and drops any open spans.
func (pt *PhaseTimer) Reset() {
	pt.started = [numPhases]time.Time{}
	pt.open = [numPhases]bool{}
	pt.sums = [numPhases]time.Duration{}
	pt.averages = [numPhases]time.Duration{}
}

// Begin opens a span for phase p. Re-opening an open span restarts it.
func (pt *PhaseTimer) Begin(p Phase) {
	pt.started[p] = pt.now()
	pt.open[p] = true
}

// End closes the span for phase p, adds its elapsed time to the phase sum
// and returns it. Ending a phase that was never begun is a no-op.
func (pt *PhaseTimer) End(p Phase) time.Duration {
	if !pt.open[p] {
		return 0
	}
	elapsed := pt.now().Sub(pt.started[p])
	pt.open[p] = false
	pt.sums[p] += elapsed
	if pt.observer != nil {
		pt.observer(p, elapsed)
	}
	return elapsed
}

// Sum returns the accumulated duration for p.
func (pt *PhaseTimer) Sum(p Phase) time.Duration { return pt.sums[p] }

// Finalize turns sums into per-sample averages. With samples <= 0 every
// average is zero.
func (pt *PhaseTimer) Finalize(samples int) {
	for p := range pt.sums {
		if samples <= 0 {
			pt.averages[p] = 0
			continue
		}
		pt.averages[p] = pt.sums[p] / time.Duration(samples)
	}
}

// Average returns the finalized average for p.
func (pt *PhaseTimer) Average(p Phase) time.Duration { return pt.averages[p] }

// AverageSeconds returns the finalized average for p in seconds.
func (pt *PhaseTimer) AverageSeconds(p Phase) float64 { return pt.averages[p].Seconds() }
