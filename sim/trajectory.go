package sim

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// SensingAction identifies a discrete choice of what to observe.
type SensingAction uint

// ErrNoInitialState is returned when a step is attempted before the
// trajectory has been seeded with an initial state.
var ErrNoInitialState = errors.New("trajectory has no initial state")

// Trajectory is the append-only record of one simulation run.
//
// Invariants:
//   - len(states) == len(taskActions)+1 once seeded
//   - len(sensingActions) == len(observations) <= len(taskActions)
type Trajectory struct {
	states         []*mat.VecDense
	taskActions    []*mat.VecDense
	sensingActions []SensingAction
	observations   []*mat.VecDense
	reward         float64
}

// Reset clears all recorded entries and zeroes the reward.
func (t *Trajectory) Reset() {
	t.states = nil
	t.taskActions = nil
	t.sensingActions = nil
	t.observations = nil
	t.reward = 0
}

// Seed replaces any recorded states with a copy of initial.
func (t *Trajectory) Seed(initial *mat.VecDense) {
	t.states = append(t.states[:0], mat.VecDenseCopyOf(initial))
}

// Last returns the most recent state, or nil before Seed.
func (t *Trajectory) Last() *mat.VecDense {
	if len(t.states) == 0 {
		return nil
	}
	return t.states[len(t.states)-1]
}

// Len returns the number of recorded states.
func (t *Trajectory) Len() int { return len(t.states) }

// appendStep records a transition produced by the step executor.
func (t *Trajectory) appendStep(state, taskAction *mat.VecDense, reward float64) {
	t.states = append(t.states, state)
	t.taskActions = append(t.taskActions, mat.VecDenseCopyOf(taskAction))
	t.reward += reward
}

// appendSensing records the sensing action and observation of a sensing tick.
func (t *Trajectory) appendSensing(action SensingAction, observation *mat.VecDense) {
	t.sensingActions = append(t.sensingActions, action)
	t.observations = append(t.observations, mat.VecDenseCopyOf(observation))
}

// States returns a deep copy of the visited states.
func (t *Trajectory) States() []*mat.VecDense { return copyVecs(t.states) }

// TaskActions returns a deep copy of the task actions taken.
func (t *Trajectory) TaskActions() []*mat.VecDense { return copyVecs(t.taskActions) }

// Observations returns a deep copy of the observations received on sensing ticks.
func (t *Trajectory) Observations() []*mat.VecDense { return copyVecs(t.observations) }

// SensingActions returns a copy of the sensing actions chosen on sensing ticks.
func (t *Trajectory) SensingActions() []SensingAction {
	out := make([]SensingAction, len(t.sensingActions))
	copy(out, t.sensingActions)
	return out
}

// CumulativeReward returns the reward accrued so far.
func (t *Trajectory) CumulativeReward() float64 { return t.reward }

func copyVecs(in []*mat.VecDense) []*mat.VecDense {
	out := make([]*mat.VecDense, len(in))
	for i, v := range in {
		out[i] = mat.VecDenseCopyOf(v)
	}
	return out
}

// vecValues returns a copy of v's elements, or nil for a nil vector.
func vecValues(v *mat.VecDense) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
