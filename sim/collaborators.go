package sim

import "gonum.org/v1/gonum/mat"

// Model samples the true dynamics of the environment.
// Implementations must not retain or mutate the vectors they are given.
type Model interface {
	// SampleNextState draws the successor of state under a task action.
	SampleNextState(state, action *mat.VecDense) (*mat.VecDense, error)

	// Reward scores arriving in state after applying action.
	Reward(state, action *mat.VecDense) float64

	// SampleObservation draws what sensing action reveals about state.
	SampleObservation(state *mat.VecDense, sensing SensingAction) (*mat.VecDense, error)

	// IsTerminal reports whether state ends the episode.
	IsTerminal(state *mat.VecDense) bool

	// PublishMap emits any map or geometry representation. May be a no-op.
	PublishMap()
}

// Planner maintains a belief over the hidden state and chooses actions.
type Planner interface {
	// Reset returns the belief to its prior.
	Reset()

	// NormalizeBelief performs numerical housekeeping on the belief.
	NormalizeBelief()

	// SensingAction chooses what to observe on a sensing tick.
	SensingAction() SensingAction

	// UpdateBelief conditions the belief on an observation.
	UpdateBelief(sensing SensingAction, observation *mat.VecDense) error

	// TaskAction chooses the control input under the current belief.
	TaskAction() *mat.VecDense

	// PredictBelief pushes the belief forward under a task action.
	PredictBelief(action *mat.VecDense) error

	// MaximumLikelihoodState is the belief's most likely state. Reporting only.
	MaximumLikelihoodState() *mat.VecDense

	// PublishParticles emits the belief representation. May be a no-op.
	PublishParticles()
}

// StatePublisher is the optional visualization sink for the true state.
// It has no effect on simulation semantics.
type StatePublisher interface {
	PublishState(state *mat.VecDense) error
}
