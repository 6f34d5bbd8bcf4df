package line

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/inference-sim/belief-sim/sim"
	"github.com/inference-sim/belief-sim/sim/marker"
)

// Model is the true line-walk environment.
type Model struct {
	cfg      Config
	transRNG *rand.Rand
	obsRNG   *rand.Rand
}

// NewModel creates a Model drawing noise from the transition and observation
// subsystems of rng.
func NewModel(cfg Config, rng *sim.PartitionedRNG) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Model{
		cfg:      cfg,
		transRNG: rng.ForSubsystem(sim.SubsystemTransition),
		obsRNG:   rng.ForSubsystem(sim.SubsystemObservation),
	}, nil
}

// SampleNextState returns state + action plus transition noise.
func (m *Model) SampleNextState(state, action *mat.VecDense) (*mat.VecDense, error) {
	if state.Len() != m.cfg.Dim() || action.Len() != m.cfg.Dim() {
		return nil, fmt.Errorf("dimension mismatch: state %d, action %d, model %d", state.Len(), action.Len(), m.cfg.Dim())
	}
	next := mat.NewVecDense(state.Len(), nil)
	next.AddVec(state, action)
	if m.cfg.TransitionNoise > 0 {
		for i := 0; i < next.Len(); i++ {
			next.SetVec(i, next.AtVec(i)+m.transRNG.NormFloat64()*m.cfg.TransitionNoise)
		}
	}
	return next, nil
}

// Reward is the constant per-tick reward.
func (m *Model) Reward(_, _ *mat.VecDense) float64 {
	return m.cfg.StepReward
}

// SampleObservation reads the state through sensor `sensing`.
func (m *Model) SampleObservation(state *mat.VecDense, sensing sim.SensingAction) (*mat.VecDense, error) {
	if int(sensing) >= len(m.cfg.ObservationNoise) {
		return nil, fmt.Errorf("unknown sensing action %d; %d sensors configured", sensing, len(m.cfg.ObservationNoise))
	}
	sigma := m.cfg.ObservationNoise[sensing]
	obs := mat.NewVecDense(state.Len(), nil)
	for i := 0; i < state.Len(); i++ {
		obs.SetVec(i, state.AtVec(i)+m.obsRNG.NormFloat64()*sigma)
	}
	return obs, nil
}

// IsTerminal reports whether every component has reached its goal.
func (m *Model) IsTerminal(state *mat.VecDense) bool {
	for i, g := range m.cfg.Goal {
		if state.AtVec(i) < g {
			return false
		}
	}
	return true
}

// PublishMap logs the goal; the line world has no other geometry.
func (m *Model) PublishMap() {
	logrus.Tracef("map: goal=%v", m.cfg.Goal)
}

// FillMarker places the marker at the state's first three components.
func (m *Model) FillMarker(state *mat.VecDense, mk *marker.Marker) {
	pos := [3]float64{}
	for i := 0; i < state.Len() && i < 3; i++ {
		pos[i] = state.AtVec(i)
	}
	mk.Pose.Position = marker.Point{X: pos[0], Y: pos[1], Z: pos[2]}
	mk.Scale = marker.Vector3{X: 0.2, Y: 0.2, Z: 0.2}
}
