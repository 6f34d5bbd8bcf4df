package line

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/inference-sim/belief-sim/sim"
)

// ParticlePlanner keeps a weighted particle belief over the line-walk state,
// senses with the least noisy sensor and steps towards the goal from the
// belief mean.
type ParticlePlanner struct {
	cfg        Config
	rng        *rand.Rand
	particles  []*mat.VecDense
	logWeights []float64
}

// NewParticlePlanner creates a planner drawing from the planner subsystem of rng.
func NewParticlePlanner(cfg Config, rng *sim.PartitionedRNG) (*ParticlePlanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &ParticlePlanner{cfg: cfg, rng: rng.ForSubsystem(sim.SubsystemPlanner)}
	p.Reset()
	return p, nil
}

// Reset redraws the particles from the prior with uniform weights.
func (p *ParticlePlanner) Reset() {
	n, dim := p.cfg.NumParticles, p.cfg.Dim()
	p.particles = make([]*mat.VecDense, n)
	p.logWeights = make([]float64, n)
	uniform := -math.Log(float64(n))
	for i := range p.particles {
		v := mat.NewVecDense(dim, nil)
		for j := 0; j < dim; j++ {
			v.SetVec(j, p.cfg.PriorMean[j]+p.rng.NormFloat64()*p.cfg.PriorStdDev)
		}
		p.particles[i] = v
		p.logWeights[i] = uniform
	}
}

// NormalizeBelief rescales the weights to sum to one. A degenerate belief
// (all weights zero) falls back to uniform.
func (p *ParticlePlanner) NormalizeBelief() {
	lse := floats.LogSumExp(p.logWeights)
	if math.IsInf(lse, -1) || math.IsNaN(lse) {
		uniform := -math.Log(float64(len(p.logWeights)))
		for i := range p.logWeights {
			p.logWeights[i] = uniform
		}
		return
	}
	floats.AddConst(-lse, p.logWeights)
}

// SensingAction picks the sensor with the smallest noise.
func (p *ParticlePlanner) SensingAction() sim.SensingAction {
	return sim.SensingAction(floats.MinIdx(p.cfg.ObservationNoise))
}

// UpdateBelief reweights particles by the observation likelihood and
// resamples when the effective sample size drops below half.
func (p *ParticlePlanner) UpdateBelief(sensing sim.SensingAction, observation *mat.VecDense) error {
	if int(sensing) >= len(p.cfg.ObservationNoise) {
		return fmt.Errorf("unknown sensing action %d", sensing)
	}
	if observation.Len() != p.cfg.Dim() {
		return fmt.Errorf("observation has %d components, want %d", observation.Len(), p.cfg.Dim())
	}
	sigma := p.cfg.ObservationNoise[sensing]
	for i, particle := range p.particles {
		for j := 0; j < particle.Len(); j++ {
			d := distuv.Normal{Mu: particle.AtVec(j), Sigma: sigma}
			p.logWeights[i] += d.LogProb(observation.AtVec(j))
		}
	}
	p.NormalizeBelief()
	if p.effectiveSampleSize() < float64(len(p.particles))/2 {
		p.resample()
	}
	return nil
}

// TaskAction steps from the belief mean towards the goal, clamped to StepSize
// per component.
func (p *ParticlePlanner) TaskAction() *mat.VecDense {
	mean := p.Mean()
	action := mat.NewVecDense(mean.Len(), nil)
	for j := 0; j < mean.Len(); j++ {
		delta := p.cfg.Goal[j] - mean.AtVec(j)
		action.SetVec(j, math.Max(-p.cfg.StepSize, math.Min(p.cfg.StepSize, delta)))
	}
	return action
}

// PredictBelief moves every particle by action plus transition noise.
func (p *ParticlePlanner) PredictBelief(action *mat.VecDense) error {
	if action.Len() != p.cfg.Dim() {
		return fmt.Errorf("action has %d components, want %d", action.Len(), p.cfg.Dim())
	}
	for _, particle := range p.particles {
		particle.AddVec(particle, action)
		if p.cfg.TransitionNoise > 0 {
			for j := 0; j < particle.Len(); j++ {
				particle.SetVec(j, particle.AtVec(j)+p.rng.NormFloat64()*p.cfg.TransitionNoise)
			}
		}
	}
	return nil
}

// MaximumLikelihoodState returns the highest-weight particle.
func (p *ParticlePlanner) MaximumLikelihoodState() *mat.VecDense {
	return mat.VecDenseCopyOf(p.particles[floats.MaxIdx(p.logWeights)])
}

// Mean returns the weighted mean of the particles.
func (p *ParticlePlanner) Mean() *mat.VecDense {
	mean := mat.NewVecDense(p.cfg.Dim(), nil)
	lse := floats.LogSumExp(p.logWeights)
	for i, particle := range p.particles {
		mean.AddScaledVec(mean, math.Exp(p.logWeights[i]-lse), particle)
	}
	return mean
}

// PublishParticles logs a belief digest.
func (p *ParticlePlanner) PublishParticles() {
	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		logrus.Tracef("particles: n=%d mean=%v ess=%.1f", len(p.particles), p.Mean().RawVector().Data, p.effectiveSampleSize())
	}
}

func (p *ParticlePlanner) effectiveSampleSize() float64 {
	lse := floats.LogSumExp(p.logWeights)
	var sumSq float64
	for _, lw := range p.logWeights {
		w := math.Exp(lw - lse)
		sumSq += w * w
	}
	if sumSq == 0 {
		return 0
	}
	return 1 / sumSq
}

// resample draws a new uniformly weighted particle set by systematic resampling.
func (p *ParticlePlanner) resample() {
	n := len(p.particles)
	lse := floats.LogSumExp(p.logWeights)
	cumulative := make([]float64, n)
	var acc float64
	for i, lw := range p.logWeights {
		acc += math.Exp(lw - lse)
		cumulative[i] = acc
	}

	next := make([]*mat.VecDense, n)
	u := p.rng.Float64() / float64(n)
	j := 0
	for i := 0; i < n; i++ {
		target := u + float64(i)/float64(n)
		for j < n-1 && cumulative[j] < target {
			j++
		}
		next[i] = mat.VecDenseCopyOf(p.particles[j])
	}
	p.particles = next
	uniform := -math.Log(float64(n))
	for i := range p.logWeights {
		p.logWeights[i] = uniform
	}
}
