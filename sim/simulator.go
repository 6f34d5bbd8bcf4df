// sim/simulator.go
package sim

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/inference-sim/belief-sim/sim/trace"
)

// Simulator drives the sense / update / act / advance loop over a Model and
// a Planner, recording the trajectory and phase timing of each run.
//
// Thread-safety: NOT thread-safe. Simulate must not be called concurrently
// on the same Simulator.
type Simulator struct {
	model           Model
	planner         Planner
	sensingInterval int
	traceLevel      trace.TraceLevel
	// publisher is the optional visualization sink; nil when absent.
	publisher  StatePublisher
	collectors *Collectors

	trajectory   Trajectory
	timer        *PhaseTimer
	trace        *trace.SimulationTrace
	runID        string
	ticks        int
	sensingTicks int
	terminal     bool
}

// tickResult is what one tick produced, for reporting and tracing.
type tickResult struct {
	n             int
	sensed        bool
	sensingAction SensingAction
	observation   *mat.VecDense
	taskAction    *mat.VecDense
	reward        float64
}

// NewSimulator creates a Simulator. publisher may be nil.
func NewSimulator(model Model, planner Planner, cfg SimConfig, publisher StatePublisher) (*Simulator, error) {
	if model == nil || planner == nil {
		return nil, fmt.Errorf("model and planner are required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{
		model:           model,
		planner:         planner,
		sensingInterval: cfg.SensingInterval,
		traceLevel:      cfg.TraceLevel,
		publisher:       publisher,
		timer:           NewPhaseTimer(),
	}, nil
}

// SetCollectors attaches Prometheus collectors. Pass nil to detach.
func (sim *Simulator) SetCollectors(c *Collectors) {
	sim.collectors = c
	if c == nil {
		sim.timer.observer = nil
		return
	}
	sim.timer.observer = c.observePhase
}

// reset clears every piece of per-run state and resets the planner's belief.
func (sim *Simulator) reset() {
	sim.trajectory.Reset()
	sim.timer.Reset()
	sim.planner.Reset()
	sim.ticks = 0
	sim.sensingTicks = 0
	sim.terminal = false
	sim.runID = uuid.NewString()
	sim.trace = trace.NewSimulationTrace(sim.runID, sim.traceLevel)
	if sim.collectors != nil {
		sim.collectors.CumulativeReward.Set(0)
	}
}

// Simulate runs one episode from initial until the model reports a terminal
// state or maxTicks ticks have executed. With verbosity > 0 every tick is
// reported through the logger. Collaborator errors end the run and are
// returned wrapped with the failing tick.
func (sim *Simulator) Simulate(initial *mat.VecDense, maxTicks int, verbosity int) error {
	sim.reset()
	if initial == nil {
		return ErrNoInitialState
	}
	sim.trajectory.Seed(initial)
	log := logrus.WithField("run_id", sim.runID)

	if verbosity > 0 {
		log.Infof("state = %v", formatVec(sim.trajectory.Last()))
	}
	sim.planner.PublishParticles()

	for {
		if sim.model.IsTerminal(sim.trajectory.Last()) {
			sim.terminal = true
			break
		}
		if sim.ticks >= maxTicks {
			break
		}

		sim.planner.NormalizeBelief()

		var res tickResult
		var err error
		if IsSensingTick(sim.ticks, sim.sensingInterval) {
			res, err = sim.sensingTick(sim.ticks)
		} else {
			res, err = sim.plainTick(sim.ticks)
		}
		if err != nil {
			sim.finalize(log)
			return err
		}
		logrus.Debugf("[tick %07d] sensed=%t reward=%g", res.n, res.sensed, res.reward)

		if verbosity > 0 || sim.trace.Enabled() {
			sim.record(log, res, verbosity)
		}
		sim.publish(log)
		sim.ticks++
	}

	sim.finalize(log)
	return nil
}

// sensingTick senses, updates the belief, then acts and advances. Each
// sub-step is timed, and the two composite windows are timed as their own
// spans.
func (sim *Simulator) sensingTick(n int) (tickResult, error) {
	res := tickResult{n: n, sensed: true}
	t := sim.timer

	t.Begin(PhaseSensingAction)
	res.sensingAction = sim.planner.SensingAction()
	t.End(PhaseSensingAction)

	t.Begin(PhaseUpdateBeliefTotal)
	t.Begin(PhaseObservation)
	obs, err := sim.model.SampleObservation(sim.trajectory.Last(), res.sensingAction)
	t.End(PhaseObservation)
	if err != nil {
		return res, fmt.Errorf("tick %d: sampling observation: %w", n, err)
	}
	res.observation = obs

	t.Begin(PhaseUpdateBelief)
	err = sim.planner.UpdateBelief(res.sensingAction, obs)
	t.End(PhaseUpdateBelief)
	t.End(PhaseUpdateBeliefTotal)
	if err != nil {
		return res, fmt.Errorf("tick %d: updating belief: %w", n, err)
	}

	t.Begin(PhasePredictBeliefTotal)
	t.Begin(PhaseTaskAction)
	res.taskAction = sim.planner.TaskAction()
	t.End(PhaseTaskAction)
	if res.taskAction == nil {
		return res, fmt.Errorf("tick %d: planner returned no task action", n)
	}

	t.Begin(PhasePredictBelief)
	if err := sim.planner.PredictBelief(res.taskAction); err != nil {
		return res, fmt.Errorf("tick %d: predicting belief: %w", n, err)
	}
	reward, err := sim.advanceSensed(res.sensingAction, obs, res.taskAction)
	t.End(PhasePredictBelief)
	t.End(PhasePredictBeliefTotal)
	if err != nil {
		return res, fmt.Errorf("tick %d: %w", n, err)
	}
	res.reward = reward

	sim.sensingTicks++
	if sim.collectors != nil {
		sim.collectors.Ticks.WithLabelValues(TickKindSensing).Inc()
	}
	return res, nil
}

// plainTick acts under the current belief without sensing.
func (sim *Simulator) plainTick(n int) (tickResult, error) {
	res := tickResult{n: n}

	res.taskAction = sim.planner.TaskAction()
	if res.taskAction == nil {
		return res, fmt.Errorf("tick %d: planner returned no task action", n)
	}
	if err := sim.planner.PredictBelief(res.taskAction); err != nil {
		return res, fmt.Errorf("tick %d: predicting belief: %w", n, err)
	}
	reward, err := sim.advance(res.taskAction)
	if err != nil {
		return res, fmt.Errorf("tick %d: %w", n, err)
	}
	res.reward = reward

	if sim.collectors != nil {
		sim.collectors.Ticks.WithLabelValues(TickKindPlain).Inc()
	}
	return res, nil
}

// advance samples the next true state under taskAction, appends it and the
// action to the trajectory and accrues the reward earned.
func (sim *Simulator) advance(taskAction *mat.VecDense) (float64, error) {
	last := sim.trajectory.Last()
	if last == nil {
		return 0, ErrNoInitialState
	}
	next, err := sim.model.SampleNextState(last, taskAction)
	if err != nil {
		return 0, fmt.Errorf("sampling next state: %w", err)
	}
	if next == nil {
		return 0, fmt.Errorf("sampling next state: model returned no state")
	}
	// Copy before handing out: the model may reuse its result buffer.
	next = mat.VecDenseCopyOf(next)
	reward := sim.model.Reward(next, taskAction)
	sim.trajectory.appendStep(next, taskAction, reward)
	if sim.collectors != nil {
		sim.collectors.CumulativeReward.Set(sim.trajectory.CumulativeReward())
	}
	return reward, nil
}

// advanceSensed is advance for a sensing tick; it also records the sensing
// action and observation.
func (sim *Simulator) advanceSensed(sensing SensingAction, observation, taskAction *mat.VecDense) (float64, error) {
	reward, err := sim.advance(taskAction)
	if err != nil {
		return 0, err
	}
	sim.trajectory.appendSensing(sensing, observation)
	return reward, nil
}

// record reports the tick through the logger and appends it to the trace.
func (sim *Simulator) record(log *logrus.Entry, res tickResult, verbosity int) {
	belief := sim.planner.MaximumLikelihoodState()
	state := sim.trajectory.Last()

	if verbosity > 0 {
		action, obs := "n/a", "n/a"
		if res.sensed {
			action = fmt.Sprint(res.sensingAction)
			obs = formatVec(res.observation)
		}
		log.WithFields(logrus.Fields{
			"n":                 res.n,
			"sensing_action":    action,
			"observation":       obs,
			"most_likely_state": formatVec(belief),
			"task_action":       formatVec(res.taskAction),
			"state":             formatVec(state),
		}).Info("tick")
	}

	if sim.trace.Enabled() {
		rec := trace.TickRecord{
			Tick:        res.n,
			Sensed:      res.sensed,
			BeliefState: vecValues(belief),
			TaskAction:  vecValues(res.taskAction),
			State:       vecValues(state),
			Reward:      res.reward,
		}
		if res.sensed {
			rec.SensingAction = uint(res.sensingAction)
			rec.Observation = vecValues(res.observation)
		}
		sim.trace.RecordTick(rec)
	}
}

// publish fans the end-of-tick state out to the collaborators' hooks.
// Sink failures are logged only; visualization never affects the run.
func (sim *Simulator) publish(log *logrus.Entry) {
	sim.planner.PublishParticles()
	sim.model.PublishMap()
	if sim.publisher == nil {
		return
	}
	if err := sim.publisher.PublishState(sim.trajectory.Last()); err != nil {
		log.Warnf("[tick %07d] publishing state: %v", sim.ticks, err)
	}
}

// finalize averages the phase sums over the sensing ticks executed and
// reports them.
func (sim *Simulator) finalize(log *logrus.Entry) {
	sim.timer.Finalize(sim.sensingTicks)

	fields := logrus.Fields{
		"ticks":                   sim.ticks,
		"sensing_ticks":           sim.sensingTicks,
		"candidate_sensing_ticks": CandidateSensingTicks(sim.ticks, sim.sensingInterval),
	}
	for _, p := range Phases() {
		fields["avg_"+p.String()+"_s"] = sim.timer.AverageSeconds(p)
	}
	log.WithFields(fields).Info("Simulation ended")
}

// States returns a copy of the visited true states, initial state first.
func (sim *Simulator) States() []*mat.VecDense { return sim.trajectory.States() }

// SensingActions returns a copy of the sensing actions taken.
func (sim *Simulator) SensingActions() []SensingAction { return sim.trajectory.SensingActions() }

// TaskActions returns a copy of the task actions taken.
func (sim *Simulator) TaskActions() []*mat.VecDense { return sim.trajectory.TaskActions() }

// Observations returns a copy of the observations received.
func (sim *Simulator) Observations() []*mat.VecDense { return sim.trajectory.Observations() }

// CumulativeReward returns the reward accrued in the last run.
func (sim *Simulator) CumulativeReward() float64 { return sim.trajectory.CumulativeReward() }

// AverageTime returns the average duration of phase p over the sensing ticks
// of the last run; zero if none occurred.
func (sim *Simulator) AverageTime(p Phase) time.Duration { return sim.timer.Average(p) }

// Trace returns the tick trace of the last run. It is empty unless the
// simulator was configured with trace.TraceLevelTicks.
func (sim *Simulator) Trace() *trace.SimulationTrace { return sim.trace }

// Metrics returns a summary of the last run.
func (sim *Simulator) Metrics() *Metrics {
	m := &Metrics{
		RunID:                 sim.runID,
		Ticks:                 sim.ticks,
		SensingTicks:          sim.sensingTicks,
		CandidateSensingTicks: CandidateSensingTicks(sim.ticks, sim.sensingInterval),
		CumulativeReward:      sim.trajectory.CumulativeReward(),
		Terminal:              sim.terminal,
		PhaseAverages:         make(map[Phase]time.Duration, numPhases),
	}
	for _, p := range Phases() {
		m.PhaseAverages[p] = sim.timer.Average(p)
	}
	return m
}

func formatVec(v *mat.VecDense) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v", vecValues(v))
}
