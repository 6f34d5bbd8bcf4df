package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock advances by step on every read.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func newTestTimer(step time.Duration) *PhaseTimer {
	c := &fakeClock{t: time.Unix(0, 0), step: step}
	return &PhaseTimer{now: c.now}
}

func TestPhaseTimer_BeginEnd_AccumulatesElapsed(t *testing.T) {
	// GIVEN a clock that advances 1ms per read
	pt := newTestTimer(time.Millisecond)

	// WHEN the same phase is measured twice
	pt.Begin(PhaseTaskAction)
	assert.Equal(t, time.Millisecond, pt.End(PhaseTaskAction))
	pt.Begin(PhaseTaskAction)
	pt.End(PhaseTaskAction)

	// THEN the sum holds both samples and other phases are untouched
	assert.Equal(t, 2*time.Millisecond, pt.Sum(PhaseTaskAction))
	assert.Zero(t, pt.Sum(PhaseObservation))
}

func TestPhaseTimer_EndWithoutBegin_NoOp(t *testing.T) {
	pt := newTestTimer(time.Millisecond)

	assert.Zero(t, pt.End(PhaseObservation))
	assert.Zero(t, pt.Sum(PhaseObservation))
}

func TestPhaseTimer_CompositeSpan_MeasuredIndependently(t *testing.T) {
	// GIVEN a clock that advances 1ms per read
	pt := newTestTimer(time.Millisecond)

	// WHEN a composite window encloses two inner phases
	pt.Begin(PhaseUpdateBeliefTotal) // t=1
	pt.Begin(PhaseObservation)       // t=2
	pt.End(PhaseObservation)         // t=3
	pt.Begin(PhaseUpdateBelief)      // t=4
	pt.End(PhaseUpdateBelief)        // t=5
	pt.End(PhaseUpdateBeliefTotal)   // t=6

	// THEN the composite covers its own span, not the sum of its parts
	assert.Equal(t, time.Millisecond, pt.Sum(PhaseObservation))
	assert.Equal(t, time.Millisecond, pt.Sum(PhaseUpdateBelief))
	assert.Equal(t, 5*time.Millisecond, pt.Sum(PhaseUpdateBeliefTotal))
}

func TestPhaseTimer_Finalize_AveragesBySamples(t *testing.T) {
	pt := newTestTimer(2 * time.Millisecond)
	for i := 0; i < 4; i++ {
		pt.Begin(PhaseSensingAction)
		pt.End(PhaseSensingAction)
	}

	pt.Finalize(4)

	assert.Equal(t, 2*time.Millisecond, pt.Average(PhaseSensingAction))
	assert.InDelta(t, 0.002, pt.AverageSeconds(PhaseSensingAction), 1e-12)
}

func TestPhaseTimer_Finalize_ZeroSamples_AllZero(t *testing.T) {
	// GIVEN accumulated time but no sensing ticks
	pt := newTestTimer(time.Millisecond)
	pt.Begin(PhasePredictBelief)
	pt.End(PhasePredictBelief)

	// WHEN finalized with zero samples
	pt.Finalize(0)

	// THEN every average is zero and nothing panics
	for _, p := range Phases() {
		assert.Zero(t, pt.Average(p), p.String())
	}
}

func TestPhaseTimer_Reset_Idempotent(t *testing.T) {
	pt := newTestTimer(time.Millisecond)
	pt.Begin(PhaseObservation)
	pt.End(PhaseObservation)
	pt.Finalize(1)

	for i := 0; i < 2; i++ {
		pt.Reset()
		for _, p := range Phases() {
			assert.Zero(t, pt.Sum(p))
			assert.Zero(t, pt.Average(p))
		}
	}
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "update_belief_total", PhaseUpdateBeliefTotal.String())
	assert.Equal(t, "phase(42)", Phase(42).String())
	assert.Len(t, Phases(), 7)
}
