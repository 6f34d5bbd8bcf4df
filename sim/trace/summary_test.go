package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewSimulationTrace("run-1", TraceLevelTicks)

	// WHEN summarized
	summary := Summarize(st)

	// THEN all fields are zero
	assert.Equal(t, TraceSummary{}, *summary)
	assert.Equal(t, TraceSummary{}, *Summarize(nil))
}

func TestSummarize_PopulatedTrace_RewardStatistics(t *testing.T) {
	// GIVEN ticks with known rewards, two of which sensed
	st := NewSimulationTrace("run-1", TraceLevelTicks)
	st.RecordTick(TickRecord{Tick: 0, Sensed: true, Reward: -1})
	st.RecordTick(TickRecord{Tick: 1, Reward: 3})
	st.RecordTick(TickRecord{Tick: 2, Sensed: true, Reward: 1})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts and reward statistics match
	assert.Equal(t, 3, summary.TotalTicks)
	assert.Equal(t, 2, summary.SensingTicks)
	assert.Equal(t, 3.0, summary.TotalReward)
	assert.InDelta(t, 1.0, summary.MeanReward, 1e-12)
	assert.Equal(t, -1.0, summary.MinReward)
	assert.Equal(t, 3.0, summary.MaxReward)
}
