package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalTicks   int
	SensingTicks int
	TotalReward  float64
	MeanReward   float64
	MinReward    float64
	MaxReward    float64
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{}
	if st == nil || len(st.Ticks) == 0 {
		return summary
	}

	summary.TotalTicks = len(st.Ticks)
	summary.MinReward = st.Ticks[0].Reward
	summary.MaxReward = st.Ticks[0].Reward
	for _, r := range st.Ticks {
		if r.Sensed {
			summary.SensingTicks++
		}
		summary.TotalReward += r.Reward
		summary.MinReward = min(summary.MinReward, r.Reward)
		summary.MaxReward = max(summary.MaxReward, r.Reward)
	}
	summary.MeanReward = summary.TotalReward / float64(summary.TotalTicks)

	return summary
}
