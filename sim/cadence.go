package sim

// IsSensingTick reports whether tick n (0-based) may sense the environment.
// Sensing happens on ticks 0, k, 2k, ... where k = sensingInterval+1.
func IsSensingTick(n, sensingInterval int) bool {
	return n%(sensingInterval+1) == 0
}

// CandidateSensingTicks is the legacy count of sensing-eligible ticks derived
// from the final tick counter, (n+1) / (sensingInterval+1). It over-counts by
// one when a run ends on a sensing-eligible boundary, so Simulate averages by
// the number of sensing ticks it actually executed and only logs this value
// for comparison.
func CandidateSensingTicks(n, sensingInterval int) int {
	return (n + 1) / (sensingInterval + 1)
}
