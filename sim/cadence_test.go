package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSensingTick_Cadence(t *testing.T) {
	tests := []struct {
		name     string
		interval int
		want     []int // sensing ticks in [0, 10)
	}{
		{"every tick", 0, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{"every other tick", 1, []int{0, 2, 4, 6, 8}},
		{"every third tick", 2, []int{0, 3, 6, 9}},
		{"only first tick", 100, []int{0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got []int
			for n := 0; n < 10; n++ {
				if IsSensingTick(n, tc.interval) {
					got = append(got, n)
				}
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCandidateSensingTicks_OverCountsOnEarlyExit(t *testing.T) {
	// GIVEN a run that sensed on ticks 0..9 and stopped with n = 10
	// THEN the legacy formula reports 11 while 10 sensing ticks were executed
	assert.Equal(t, 11, CandidateSensingTicks(10, 0))

	// GIVEN interval 1 and n = 5 (sensed on ticks 0, 2, 4)
	assert.Equal(t, 3, CandidateSensingTicks(5, 1))

	// GIVEN no ticks at all
	assert.Equal(t, 0, CandidateSensingTicks(0, 3))
}
