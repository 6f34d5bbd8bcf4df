// Package testutil provides shared assertion helpers for the simulator's
// test packages.
package testutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertVecEqual compares a vector against expected components with an
// absolute tolerance per component.
func AssertVecEqual(t *testing.T, name string, want []float64, got mat.Vector, absTol float64) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s: got nil vector, want %v", name, want)
	}
	if got.Len() != len(want) {
		t.Fatalf("%s: got length %d, want %d", name, got.Len(), len(want))
	}
	for i, w := range want {
		if diff := math.Abs(got.AtVec(i) - w); diff > absTol {
			t.Errorf("%s[%d]: got %v, want %v (diff=%v)", name, i, got.AtVec(i), w, diff)
		}
	}
}
