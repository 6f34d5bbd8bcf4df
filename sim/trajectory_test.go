package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/inference-sim/belief-sim/sim/internal/testutil"
)

func TestTrajectory_Empty(t *testing.T) {
	var tr Trajectory
	assert.Nil(t, tr.Last())
	assert.Zero(t, tr.Len())
	assert.Empty(t, tr.States())
	assert.Zero(t, tr.CumulativeReward())
}

func TestTrajectory_Seed_CopiesInitial(t *testing.T) {
	var tr Trajectory
	initial := mat.NewVecDense(2, []float64{1, 2})

	tr.Seed(initial)
	initial.SetVec(0, 9)

	require.Equal(t, 1, tr.Len())
	testutil.AssertVecEqual(t, "seed", []float64{1, 2}, tr.Last(), 0)
}

func TestTrajectory_Seed_ReplacesPreviousStates(t *testing.T) {
	var tr Trajectory
	tr.Seed(mat.NewVecDense(1, []float64{1}))
	tr.appendStep(mat.NewVecDense(1, []float64{2}), mat.NewVecDense(1, []float64{1}), 1)

	tr.Seed(mat.NewVecDense(1, []float64{5}))

	assert.Equal(t, 1, tr.Len())
	testutil.AssertVecEqual(t, "seed", []float64{5}, tr.Last(), 0)
}

func TestTrajectory_Append_KeepsParallelSequences(t *testing.T) {
	var tr Trajectory
	tr.Seed(mat.NewVecDense(1, []float64{0}))

	tr.appendStep(mat.NewVecDense(1, []float64{1}), mat.NewVecDense(1, []float64{1}), 0.5)
	tr.appendSensing(4, mat.NewVecDense(1, []float64{0.9}))
	tr.appendStep(mat.NewVecDense(1, []float64{2}), mat.NewVecDense(1, []float64{1}), 0.25)

	assert.Len(t, tr.States(), 3)
	assert.Len(t, tr.TaskActions(), 2)
	assert.Equal(t, []SensingAction{4}, tr.SensingActions())
	require.Len(t, tr.Observations(), 1)
	testutil.AssertVecEqual(t, "observation", []float64{0.9}, tr.Observations()[0], 0)
	testutil.AssertFloat64Equal(t, "reward", 0.75, tr.CumulativeReward(), 1e-12)
}

func TestTrajectory_Reset_ClearsEverything(t *testing.T) {
	var tr Trajectory
	tr.Seed(mat.NewVecDense(1, []float64{0}))
	tr.appendStep(mat.NewVecDense(1, []float64{1}), mat.NewVecDense(1, []float64{1}), -3)
	tr.appendSensing(1, mat.NewVecDense(1, []float64{0}))

	tr.Reset()

	assert.Zero(t, tr.Len())
	assert.Empty(t, tr.TaskActions())
	assert.Empty(t, tr.SensingActions())
	assert.Empty(t, tr.Observations())
	assert.Zero(t, tr.CumulativeReward())
}

func TestTrajectory_SensingActions_IsCopy(t *testing.T) {
	var tr Trajectory
	tr.Seed(mat.NewVecDense(1, []float64{0}))
	tr.appendSensing(1, mat.NewVecDense(1, []float64{0}))

	got := tr.SensingActions()
	got[0] = 7

	assert.Equal(t, []SensingAction{1}, tr.SensingActions())
}
