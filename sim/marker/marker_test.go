package marker

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

type shiftFiller struct{}

func (shiftFiller) FillMarker(state *mat.VecDense, m *Marker) {
	m.Pose.Position.X = state.AtVec(0)
	m.Color = Color{R: 1} // overwritten by the sink
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []envelope {
	t.Helper()
	var out []envelope
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var e envelope
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		out = append(out, e)
	}
	return out
}

func TestSink_PublishState_TransformThenMarker(t *testing.T) {
	// GIVEN a sink with a fixed clock and a filler
	var buf bytes.Buffer
	s := NewSink(&buf, shiftFiller{})
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	// WHEN a state is published
	require.NoError(t, s.PublishState(mat.NewVecDense(2, []float64{4.5, 1})))

	// THEN a transform line precedes a blue cube marker in the world frame
	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "transform", lines[0].Kind)
	require.NotNil(t, lines[0].Transform)
	assert.Equal(t, WorldFrame, lines[0].Transform.Parent)
	assert.Equal(t, ChildFrame, lines[0].Transform.Child)
	assert.Equal(t, Quaternion{W: 1}, lines[0].Transform.Rotation)

	assert.Equal(t, "marker", lines[1].Kind)
	m := lines[1].Marker
	require.NotNil(t, m)
	assert.Equal(t, WorldFrame, m.FrameID)
	assert.Equal(t, "basic_shapes", m.Namespace)
	assert.Equal(t, ShapeCube, m.Type)
	assert.Equal(t, ActionAdd, m.Action)
	assert.Equal(t, 4.5, m.Pose.Position.X)
	assert.Equal(t, Color{B: 1, A: 1}, m.Color)
	assert.True(t, fixed.Equal(m.Stamp))
}

func TestSink_NilFiller_MarkerAtOrigin(t *testing.T) {
	var buf bytes.Buffer
	s := NewSink(&buf, nil)

	require.NoError(t, s.PublishState(mat.NewVecDense(1, []float64{3})))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, Point{}, lines[1].Marker.Pose.Position)
	assert.Equal(t, Vector3{X: 1, Y: 1, Z: 1}, lines[1].Marker.Scale)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSink_WriteError_Returned(t *testing.T) {
	s := NewSink(failingWriter{}, nil)

	err := s.PublishState(mat.NewVecDense(1, []float64{0}))

	assert.ErrorContains(t, err, "disk full")
}
