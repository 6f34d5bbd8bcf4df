// Package marker publishes the simulator's true state as a stream of
// visualization primitives: a labeled cube marker plus a frame transform,
// one JSON object per line.
package marker

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Marker shape and action values.
const (
	ShapeCube = "cube"
	ActionAdd = "add"
)

// Frame names used for every published state.
const (
	WorldFrame = "world"
	ChildFrame = "my_frame"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

type Pose struct {
	Position    Point      `json:"position"`
	Orientation Quaternion `json:"orientation"`
}

type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Marker is a labeled geometric primitive positioned in a frame.
type Marker struct {
	FrameID   string    `json:"frame_id"`
	Stamp     time.Time `json:"stamp"`
	Namespace string    `json:"ns"`
	ID        int       `json:"id"`
	Type      string    `json:"type"`
	Action    string    `json:"action"`
	Pose      Pose      `json:"pose"`
	Scale     Vector3   `json:"scale"`
	Color     Color     `json:"color"`
	Lifetime  float64   `json:"lifetime_s"` // 0 = forever
}

// FrameTransform relates a child frame to its parent.
type FrameTransform struct {
	Stamp       time.Time  `json:"stamp"`
	Parent      string     `json:"parent"`
	Child       string     `json:"child"`
	Translation Vector3    `json:"translation"`
	Rotation    Quaternion `json:"rotation"`
}

// Filler renders a state into a marker. Models implement it to control
// where and how big the state is drawn.
type Filler interface {
	FillMarker(state *mat.VecDense, m *Marker)
}

// envelope is one line of the stream.
type envelope struct {
	Kind      string          `json:"kind"`
	Transform *FrameTransform `json:"transform,omitempty"`
	Marker    *Marker         `json:"marker,omitempty"`
}

// Sink writes frame transforms and markers as JSON lines.
// It implements sim.StatePublisher.
type Sink struct {
	mu     sync.Mutex
	enc    *json.Encoder
	filler Filler
	now    func() time.Time
}

// NewSink creates a Sink writing to w. filler may be nil, in which case the
// marker sits at the origin.
func NewSink(w io.Writer, filler Filler) *Sink {
	return &Sink{enc: json.NewEncoder(w), filler: filler, now: time.Now}
}

// PublishState broadcasts the identity world transform followed by a blue
// cube marker for state.
func (s *Sink) PublishState(state *mat.VecDense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp := s.now()
	tf := &FrameTransform{
		Stamp:    stamp,
		Parent:   WorldFrame,
		Child:    ChildFrame,
		Rotation: Quaternion{W: 1},
	}
	if err := s.enc.Encode(envelope{Kind: "transform", Transform: tf}); err != nil {
		return fmt.Errorf("encoding transform: %w", err)
	}

	m := &Marker{
		FrameID:   WorldFrame,
		Stamp:     stamp,
		Namespace: "basic_shapes",
		ID:        0,
		Type:      ShapeCube,
		Action:    ActionAdd,
		Pose:      Pose{Orientation: Quaternion{W: 1}},
		Scale:     Vector3{X: 1, Y: 1, Z: 1},
	}
	if s.filler != nil {
		s.filler.FillMarker(state, m)
	}
	m.Color = Color{R: 0, G: 0, B: 1, A: 1}

	if err := s.enc.Encode(envelope{Kind: "marker", Marker: m}); err != nil {
		return fmt.Errorf("encoding marker: %w", err)
	}
	return nil
}
