// Package viewport holds the interactive view of the captured screen: the
// transform state, the router that turns input events into state changes,
// and the renderer that composes a frame from the source image and a state
// snapshot.
package viewport

import "math"

const (
	// ScaleDelta is the zoom step applied per vertical scroll notch.
	ScaleDelta = 0.1
	// ScaleMin equals ScaleDelta so the scale can never reach zero.
	ScaleMin = ScaleDelta
	// ScaleMax is the largest zoom factor.
	ScaleMax = 3.0
	// HighlightRadius is the spotlight radius in viewport units.
	HighlightRadius = 70.0
)

// Vec2 is a 2D point or displacement in viewport space.
type Vec2 struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

// State is the mutable view state. It is owned by the event loop and written
// only through the Router; the Renderer reads it through Snapshot.
type State struct {
	scale     float64
	offset    Vec2
	pointer   Vec2
	highlight bool

	anchor    Vec2
	hasAnchor bool
}

// Snapshot is an immutable copy of State taken between events.
type Snapshot struct {
	Scale     float64
	Offset    Vec2
	Pointer   Vec2
	Highlight bool
}

// NewState returns a state with the default view: scale 1, no pan, no drag.
func NewState() *State {
	return &State{scale: 1.0}
}

// Scale returns the current zoom factor.
func (s *State) Scale() float64 { return s.scale }

// SetScale stores v clamped into [ScaleMin, ScaleMax]. NaN is ignored.
func (s *State) SetScale(v float64) {
	if math.IsNaN(v) {
		return
	}
	s.scale = clampScale(v)
}

// Offset returns the pan translation.
func (s *State) Offset() Vec2 { return s.offset }

// Pan adds d to the offset.
func (s *State) Pan(d Vec2) { s.offset = s.offset.Add(d) }

// Pointer returns the last observed pointer position.
func (s *State) Pointer() Vec2 { return s.pointer }

// SetPointer records the pointer position.
func (s *State) SetPointer(p Vec2) { s.pointer = p }

// Highlight reports whether the spotlight key is held.
func (s *State) Highlight() bool { return s.highlight }

// SetHighlight sets the spotlight flag.
func (s *State) SetHighlight(on bool) { s.highlight = on }

// Anchor returns the drag anchor and whether a drag is in progress.
func (s *State) Anchor() (Vec2, bool) { return s.anchor, s.hasAnchor }

// SetAnchor starts or continues a drag at p.
func (s *State) SetAnchor(p Vec2) {
	s.anchor = p
	s.hasAnchor = true
}

// ClearAnchor ends the drag.
func (s *State) ClearAnchor() {
	s.anchor = Vec2{}
	s.hasAnchor = false
}

// Snapshot copies the state a frame is rendered from.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Scale:     s.scale,
		Offset:    s.offset,
		Pointer:   s.pointer,
		Highlight: s.highlight,
	}
}

func clampScale(v float64) float64 {
	if v < ScaleMin {
		return ScaleMin
	}
	if v > ScaleMax {
		return ScaleMax
	}
	return v
}
