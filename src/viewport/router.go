package viewport

// EventKind tags the variant carried by an Event.
type EventKind int

const (
	EventKeyDown EventKind = iota
	EventKeyUp
	EventScroll
	EventMotion
	EventButtonDown
	EventButtonUp
)

func (k EventKind) String() string {
	switch k {
	case EventKeyDown:
		return "key-down"
	case EventKeyUp:
		return "key-up"
	case EventScroll:
		return "scroll"
	case EventMotion:
		return "motion"
	case EventButtonDown:
		return "button-down"
	case EventButtonUp:
		return "button-up"
	default:
		return "unknown"
	}
}

// Key is a logical key; the host maps physical keys onto it.
type Key int

const (
	KeyOther Key = iota
	KeyQuit
	KeyHighlight
)

// ScrollDirection is the direction of a wheel notch.
type ScrollDirection int

const (
	ScrollUp ScrollDirection = iota
	ScrollDown
	ScrollLeft
	ScrollRight
)

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// Event is one raw input event. Only the fields relevant to Kind are read.
type Event struct {
	Kind      EventKind
	Key       Key
	Direction ScrollDirection
	Button    Button
	Position  Vec2
}

func KeyPress(k Key) Event                { return Event{Kind: EventKeyDown, Key: k} }
func KeyRelease(k Key) Event              { return Event{Kind: EventKeyUp, Key: k} }
func ScrollEvent(d ScrollDirection) Event { return Event{Kind: EventScroll, Direction: d} }
func MotionEvent(x, y float64) Event      { return Event{Kind: EventMotion, Position: Vec2{X: x, Y: y}} }
func ButtonPress(b Button) Event          { return Event{Kind: EventButtonDown, Button: b} }
func ButtonRelease(b Button) Event        { return Event{Kind: EventButtonUp, Button: b} }

// Result tells the host what an event asked for.
type Result struct {
	Render bool
	Quit   bool
}

// Router applies input events to a State one at a time, in call order.
type Router struct {
	state *State
	quit  bool
}

// NewRouter returns a router mutating s.
func NewRouter(s *State) *Router {
	return &Router{state: s}
}

// State returns the state the router mutates.
func (r *Router) State() *State { return r.state }

// Quitting reports whether a quit event has been dispatched.
func (r *Router) Quitting() bool { return r.quit }

// Dispatch applies ev and reports whether a re-render or quit is required.
// After a quit every further event is ignored.
func (r *Router) Dispatch(ev Event) Result {
	if r.quit {
		return Result{Quit: true}
	}

	switch ev.Kind {
	case EventKeyDown:
		return r.keyDown(ev.Key)
	case EventKeyUp:
		if ev.Key == KeyHighlight {
			r.state.SetHighlight(false)
			return Result{Render: true}
		}
	case EventScroll:
		return r.scroll(ev.Direction)
	case EventMotion:
		return r.motion(ev.Position)
	case EventButtonDown:
		if ev.Button == ButtonPrimary {
			if _, ok := r.state.Anchor(); !ok {
				r.state.SetAnchor(r.state.Pointer())
			}
		}
	case EventButtonUp:
		if ev.Button == ButtonPrimary {
			r.state.ClearAnchor()
		}
	}
	return Result{}
}

func (r *Router) keyDown(k Key) Result {
	switch k {
	case KeyQuit:
		r.quit = true
		return Result{Quit: true}
	case KeyHighlight:
		r.state.SetHighlight(true)
		return Result{Render: true}
	}
	return Result{}
}

func (r *Router) scroll(d ScrollDirection) Result {
	switch d {
	case ScrollUp:
		r.state.SetScale(r.state.Scale() + ScaleDelta)
	case ScrollDown:
		r.state.SetScale(r.state.Scale() - ScaleDelta)
	default:
		return Result{}
	}
	return Result{Render: true}
}

// motion tracks the pointer and, during a drag, pans by the negative of the
// pointer movement since the previous anchor.
func (r *Router) motion(pos Vec2) Result {
	r.state.SetPointer(pos)

	var res Result
	if anchor, ok := r.state.Anchor(); ok {
		delta := anchor.Sub(pos)
		if delta != (Vec2{}) {
			r.state.Pan(delta)
			res.Render = true
		}
		r.state.SetAnchor(pos)
	}
	if r.state.Highlight() {
		res.Render = true
	}
	return res
}
