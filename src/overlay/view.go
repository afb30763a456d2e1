package overlay

import (
	"errors"
	"image"
	"log"

	"screen-zoom/src/viewport"
)

// view ties the router and renderer together for one overlay session and
// decides when a new frame is needed. It knows nothing about the window
// system, so the whole input-to-frame path can be driven from tests.
type view struct {
	router   *viewport.Router
	renderer *viewport.Renderer

	frame  *image.RGBA
	dirty  bool
	frames int
}

func newView(r *viewport.Renderer) *view {
	return &view{
		router:   viewport.NewRouter(viewport.NewState()),
		renderer: r,
		dirty:    true, // initial show
	}
}

// dispatch applies events in order and reports whether the session must end.
// Events after a quit are not applied.
func (v *view) dispatch(events []viewport.Event) bool {
	for _, ev := range events {
		res := v.router.Dispatch(ev)
		if res.Quit {
			log.Printf("Overlay: quit requested after %d frames", v.frames)
			return true
		}
		if res.Render {
			v.dirty = true
		}
	}
	return false
}

// present returns the frame for a viewport of the given size and whether it
// was re-rendered. A frame is rendered only when requested or on resize.
func (v *view) present(size image.Point) (*image.RGBA, bool) {
	if v.router.Quitting() || size.X <= 0 || size.Y <= 0 {
		return v.frame, false
	}
	if v.frame == nil || v.frame.Rect.Size() != size {
		v.frame = image.NewRGBA(image.Rectangle{Max: size})
		v.dirty = true
	}
	if !v.dirty {
		return v.frame, false
	}

	err := v.renderer.Render(v.frame, v.router.State().Snapshot())
	if err != nil && !errors.Is(err, viewport.ErrFrameSkipped) {
		log.Printf("Overlay: render error: %v", err)
	}
	v.dirty = false
	v.frames++
	return v.frame, true
}
