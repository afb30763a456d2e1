package overlay

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"screen-zoom/src/viewport"
)

// Physical bindings: Escape quits, Left Shift holds the spotlight.
var keyBindings = map[ebiten.Key]viewport.Key{
	ebiten.KeyEscape:    viewport.KeyQuit,
	ebiten.KeyShiftLeft: viewport.KeyHighlight,
}

var trackedButtons = []ebiten.MouseButton{
	ebiten.MouseButtonLeft,
	ebiten.MouseButtonMiddle,
	ebiten.MouseButtonRight,
}

var buttonBindings = map[ebiten.MouseButton]viewport.Button{
	ebiten.MouseButtonLeft:   viewport.ButtonPrimary,
	ebiten.MouseButtonMiddle: viewport.ButtonMiddle,
	ebiten.MouseButtonRight:  viewport.ButtonSecondary,
}

// inputFrame is the raw input polled during one tick.
type inputFrame struct {
	pressedKeys     []ebiten.Key
	releasedKeys    []ebiten.Key
	pressedButtons  []ebiten.MouseButton
	releasedButtons []ebiten.MouseButton
	wheelX, wheelY  float64
	cursor          image.Point
}

// inputTracker turns polled frames into discrete router events. It remembers
// the last cursor position and carries fractional wheel movement over to
// later ticks so smooth-scrolling devices produce whole notches.
type inputTracker struct {
	cursor    image.Point
	hasCursor bool
	wheelY    float64
}

// events orders one tick's input as key presses, button presses, motion,
// scroll, button releases, key releases.
func (t *inputTracker) events(f inputFrame) []viewport.Event {
	var out []viewport.Event

	for _, k := range f.pressedKeys {
		if vk, ok := keyBindings[k]; ok {
			out = append(out, viewport.KeyPress(vk))
		}
	}
	for _, b := range f.pressedButtons {
		out = append(out, viewport.ButtonPress(buttonBindings[b]))
	}

	if !t.hasCursor || f.cursor != t.cursor {
		t.cursor, t.hasCursor = f.cursor, true
		out = append(out, viewport.MotionEvent(float64(f.cursor.X), float64(f.cursor.Y)))
	}

	t.wheelY += f.wheelY
	for t.wheelY >= 1 {
		out = append(out, viewport.ScrollEvent(viewport.ScrollUp))
		t.wheelY--
	}
	for t.wheelY <= -1 {
		out = append(out, viewport.ScrollEvent(viewport.ScrollDown))
		t.wheelY++
	}
	if f.wheelX > 0 {
		out = append(out, viewport.ScrollEvent(viewport.ScrollRight))
	} else if f.wheelX < 0 {
		out = append(out, viewport.ScrollEvent(viewport.ScrollLeft))
	}

	for _, b := range f.releasedButtons {
		out = append(out, viewport.ButtonRelease(buttonBindings[b]))
	}
	for _, k := range f.releasedKeys {
		if vk, ok := keyBindings[k]; ok {
			out = append(out, viewport.KeyRelease(vk))
		}
	}
	return out
}
