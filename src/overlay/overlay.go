package overlay

import (
	"context"
	"fmt"
	"image"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/draw"

	"screen-zoom/src/output"
	"screen-zoom/src/viewport"
	"screen-zoom/src/worker"
)

// Host shows the image captured from the named output full-screen on that
// output and runs the input loop until the user quits or ctx is cancelled.
// Show blocks; it returns nil on either.
type Host interface {
	Show(ctx context.Context, outputName string, src *image.RGBA) error
}

// Options configures the ebiten host.
type Options struct {
	Title   string
	Scaler  draw.Scaler
	Workers int
}

// Ebiten is the Host backed by github.com/hajimehoshi/ebiten/v2: an
// undecorated, floating, full-screen window that captures keyboard and
// pointer input.
type Ebiten struct {
	opts Options
}

// New returns an ebiten host.
func New(opts Options) *Ebiten {
	if opts.Title == "" {
		opts.Title = "screen-zoom"
	}
	return &Ebiten{opts: opts}
}

func (e *Ebiten) Show(ctx context.Context, outputName string, src *image.RGBA) error {
	pool := worker.New(e.opts.Workers)
	defer pool.Close()

	r := viewport.NewRenderer(src, viewport.WithScaler(e.opts.Scaler), viewport.WithPool(pool))
	g := newGame(ctx, newView(r))

	monitors := ebiten.AppendMonitors(nil)
	names := make([]string, len(monitors))
	for i, m := range monitors {
		names[i] = m.Name()
	}
	if i := matchMonitor(outputName, names); i >= 0 {
		ebiten.SetMonitor(monitors[i])
	} else {
		log.Printf("Overlay: no monitor matches output %q among %v, using the current one", outputName, names)
	}

	ebiten.SetWindowTitle(e.opts.Title)
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetFullscreen(true)
	ebiten.SetRunnableOnUnfocused(true)
	// Frames are kept between ticks and only redrawn on demand.
	ebiten.SetScreenClearedEveryFrame(false)

	b := src.Bounds()
	log.Printf("Overlay: showing %dx%d image with %d render workers", b.Dx(), b.Dy(), pool.Size())
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("overlay: %w", err)
	}
	log.Printf("Overlay: closed after %d frames", g.view.frames)
	return nil
}

// matchMonitor returns the index of the monitor showing outputName, or -1.
// Names are compared exactly; X11 "display-N" names select by index.
func matchMonitor(outputName string, monitors []string) int {
	for i, name := range monitors {
		if name == outputName {
			return i
		}
	}
	if i, ok := output.DisplayIndex(outputName); ok && i < len(monitors) {
		return i
	}
	return -1
}

// game adapts view to ebiten.Game. ebiten calls Update and Draw from the
// same goroutine, so view needs no locking.
type game struct {
	ctx   context.Context
	view  *view
	input inputTracker
	poll  func() inputFrame
}

func newGame(ctx context.Context, v *view) *game {
	return &game{ctx: ctx, view: v, poll: pollInput}
}

func (g *game) Update() error {
	if err := g.ctx.Err(); err != nil {
		log.Printf("Overlay: closing: %v", err)
		return ebiten.Termination
	}
	if g.view.dispatch(g.input.events(g.poll())) {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	frame, changed := g.view.present(screen.Bounds().Size())
	if changed {
		screen.WritePixels(frame.Pix)
	}
}

// Layout uses device pixels so the capture is shown 1:1 on HiDPI outputs.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := 1.0
	if m := ebiten.Monitor(); m != nil {
		s = m.DeviceScaleFactor()
	}
	return int(float64(outsideWidth) * s), int(float64(outsideHeight) * s)
}

// pollInput gathers the raw input of the current tick.
func pollInput() inputFrame {
	wx, wy := ebiten.Wheel()
	cx, cy := ebiten.CursorPosition()

	f := inputFrame{
		pressedKeys:  inpututil.AppendJustPressedKeys(nil),
		releasedKeys: inpututil.AppendJustReleasedKeys(nil),
		wheelX:       wx,
		wheelY:       wy,
		cursor:       image.Pt(cx, cy),
	}
	for _, b := range trackedButtons {
		if inpututil.IsMouseButtonJustPressed(b) {
			f.pressedButtons = append(f.pressedButtons, b)
		}
		if inpututil.IsMouseButtonJustReleased(b) {
			f.releasedButtons = append(f.releasedButtons, b)
		}
	}
	return f
}
