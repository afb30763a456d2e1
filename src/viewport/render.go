package viewport

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"

	"golang.org/x/image/draw"

	"screen-zoom/src/worker"
)

var (
	// Background fills the viewport behind the image (0.1 grey).
	Background = color.RGBA{R: 26, G: 26, B: 26, A: 255}
	// HighlightColor is the spotlight disc: white at 0.4 opacity.
	HighlightColor = color.NRGBA{R: 255, G: 255, B: 255, A: 102}
)

// ErrFrameSkipped is returned by Render when the scaled image could not be
// produced. The destination then holds only the background.
var ErrFrameSkipped = errors.New("frame skipped")

// minBandRows keeps bands large enough that scheduling stays cheaper than
// the scaling work itself.
const minBandRows = 64

// kernelMargin is the number of extra source pixels kept around the visible
// window so kernel taps at its edge read real neighbours.
const kernelMargin = 3

// Renderer composes frames from a fixed source image.
type Renderer struct {
	src    *image.RGBA
	scaler draw.Scaler
	pool   *worker.Pool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithScaler replaces the default nearest-neighbor scaler.
func WithScaler(s draw.Scaler) Option {
	return func(r *Renderer) {
		if s != nil {
			r.scaler = s
		}
	}
}

// WithPool splits the blit into row bands run on p.
func WithPool(p *worker.Pool) Option {
	return func(r *Renderer) { r.pool = p }
}

// NewRenderer returns a renderer for src. src must not be modified afterwards.
func NewRenderer(src *image.RGBA, opts ...Option) *Renderer {
	r := &Renderer{src: src, scaler: draw.NearestNeighbor}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ScaledSize returns the size of the source scaled by scale, truncated to
// whole pixels.
func ScaledSize(src image.Point, scale float64) image.Point {
	return image.Point{
		X: int(float64(src.X) * scale),
		Y: int(float64(src.Y) * scale),
	}
}

// BlitOrigin returns where the scaled image's top-left corner lands in the
// viewport. Zoom grows around the image centre; the pan offset is applied on
// top of that.
func BlitOrigin(src, scaled image.Point, offset Vec2) Vec2 {
	return Vec2{
		X: -float64(scaled.X-src.X)/2 - offset.X,
		Y: -float64(scaled.Y-src.Y)/2 - offset.Y,
	}
}

// Render draws one frame of snap into dst. On ErrFrameSkipped dst holds the
// background only; any other state of dst is a complete frame.
func (r *Renderer) Render(dst draw.Image, snap Snapshot) error {
	bounds := dst.Bounds()
	draw.Draw(dst, bounds, image.NewUniform(Background), image.Point{}, draw.Src)

	if err := r.blit(dst, snap); err != nil {
		draw.Draw(dst, bounds, image.NewUniform(Background), image.Point{}, draw.Src)
		log.Printf("Renderer: %v", err)
		return err
	}

	if snap.Highlight {
		drawSpotlight(dst, snap.Pointer)
	}
	return nil
}

func (r *Renderer) blit(dst draw.Image, snap Snapshot) error {
	if r.src == nil {
		return fmt.Errorf("%w: no source image", ErrFrameSkipped)
	}
	if math.IsNaN(snap.Scale) || math.IsInf(snap.Scale, 0) || snap.Scale <= 0 {
		return fmt.Errorf("%w: invalid scale %v", ErrFrameSkipped, snap.Scale)
	}

	srcBounds := r.src.Bounds()
	scaled := ScaledSize(srcBounds.Size(), snap.Scale)
	if scaled.X < 1 || scaled.Y < 1 {
		return fmt.Errorf("%w: scaled size %dx%d", ErrFrameSkipped, scaled.X, scaled.Y)
	}

	origin := BlitOrigin(srcBounds.Size(), scaled, snap.Offset)
	at := dst.Bounds().Min.Add(image.Pt(int(math.Round(origin.X)), int(math.Round(origin.Y))))
	target := image.Rectangle{Min: at, Max: at.Add(scaled)}

	visible := target.Intersect(dst.Bounds())
	if visible.Empty() {
		return nil
	}

	// Kernel scalers size their scratch buffer by dr, so they scale only the
	// visible source window in a single call.
	if _, ok := r.scaler.(*draw.Kernel); ok {
		sr, dr := sourceWindow(target, visible, srcBounds, kernelMargin)
		task := func() { r.scaler.Scale(dst, dr, r.src, sr, draw.Src, nil) }
		if err := runGuarded(task); err != nil {
			return fmt.Errorf("%w: %v", ErrFrameSkipped, err)
		}
		return nil
	}

	bands := r.bands(dst, visible)
	tasks := make([]worker.Task, 0, len(bands))
	for _, band := range bands {
		tasks = append(tasks, func() {
			r.scaler.Scale(band, target, r.src, srcBounds, draw.Src, nil)
		})
	}

	if r.pool == nil {
		for _, t := range tasks {
			if err := runGuarded(t); err != nil {
				return fmt.Errorf("%w: %v", ErrFrameSkipped, err)
			}
		}
		return nil
	}
	if err := r.pool.Run(tasks...); err != nil {
		return fmt.Errorf("%w: %v", ErrFrameSkipped, err)
	}
	return nil
}

// bands splits the visible rectangle into horizontal strips, each a clipped
// view of dst. The scaler clips to the view, so every strip computes only
// its own rows while sharing the same target rectangle.
func (r *Renderer) bands(dst draw.Image, visible image.Rectangle) []draw.Image {
	n := 1
	if r.pool != nil {
		n = r.pool.Size()
	}
	if rows := visible.Dy() / minBandRows; rows < n {
		n = rows
	}

	sub, ok := dst.(interface {
		SubImage(image.Rectangle) image.Image
	})
	if n <= 1 || !ok {
		return []draw.Image{dst}
	}

	out := make([]draw.Image, 0, n)
	step := visible.Dy() / n
	for i := 0; i < n; i++ {
		band := visible
		band.Min.Y = visible.Min.Y + i*step
		if i < n-1 {
			band.Max.Y = band.Min.Y + step
		}
		if img, ok := sub.SubImage(band).(draw.Image); ok {
			out = append(out, img)
		} else {
			out = append(out, clipped{Image: dst, clip: band})
		}
	}
	return out
}

// sourceWindow maps the visible part of target back to the source pixels it
// needs, widened by margin, and returns that source rectangle together with
// the destination rectangle it scales onto. dr covers visible and equals
// target when the whole source is needed.
func sourceWindow(target, visible, src image.Rectangle, margin int) (sr, dr image.Rectangle) {
	kx := float64(src.Dx()) / float64(target.Dx())
	ky := float64(src.Dy()) / float64(target.Dy())

	x0 := max(int(math.Floor(float64(visible.Min.X-target.Min.X)*kx))-margin, 0)
	y0 := max(int(math.Floor(float64(visible.Min.Y-target.Min.Y)*ky))-margin, 0)
	x1 := min(int(math.Ceil(float64(visible.Max.X-target.Min.X)*kx))+margin, src.Dx())
	y1 := min(int(math.Ceil(float64(visible.Max.Y-target.Min.Y)*ky))+margin, src.Dy())

	sr = image.Rect(x0, y0, x1, y1).Add(src.Min)
	dr = image.Rect(
		int(math.Round(float64(x0)/kx)),
		int(math.Round(float64(y0)/ky)),
		int(math.Round(float64(x1)/kx)),
		int(math.Round(float64(y1)/ky)),
	).Add(target.Min)
	return sr, dr
}

func runGuarded(t worker.Task) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("scaler panicked: %v", rec)
		}
	}()
	t()
	return nil
}

// clipped restricts a draw.Image to a sub-rectangle for images without
// SubImage.
type clipped struct {
	draw.Image
	clip image.Rectangle
}

func (c clipped) Bounds() image.Rectangle { return c.clip.Intersect(c.Image.Bounds()) }

// drawSpotlight composites the translucent disc over dst. It lightens
// rather than masks: pixels outside the disc are untouched.
func drawSpotlight(dst draw.Image, center Vec2) {
	disc := circle{center: center, radius: HighlightRadius}
	area := disc.Bounds().Intersect(dst.Bounds())
	if area.Empty() {
		return
	}
	draw.DrawMask(dst, area, image.NewUniform(HighlightColor), image.Point{}, disc, area.Min, draw.Over)
}

// circle is an alpha mask that is opaque for pixels whose centre lies inside
// the disc.
type circle struct {
	center Vec2
	radius float64
}

func (c circle) ColorModel() color.Model { return color.AlphaModel }

func (c circle) Bounds() image.Rectangle {
	return image.Rect(
		int(math.Floor(c.center.X-c.radius)),
		int(math.Floor(c.center.Y-c.radius)),
		int(math.Ceil(c.center.X+c.radius))+1,
		int(math.Ceil(c.center.Y+c.radius))+1,
	)
}

func (c circle) At(x, y int) color.Color {
	if c.Contains(x, y) {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}

// Contains reports whether pixel (x, y) is lit by the disc.
func (c circle) Contains(x, y int) bool {
	dx := float64(x) + 0.5 - c.center.X
	dy := float64(y) + 0.5 - c.center.Y
	return dx*dx+dy*dy < c.radius*c.radius
}
