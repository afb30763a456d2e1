package screenshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // grim -t jpeg
	"image/png"
	"log"

	"github.com/kbinani/screenshot"
	"golang.org/x/image/draw"

	"screen-zoom/src/output"
	"screen-zoom/src/process"
)

// ErrDecode means the captured bytes are not a decodable image.
var ErrDecode = errors.New("cannot decode screenshot")

// Capturer grabs the contents of one output as encoded image bytes.
type Capturer interface {
	Capture(ctx context.Context, name string) ([]byte, error)
}

// Decode turns captured bytes into the RGBA source image. The result is never
// empty.
func Decode(data []byte) (*image.RGBA, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty %s image", ErrDecode, format)
	}
	log.Printf("Screenshot: decoded %s %dx%d", format, b.Dx(), b.Dy())

	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba, nil
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba, nil
}

// Grim captures a Wayland output with `grim -o <output> -`.
type Grim struct {
	Path   string
	Runner process.Runner
}

// NewGrim returns a capturer using the grim binary at path ("grim" when
// empty).
func NewGrim(path string) *Grim {
	if path == "" {
		path = "grim"
	}
	return &Grim{Path: path, Runner: process.ExecRunner{}}
}

func (g *Grim) Capture(ctx context.Context, name string) ([]byte, error) {
	return g.Runner.Output(ctx, g.Path, "-o", name, "-")
}

// X11 captures a display through github.com/kbinani/screenshot. Output names
// are "display-<index>" as produced by the output package's X11 lister.
type X11 struct {
	capture func(index int) (*image.RGBA, error)
}

// NewX11 returns the X11 capturer.
func NewX11() *X11 {
	return &X11{capture: screenshot.CaptureDisplay}
}

func (x *X11) Capture(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx, ok := output.DisplayIndex(name)
	if !ok {
		return nil, fmt.Errorf("unknown display %q", name)
	}
	img, err := x.capture(idx)
	if err != nil {
		return nil, fmt.Errorf("failed to capture display %d: %w", idx, err)
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.NoCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image as PNG: %w", err)
	}
	return buf.Bytes(), nil
}
