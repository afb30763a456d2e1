package session

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os/exec"
	"strings"
	"testing"

	"screen-zoom/src/output"
	"screen-zoom/src/process"
	"screen-zoom/src/screenshot"
)

type fakeLister struct {
	outs []output.Output
	err  error
}

func (f fakeLister) ListOutputs(ctx context.Context) ([]output.Output, error) {
	return f.outs, f.err
}

type fakeCapturer struct {
	data []byte
	err  error
	got  string
}

func (f *fakeCapturer) Capture(ctx context.Context, name string) ([]byte, error) {
	f.got = name
	return f.data, f.err
}

type fakeHost struct {
	shown  *image.RGBA
	output string
	ctx    context.Context
	calls  int
	err    error
}

func (f *fakeHost) Show(ctx context.Context, outputName string, src *image.RGBA) error {
	f.calls++
	f.ctx = ctx
	f.output = outputName
	f.shown = src
	return f.err
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.SetRGBA(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestExecuteShowsFocusedOutput(t *testing.T) {
	lister := fakeLister{outs: []output.Output{
		{Name: "eDP-1", Focused: false},
		{Name: "HDMI-1", Focused: true},
	}}
	capturer := &fakeCapturer{data: encodePNG(t, 4, 3)}
	host := &fakeHost{}
	var stdout bytes.Buffer

	err := Execute(context.Background(), Options{Lister: lister, Capturer: capturer, Host: host, Stdout: &stdout})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if capturer.got != "HDMI-1" {
		t.Errorf("Expected capture of HDMI-1, got %q", capturer.got)
	}
	if got := stdout.String(); got != "Monitor: HDMI-1\n" {
		t.Errorf("unexpected stdout %q", got)
	}
	if host.calls != 1 {
		t.Fatalf("Expected one Show call, got %d", host.calls)
	}
	if host.output != "HDMI-1" {
		t.Errorf("Expected overlay on HDMI-1, got %q", host.output)
	}
	if host.shown.Bounds().Size() != image.Pt(4, 3) {
		t.Errorf("Expected 4x3 image, got %v", host.shown.Bounds())
	}
	if got := host.shown.RGBAAt(1, 1); got != (color.RGBA{R: 200, A: 255}) {
		t.Errorf("unexpected pixel %v", got)
	}
}

func TestExecuteFailuresNeverShow(t *testing.T) {
	listErr := errors.New("swaymsg gone")
	capErr := errors.New("grim gone")
	focused := []output.Output{{Name: "DP-2", Focused: true}}

	tests := []struct {
		name     string
		lister   fakeLister
		capturer *fakeCapturer
		want     error
	}{
		{"no focused output", fakeLister{outs: []output.Output{{Name: "DP-1"}}}, &fakeCapturer{}, output.ErrNoOutput},
		{"no outputs", fakeLister{}, &fakeCapturer{}, output.ErrNoOutput},
		{"list failure", fakeLister{err: listErr}, &fakeCapturer{}, listErr},
		{"capture failure", fakeLister{outs: focused}, &fakeCapturer{err: capErr}, capErr},
		{"undecodable capture", fakeLister{outs: focused}, &fakeCapturer{data: []byte("not an image")}, screenshot.ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := &fakeHost{}
			var stdout bytes.Buffer
			err := Execute(context.Background(), Options{Lister: tt.lister, Capturer: tt.capturer, Host: host, Stdout: &stdout})
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
			if host.calls != 0 {
				t.Error("Show must not be called after a failure")
			}
			if stdout.Len() != 0 {
				t.Errorf("unexpected stdout %q", stdout.String())
			}
		})
	}
}

func TestExecutePropagatesHostError(t *testing.T) {
	hostErr := errors.New("no display")
	host := &fakeHost{err: hostErr}
	err := Execute(context.Background(), Options{
		Lister:   fakeLister{outs: []output.Output{{Name: "DP-1", Focused: true}}},
		Capturer: &fakeCapturer{data: encodePNG(t, 2, 2)},
		Host:     host,
		Stdout:   &bytes.Buffer{},
	})
	if !errors.Is(err, hostErr) {
		t.Errorf("Expected host error, got %v", err)
	}
}

func TestExecuteRequiresDependencies(t *testing.T) {
	if err := Execute(context.Background(), Options{}); err == nil {
		t.Error("expected error for missing dependencies")
	}
}

type ctxKey struct{}

func TestExecutePassesContextToHost(t *testing.T) {
	ctx := context.WithValue(context.Background(), ctxKey{}, "session")
	host := &fakeHost{}
	err := Execute(ctx, Options{
		Lister:   fakeLister{outs: []output.Output{{Name: "DP-1", Focused: true}}},
		Capturer: &fakeCapturer{data: encodePNG(t, 2, 2)},
		Host:     host,
		Stdout:   &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if host.ctx == nil || host.ctx.Value(ctxKey{}) != "session" {
		t.Error("Show must receive the session context")
	}
}

func TestExecuteMissingToolHint(t *testing.T) {
	missing := &process.ToolError{Tool: "swaymsg", Err: exec.ErrNotFound}
	broken := &process.ToolError{Tool: "swaymsg", Err: errors.New("exit status 1")}

	tests := []struct {
		name     string
		err      error
		wantHint bool
	}{
		{"binary missing", missing, true},
		{"binary failed", broken, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Execute(context.Background(), Options{
				Lister:   fakeLister{err: tt.err},
				Capturer: &fakeCapturer{},
				Host:     &fakeHost{},
				Stdout:   &bytes.Buffer{},
			})
			var te *process.ToolError
			if !errors.As(err, &te) {
				t.Fatalf("Expected *process.ToolError, got %v", err)
			}
			if got := strings.Contains(err.Error(), "BACKEND=x11"); got != tt.wantHint {
				t.Errorf("hint present=%v, want %v: %v", got, tt.wantHint, err)
			}
		})
	}
}
