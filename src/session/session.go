package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"screen-zoom/src/output"
	"screen-zoom/src/overlay"
	"screen-zoom/src/process"
	"screen-zoom/src/screenshot"
)

// Options wires one magnifier session. Lister, Capturer and Host are
// required; Stdout defaults to os.Stdout.
type Options struct {
	Lister   output.Lister
	Capturer screenshot.Capturer
	Host     overlay.Host
	Stdout   io.Writer
}

// Execute captures the focused output and shows it in the overlay until the
// user quits. Nothing is shown when any step before the overlay fails.
func Execute(ctx context.Context, opts Options) error {
	if opts.Lister == nil {
		return errors.New("Lister is required")
	}
	if opts.Capturer == nil {
		return errors.New("Capturer is required")
	}
	if opts.Host == nil {
		return errors.New("Host is required")
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	start := time.Now()
	out, err := output.Select(ctx, opts.Lister)
	if err != nil {
		return fmt.Errorf("failed to find focused output: %w%s", err, missingToolHint(err))
	}

	data, err := opts.Capturer.Capture(ctx, out.Name)
	if err != nil {
		return fmt.Errorf("failed to capture output %s: %w%s", out.Name, err, missingToolHint(err))
	}
	img, err := screenshot.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode capture of %s: %w", out.Name, err)
	}
	log.Printf("Session: captured %s in %v", out.Name, time.Since(start))

	if _, err := fmt.Fprintf(stdout, "Monitor: %s\n", out.Name); err != nil {
		return fmt.Errorf("failed to write monitor name: %w", err)
	}

	return opts.Host.Show(ctx, out.Name, img)
}

// missingToolHint points at the BACKEND setting when a helper binary is not
// installed.
func missingToolHint(err error) string {
	var te *process.ToolError
	if errors.As(err, &te) && te.NotFound() {
		return " (install it or set BACKEND=x11 in .env)"
	}
	return ""
}
