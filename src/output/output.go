// Package output finds the display the compositor considers active.
package output

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"screen-zoom/src/process"
)

var (
	// ErrNoOutput means no output in the list is focused.
	ErrNoOutput = errors.New("no focused output")
	// ErrMalformed means the display query returned data that is not an
	// output list.
	ErrMalformed = errors.New("malformed output list")
)

// Output is one display as reported by the display server.
type Output struct {
	Name    string `json:"name"`
	Focused bool   `json:"focused"`
}

// Lister queries the display server for its outputs.
type Lister interface {
	ListOutputs(ctx context.Context) ([]Output, error)
}

// Parse decodes a JSON output list.
func Parse(data []byte) ([]Output, error) {
	var outs []Output
	if err := json.Unmarshal(data, &outs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return outs, nil
}

// Focused returns the first focused output.
func Focused(outs []Output) (Output, error) {
	for _, o := range outs {
		if o.Focused {
			return o, nil
		}
	}
	return Output{}, ErrNoOutput
}

// Select lists outputs with l and returns the focused one.
func Select(ctx context.Context, l Lister) (Output, error) {
	outs, err := l.ListOutputs(ctx)
	if err != nil {
		return Output{}, err
	}
	log.Printf("Output: %d outputs reported", len(outs))
	return Focused(outs)
}

// Sway lists outputs with `swaymsg -t get_outputs -r`.
type Sway struct {
	Path   string
	Runner process.Runner
}

// NewSway returns a lister using the swaymsg binary at path ("swaymsg" when
// empty).
func NewSway(path string) *Sway {
	if path == "" {
		path = "swaymsg"
	}
	return &Sway{Path: path, Runner: process.ExecRunner{}}
}

func (s *Sway) ListOutputs(ctx context.Context) ([]Output, error) {
	raw, err := s.Runner.Output(ctx, s.Path, "-t", "get_outputs", "-r")
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}
