package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single helper invocation.
const DefaultTimeout = 10 * time.Second

// ToolError reports a helper process that could not be started or exited
// unsuccessfully.
type ToolError struct {
	Tool   string
	Args   []string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

// NotFound reports whether the helper binary was missing from PATH.
func (e *ToolError) NotFound() bool {
	return errors.Is(e.Err, exec.ErrNotFound)
}

// Runner executes a helper and returns its stdout.
type Runner interface {
	Output(ctx context.Context, tool string, args ...string) ([]byte, error)
}

// ExecRunner runs helpers with os/exec.
type ExecRunner struct {
	Timeout time.Duration
}

// Output runs tool with args and returns stdout. Any failure, including a
// non-zero exit, is returned as *ToolError.
func (r ExecRunner) Output(ctx context.Context, tool string, args ...string) ([]byte, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Stderr = &stderr

	start := time.Now()
	out, err := cmd.Output()
	log.Printf("Process: %s %s finished in %v (%d bytes, err=%v)", tool, strings.Join(args, " "), time.Since(start), len(out), err)
	if err != nil {
		return nil, &ToolError{Tool: tool, Args: args, Stderr: stderr.String(), Err: err}
	}
	return out, nil
}
