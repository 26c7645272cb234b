package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrToolMissing means an external program is not on PATH.
var ErrToolMissing = errors.New("required tool not found on PATH")

// ExecResult holds the outcome of one external tool invocation.
type ExecResult struct {
	Stdout []byte
	Stderr string
	Err    error
}

// Runner runs an external program. Tests substitute a fake.
type Runner func(ctx context.Context, name string, args ...string) ExecResult

// ExecRunner runs name with exec.CommandContext, capturing stdout and stderr.
func ExecRunner(ctx context.Context, name string, args ...string) ExecResult {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if errors.Is(err, exec.ErrNotFound) {
		err = fmt.Errorf("%s: %w", name, ErrToolMissing)
	} else if ctx.Err() != nil {
		err = ctx.Err()
	}
	return ExecResult{Stdout: stdout.Bytes(), Stderr: stderr.String(), Err: err}
}

// ToolError is a failed tool run with its classified stderr.
type ToolError struct {
	Tool   string
	Kind   error // ErrEncrypted, ErrDamaged or nil
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	msg := firstLine(e.Stderr)
	if e.Kind != nil {
		return fmt.Sprintf("%s: %v: %s", e.Tool, e.Kind, msg)
	}
	if msg != "" {
		return fmt.Sprintf("%s: %v: %s", e.Tool, e.Err, msg)
	}
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() []error {
	if e.Kind != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Err}
}

// toolError wraps a failed ExecResult, passing through missing-tool and
// cancellation errors untouched.
func toolError(tool string, r ExecResult) error {
	if errors.Is(r.Err, ErrToolMissing) || errors.Is(r.Err, context.Canceled) || errors.Is(r.Err, context.DeadlineExceeded) {
		return r.Err
	}
	return &ToolError{Tool: tool, Kind: Classify(r.Stderr), Stderr: r.Stderr, Err: r.Err}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
