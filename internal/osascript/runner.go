// Package osascript runs AppleScript through the osascript command line tool.
package osascript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultBinary is the AppleScript interpreter shipped with macOS
const DefaultBinary = "osascript"

// ErrUnavailable is returned when the interpreter cannot be found
var ErrUnavailable = errors.New("osascript not available")

// Runner executes an AppleScript program and returns its trimmed standard output
type Runner interface {
	Run(ctx context.Context, script string) (string, error)
}

// ScriptError carries the interpreter's diagnostic output
type ScriptError struct {
	Stderr string
	Err    error
}

func (e *ScriptError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return "AppleScript error: " + msg
}

func (e *ScriptError) Unwrap() error { return e.Err }

// ExecRunner runs scripts in a child process
type ExecRunner struct {
	Binary string
}

// NewExecRunner creates a runner for the given interpreter path (empty = osascript)
func NewExecRunner(binary string) *ExecRunner {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultBinary
	}
	return &ExecRunner{Binary: binary}
}

// Available reports whether the interpreter can be located
func (r *ExecRunner) Available() bool {
	_, err := exec.LookPath(r.Binary)
	return err == nil
}

// Run passes the script as a single -e argument, so no shell quoting is involved.
// Output on stderr is treated as a failure even when the exit status is zero.
func (r *ExecRunner) Run(ctx context.Context, script string) (string, error) {
	if !r.Available() {
		return "", ErrUnavailable
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Binary, "-e", script)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &ScriptError{Stderr: stderr.String(), Err: err}
	}
	if strings.TrimSpace(stderr.String()) != "" {
		return "", &ScriptError{Stderr: stderr.String()}
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Quote renders s as an AppleScript string literal
func Quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}

// RunnerFunc adapts a function to the Runner interface
type RunnerFunc func(ctx context.Context, script string) (string, error)

// Run calls f
func (f RunnerFunc) Run(ctx context.Context, script string) (string, error) {
	return f(ctx, script)
}

// Errorf builds a ScriptError from a formatted message
func Errorf(format string, args ...any) error {
	return &ScriptError{Stderr: fmt.Sprintf(format, args...)}
}
