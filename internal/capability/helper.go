package capability

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
)

// HelperError carries the diagnostic output of a failed helper command
type HelperError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *HelperError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("helper %s: %s", e.Command, msg)
}

func (e *HelperError) Unwrap() error { return e.Err }

// Helper implements Provider on top of the native helper executable. The helper
// answers one JSON document per command; `monitor` streams JSON events, one per line.
// Operations the helper cannot serve fall back to the AppleScript provider.
type Helper struct {
	path     string
	fallback *Script
	logger   *slog.Logger

	statusOnce sync.Once
	status     Status
}

// NewHelper creates a provider for the helper at path
func NewHelper(path string, fallback *Script, logger *slog.Logger) *Helper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Helper{path: path, fallback: fallback, logger: logger}
}

func (h *Helper) Name() string { return "helper" }

// Status is probed once and cached for the lifetime of the process
func (h *Helper) Status(ctx context.Context) Status {
	h.statusOnce.Do(func() {
		st, err := h.probe(ctx)
		if err != nil {
			h.logger.Warn("helper status probe failed", "error", err)
		}
		h.status = st
	})
	return h.status
}

func (h *Helper) probe(ctx context.Context) (Status, error) {
	var st Status
	err := h.call(ctx, "", &st, "status")
	return st, err
}

type selectionReply struct {
	Text    string `json:"text"`
	AppName string `json:"appName"`
}

// SelectedText asks the helper first and uses the copy-simulate-restore script when
// the helper fails or returns nothing.
func (h *Helper) SelectedText(ctx context.Context) (string, error) {
	var reply selectionReply
	err := h.call(ctx, "", &reply, "selected-text")
	if err == nil && reply.Text != "" {
		return reply.Text, nil
	}
	if err != nil {
		h.logger.Debug("helper selection failed, using AppleScript", "error", err)
	}
	return h.fallback.SelectedText(ctx)
}

func (h *Helper) ReadClipboard(ctx context.Context) (string, error) {
	return h.fallback.ReadClipboard(ctx)
}

func (h *Helper) WriteClipboard(ctx context.Context, text string) error {
	return h.fallback.WriteClipboard(ctx, text)
}

type insertReply struct {
	OK bool `json:"ok"`
}

// InsertText sends text on the helper's stdin so it is never exposed in argv
func (h *Helper) InsertText(ctx context.Context, text string) error {
	var reply insertReply
	err := h.call(ctx, text, &reply, "insert-text")
	if err == nil && reply.OK {
		return nil
	}
	if err == nil {
		err = errors.New("helper refused insert")
	}
	h.logger.Debug("helper insert failed, using keystrokes", "error", err)
	return h.fallback.InsertText(ctx, text)
}

func (h *Helper) FrontmostApp(ctx context.Context) (App, error) {
	var app App
	if err := h.call(ctx, "", &app, "frontmost-app"); err != nil {
		return h.fallback.FrontmostApp(ctx)
	}
	return app, nil
}

// Monitor runs the helper's event stream and publishes every event on bus until ctx
// is cancelled or the helper exits.
func (h *Helper) Monitor(ctx context.Context, bus *Bus) error {
	cmd := exec.CommandContext(ctx, h.path, "monitor")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("helper monitor: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return &HelperError{Command: "monitor", Err: err}
	}

	sc := bufio.NewScanner(stdout)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			h.logger.Warn("discarding malformed helper event", "error", err)
			continue
		}
		if !ev.Type.Valid() {
			h.logger.Debug("ignoring unknown helper event", "type", ev.Type)
			continue
		}
		bus.Publish(ev)
	}

	err = cmd.Wait()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return &HelperError{Command: "monitor", Stderr: stderr.String(), Err: err}
	}
	return sc.Err()
}

func (h *Helper) call(ctx context.Context, stdin string, v any, args ...string) error {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, h.path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	if err := cmd.Run(); err != nil {
		return &HelperError{Command: args[0], Stderr: stderr.String(), Err: err}
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(stdout.Bytes(), v); err != nil {
		return &HelperError{Command: args[0], Err: fmt.Errorf("decode reply: %w", err)}
	}
	return nil
}

// Detect picks the provider once at startup: the helper when it is installed and
// answers a status probe, otherwise AppleScript.
func Detect(ctx context.Context, helperPath string, fallback *Script, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(helperPath) == "" {
		logger.Info("no native helper configured, using AppleScript")
		return fallback
	}
	if _, err := exec.LookPath(helperPath); err != nil {
		logger.Info("native helper not found, using AppleScript", "path", helperPath)
		return fallback
	}
	h := NewHelper(helperPath, fallback, logger)
	st, err := h.probe(ctx)
	if err != nil {
		logger.Warn("native helper did not answer, using AppleScript", "error", err)
		return fallback
	}
	h.statusOnce.Do(func() { h.status = st })
	logger.Info("using native helper", "path", helperPath, "ready", st.Ready())
	return h
}
