package capability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ajramos/mailassist/internal/osascript"
)

const (
	copySelectionScript = `try
	set oldClipboard to the clipboard
on error
	set oldClipboard to ""
end try
tell application "System Events" to keystroke "c" using command down
delay 0.1
try
	set selectedText to the clipboard as text
on error
	set selectedText to ""
end try
set the clipboard to oldClipboard
return selectedText`

	frontmostAppScript = `tell application "System Events"
	set p to first application process whose frontmost is true
	return (name of p) & (character id 31) & (bundle identifier of p)
end tell`

	accessibilityScript = `tell application "System Events" to return UI elements enabled`
)

// Script implements Provider with AppleScript and the system clipboard. It is used
// when the native helper is not installed.
type Script struct {
	runner    osascript.Runner
	clipboard Clipboard
	logger    *slog.Logger
}

// NewScript creates the AppleScript-backed provider
func NewScript(runner osascript.Runner, clip Clipboard, logger *slog.Logger) *Script {
	if clip == nil {
		clip = SystemClipboard()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Script{runner: runner, clipboard: clip, logger: logger}
}

func (s *Script) Name() string { return "applescript" }

// Status has no context-menu support; selection depends on the accessibility grant
func (s *Script) Status(ctx context.Context) Status {
	out, err := s.runner.Run(ctx, accessibilityScript)
	granted := err == nil && strings.EqualFold(strings.TrimSpace(out), "true")
	if err != nil {
		s.logger.Debug("accessibility probe failed", "error", err)
	}
	return Status{TextSelection: granted, Accessibility: granted, Permissions: granted}
}

// SelectedText simulates Cmd+C and restores the previous clipboard afterwards
func (s *Script) SelectedText(ctx context.Context) (string, error) {
	out, err := s.runner.Run(ctx, copySelectionScript)
	if err != nil {
		return "", fmt.Errorf("copy selection: %w", err)
	}
	return out, nil
}

func (s *Script) ReadClipboard(_ context.Context) (string, error) {
	text, err := s.clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return text, nil
}

func (s *Script) WriteClipboard(_ context.Context, text string) error {
	if err := s.clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// InsertText types text into the focused element
func (s *Script) InsertText(ctx context.Context, text string) error {
	script := `tell application "System Events" to keystroke ` + osascript.Quote(text)
	if _, err := s.runner.Run(ctx, script); err != nil {
		return fmt.Errorf("type text: %w", err)
	}
	return nil
}

func (s *Script) FrontmostApp(ctx context.Context) (App, error) {
	out, err := s.runner.Run(ctx, frontmostAppScript)
	if err != nil {
		return App{Name: "Unknown", BundleID: "unknown"}, fmt.Errorf("frontmost app: %w", err)
	}
	name, bundle, _ := strings.Cut(out, "\x1f")
	return App{Name: name, BundleID: bundle}, nil
}
