// Package acquire decides which text a request operates on.
package acquire

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/ajramos/mailassist/internal/capability"
	"github.com/ajramos/mailassist/internal/mailctx"
	"github.com/ajramos/mailassist/internal/render"
)

// Source records where acquired text came from
type Source string

const (
	SourceStaged    Source = "staged"
	SourceMail      Source = "mail"
	SourceThread    Source = "thread"
	SourceSelection Source = "selection"
	SourceClipboard Source = "clipboard"
	SourceNone      Source = "none"
)

// Result is the outcome of one acquisition
type Result struct {
	Text   string
	Source Source
}

// Empty reports whether nothing usable was found
func (r Result) Empty() bool {
	return strings.TrimSpace(r.Text) == ""
}

// Acquirer walks the acquisition chain. It owns the staged-text slot, which holds
// text captured ahead of a request (for example by a quick action).
type Acquirer struct {
	caps   capability.Provider
	logger *slog.Logger

	mu     sync.Mutex
	staged string
}

// New creates an acquirer reading selection and clipboard through caps
func New(caps capability.Provider, logger *slog.Logger) *Acquirer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Acquirer{caps: caps, logger: logger}
}

// Stage stores text for the next request
func (a *Acquirer) Stage(text string) {
	a.mu.Lock()
	a.staged = text
	a.mu.Unlock()
}

// Staged returns the staged text without consuming it
func (a *Acquirer) Staged() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.staged
}

// ClearStage empties the staged slot
func (a *Acquirer) ClearStage() {
	a.Stage("")
}

// Acquire returns the first non-empty text of: staged text, mail compose/viewer
// content, the formatted mailbox thread, the current selection, the clipboard.
// Failures at each step fall through to the next one.
func (a *Acquirer) Acquire(ctx context.Context, mc *mailctx.Context) Result {
	if staged := a.Staged(); strings.TrimSpace(staged) != "" {
		return a.found(Result{Text: staged, Source: SourceStaged})
	}

	if mc != nil && mc.IsMail() {
		source := SourceMail
		if !mc.HasContent() {
			source = SourceThread
		}
		if text := mc.Text(); strings.TrimSpace(text) != "" {
			return a.found(Result{Text: normalize(text), Source: source})
		}
	}

	if a.caps == nil {
		return a.found(Result{Source: SourceNone})
	}

	if text, err := a.caps.SelectedText(ctx); err != nil {
		a.logger.Debug("selection unavailable", "provider", a.caps.Name(), "error", err)
	} else if strings.TrimSpace(text) != "" {
		return a.found(Result{Text: normalize(text), Source: SourceSelection})
	}

	if text, err := a.caps.ReadClipboard(ctx); err != nil {
		a.logger.Debug("clipboard unavailable", "error", err)
	} else if strings.TrimSpace(text) != "" {
		return a.found(Result{Text: normalize(text), Source: SourceClipboard})
	}

	return a.found(Result{Source: SourceNone})
}

func (a *Acquirer) found(r Result) Result {
	a.logger.Debug("text acquired", "source", r.Source, "chars", len(r.Text))
	return r
}

func normalize(s string) string {
	if render.LooksLikeHTML(s) {
		return render.PlainText(s)
	}
	return s
}
