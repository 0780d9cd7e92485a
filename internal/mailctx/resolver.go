package mailctx

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ajramos/mailassist/internal/osascript"
)

// Resolver probes Mail.app for the current context. It keeps no state between calls.
type Resolver struct {
	runner osascript.Runner
	logger *slog.Logger
}

// NewResolver creates a resolver that runs its probes through runner
func NewResolver(runner osascript.Runner, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{runner: runner, logger: logger}
}

// Resolve returns the compose or viewer context of the frontmost Mail window.
// With several messages selected only the first one is used.
func (r *Resolver) Resolve(ctx context.Context) Context {
	if !r.mailFrontmost(ctx) {
		return None(ReasonNotActive)
	}

	out, err := r.runner.Run(ctx, selectionScript)
	if err != nil {
		r.logger.Debug("mail selection query failed", "error", err)
		return Failed(err.Error())
	}
	count, first, err := parseSelection(out)
	if err != nil {
		r.logger.Debug("mail selection parse failed", "error", err)
		return Failed(err.Error())
	}
	if count > 0 {
		r.logger.Debug("mail context resolved", "kind", KindViewer, "selected", count)
		return Viewer(first.Content, first.Subject, first.Sender)
	}

	out, err = r.runner.Run(ctx, composeScript)
	if err != nil {
		r.logger.Debug("mail compose query failed", "error", err)
		return Failed(ReasonNoMessage)
	}
	content, subject, err := parseCompose(out)
	if err != nil {
		r.logger.Debug("mail compose parse failed", "error", err)
		return Failed(ReasonNoMessage)
	}
	r.logger.Debug("mail context resolved", "kind", KindCompose, "chars", len(content))
	return Compose(content, subject)
}

// ResolveMailbox returns every selected message in display order
func (r *Resolver) ResolveMailbox(ctx context.Context) Context {
	if !r.mailFrontmost(ctx) {
		return None(ReasonNotActive)
	}

	out, err := r.runner.Run(ctx, mailboxScript)
	if err != nil {
		r.logger.Debug("mail mailbox query failed", "error", err)
		return Failed(err.Error())
	}
	msgs, err := parseMailbox(out)
	if err != nil {
		r.logger.Debug("mail mailbox parse failed", "error", err)
		return Failed(err.Error())
	}
	if len(msgs) == 0 {
		return None(ReasonNoMessage)
	}
	r.logger.Debug("mail context resolved", "kind", KindMailbox, "messages", len(msgs))
	return Mailbox(msgs)
}

// mailFrontmost treats a failing frontmost query the same as another app being active
func (r *Resolver) mailFrontmost(ctx context.Context) bool {
	name, err := r.runner.Run(ctx, frontmostScript)
	if err != nil {
		r.logger.Debug("frontmost application query failed", "error", err)
		return false
	}
	return strings.TrimSpace(name) == MailApp
}
