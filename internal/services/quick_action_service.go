package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ajramos/mailassist/internal/acquire"
	"github.com/ajramos/mailassist/internal/config"
	"github.com/ajramos/mailassist/internal/mailctx"
)

// Action is a predefined prompt
type Action string

const (
	ActionSummarize Action = "summarize"
	ActionTranslate Action = "translate"
	ActionImprove   Action = "improve"
	ActionReply     Action = "reply"
)

// Prompts used instead of the configured ones when Mail provides the message
const (
	viewerSummarizePrompt = "Please summarize this email from %s:"
	mailReplyPrompt       = "Based on this email, help me draft a professional reply:"
)

// Actions lists the quick actions in display order
func Actions() []Action {
	return []Action{ActionSummarize, ActionTranslate, ActionImprove, ActionReply}
}

// ParseAction validates an action name
func ParseAction(name string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Actions() {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// Enabled reports whether the action is offered for a context kind. Reply needs
// a message or thread to answer.
func (a Action) Enabled(kind mailctx.Kind) bool {
	if a == ActionReply {
		return kind == mailctx.KindMailbox || kind == mailctx.KindViewer
	}
	return true
}

// PreparedAction is a quick action ready to be submitted
type PreparedAction struct {
	Action  Action
	Prompt  string
	Text    string
	Source  acquire.Source
	Context mailctx.Context
}

// QuickActionService turns quick actions into requests
type QuickActionService struct {
	assistant *AssistantService
	logger    *slog.Logger
}

// NewQuickActionService creates a quick action service on top of the orchestrator
func NewQuickActionService(assistant *AssistantService, logger *slog.Logger) *QuickActionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuickActionService{assistant: assistant, logger: logger}
}

// Prepare resolves the context, picks the prompt and stages the text for the
// next submission. The caller may edit the prompt before submitting it.
func (s *QuickActionService) Prepare(ctx context.Context, action Action) (PreparedAction, error) {
	a := s.assistant
	p, err := s.prepare(ctx, a.currentConfig(), a.contexts.Current(ctx), action)
	if err != nil {
		return PreparedAction{}, err
	}
	if a.text != nil {
		a.text.Stage(p.Text)
	}
	return p, nil
}

// prepare picks the prompt and text for action. Staged text wins over the
// mail content except for reply, which answers the message itself.
func (s *QuickActionService) prepare(ctx context.Context, cfg *config.Config, mc mailctx.Context, action Action) (PreparedAction, error) {
	if !action.Enabled(mc.Kind) {
		return PreparedAction{}, ErrActionDisabled
	}

	prompt := cfg.GetActionPrompt(string(action))
	if prompt == "" {
		return PreparedAction{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	var (
		text   string
		source acquire.Source
	)
	switch action {
	case ActionSummarize:
		if mc.Kind == mailctx.KindViewer && cfg.PromptSummarize == "" {
			sender := mc.Sender
			if sender == "" {
				sender = "sender"
			}
			prompt = fmt.Sprintf(viewerSummarizePrompt, sender)
		}
	case ActionReply:
		if cfg.PromptReply == "" {
			prompt = mailReplyPrompt
		}
		if mc.HasContent() {
			text, source = mc.Content, acquire.SourceMail
		} else {
			text, source = mailctx.FormatThread(mc.Messages), acquire.SourceThread
		}
	}

	if strings.TrimSpace(text) == "" && s.assistant.text != nil {
		if r := s.assistant.text.Acquire(ctx, &mc); !r.Empty() {
			text, source = r.Text, r.Source
		}
	}
	if strings.TrimSpace(text) == "" {
		return PreparedAction{}, ErrNoText
	}

	s.logger.Debug("quick action prepared", "action", action, "context", mc.Kind, "source", source, "chars", len(text))
	return PreparedAction{Action: action, Prompt: prompt, Text: text, Source: source, Context: mc}, nil
}

// Run prepares action and submits it with its default prompt. Preparation
// happens under the request gate, so a call dropped with ErrBusy neither
// reads nor replaces the staged text.
func (s *QuickActionService) Run(ctx context.Context, action Action) (string, error) {
	return s.assistant.run(ctx, string(action), func(ctx context.Context, cfg *config.Config, mc mailctx.Context) (request, error) {
		p, err := s.prepare(ctx, cfg, mc, action)
		if err != nil {
			return request{}, err
		}
		return request{prompt: p.Prompt, text: &acquire.Result{Text: p.Text, Source: p.Source}}, nil
	})
}

// RunWithText applies action to text delivered by a native event. The mail
// context is not consulted for the text, so reply is always allowed here.
func (s *QuickActionService) RunWithText(ctx context.Context, action Action, text string) (string, error) {
	return s.assistant.run(ctx, string(action), func(_ context.Context, cfg *config.Config, _ mailctx.Context) (request, error) {
		prompt := cfg.GetActionPrompt(string(action))
		if prompt == "" {
			return request{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
		}
		if strings.TrimSpace(text) == "" {
			return request{}, ErrNoText
		}
		return request{prompt: prompt, text: &acquire.Result{Text: text, Source: sourceProvided}}, nil
	})
}
