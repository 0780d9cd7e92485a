package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ajramos/mailassist/internal/acquire"
	"github.com/ajramos/mailassist/internal/config"
	"github.com/ajramos/mailassist/internal/db"
	"github.com/ajramos/mailassist/internal/llm"
	"github.com/ajramos/mailassist/internal/mailctx"
	"github.com/ajramos/mailassist/internal/privacy"
)

// systemPromptSuffix closes every system prompt
const systemPromptSuffix = " Keep responses concise and actionable."

// Action names recorded for requests that are not quick actions
const (
	actionAsk   = "ask"
	actionEvent = "event"
)

// sourceProvided marks text that arrived with the request
const sourceProvided acquire.Source = "provided"

// request is what a run sends once it holds the gate. A nil text means the
// text is acquired from the resolved context.
type request struct {
	prompt string
	text   *acquire.Result
}

// prepareFunc builds the request under the gate from the current
// configuration and mail context
type prepareFunc func(ctx context.Context, cfg *config.Config, mc mailctx.Context) (request, error)

// withPrompt sends prompt against text, or against acquired text when text is nil
func withPrompt(prompt string, text *string) prepareFunc {
	return func(context.Context, *config.Config, mailctx.Context) (request, error) {
		req := request{prompt: prompt}
		if text != nil {
			req.text = &acquire.Result{Text: *text, Source: sourceProvided}
		}
		return req, nil
	}
}

// AssistantService runs requests: acquire text, filter it, call the model and
// report the outcome to the view. Only one request runs at a time.
type AssistantService struct {
	gate        Gate
	view        View
	contexts    *ContextService
	text        TextSource
	config      ConfigSource
	newProvider ProviderFactory
	history     HistoryRecorder
	logger      *slog.Logger
}

// NewAssistantService creates the request orchestrator. A nil factory uses
// DefaultProviderFactory; a nil history disables recording.
func NewAssistantService(view View, contexts *ContextService, text TextSource, cfg ConfigSource,
	newProvider ProviderFactory, history HistoryRecorder, logger *slog.Logger) *AssistantService {
	if view == nil {
		view = NopView{}
	}
	if newProvider == nil {
		newProvider = DefaultProviderFactory
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AssistantService{
		view:        view,
		contexts:    contexts,
		text:        text,
		config:      cfg,
		newProvider: newProvider,
		history:     history,
		logger:      logger,
	}
}

// DefaultProviderFactory builds the provider named by the configuration
func DefaultProviderFactory(ctx context.Context, cfg *config.Config) (llm.Provider, error) {
	return llm.NewProviderFromConfig(ctx, llm.Settings{
		Provider: cfg.AIProvider,
		Endpoint: cfg.AIEndpoint,
		Region:   cfg.AIRegion,
		Model:    cfg.AIModel,
		APIKey:   cfg.OpenAIAPIKey,
		Timeout:  cfg.GetAITimeout(),
	})
}

// Busy reports whether a request is in flight
func (s *AssistantService) Busy() bool {
	return s.gate.Busy()
}

// Submit processes prompt against the acquired text. A call made while another
// request is in flight returns ErrBusy and has no other effect.
func (s *AssistantService) Submit(ctx context.Context, prompt string) (string, error) {
	return s.run(ctx, actionAsk, withPrompt(prompt, nil))
}

// RunWithText processes prompt against text supplied by the caller, skipping acquisition
func (s *AssistantService) RunWithText(ctx context.Context, prompt, text string) (string, error) {
	return s.run(ctx, actionEvent, withPrompt(prompt, &text))
}

// run holds the gate for the whole request, including preparation, so a
// dropped call leaves the staged slot untouched
func (s *AssistantService) run(ctx context.Context, action string, prepare prepareFunc) (result string, err error) {
	if !s.gate.TryAcquire() {
		s.logger.Debug("request dropped, another one is in flight", "action", action)
		return "", ErrBusy
	}

	s.view.SetProcessing(true)
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("request panicked", "action", action, "panic", r)
			result, err = "", &ProcessingError{Err: fmt.Errorf("%v", r)}
			s.view.ShowError(UserMessage(err))
		}
		if s.text != nil {
			s.text.ClearStage()
		}
		s.view.SetProcessing(false)
		s.gate.Release()
	}()

	result, err = s.process(ctx, action, prepare)
	if err != nil {
		s.logger.Info("request failed", "action", action, "error", err)
		s.view.ShowError(UserMessage(err))
		return "", err
	}
	s.view.ShowResult(result)
	return result, nil
}

func (s *AssistantService) process(ctx context.Context, action string, prepare prepareFunc) (string, error) {
	cfg := s.currentConfig()
	mc := s.contexts.Current(ctx)

	req, err := prepare(ctx, cfg, mc)
	if err != nil {
		return "", err
	}
	prompt := strings.TrimSpace(req.prompt)
	if prompt == "" {
		return "", ErrNoInput
	}

	var acquired acquire.Result
	switch {
	case req.text != nil:
		acquired = *req.text
	case s.text != nil:
		acquired = s.text.Acquire(ctx, &mc)
	default:
		acquired.Source = acquire.SourceNone
	}
	source := string(acquired.Source)

	verdict := privacy.Filter(acquired.Text, cfg.PrivacyCategories())
	entry := db.HistoryEntry{
		Action:        action,
		Prompt:        prompt,
		ContextKind:   string(mc.Kind),
		Source:        source,
		FilteredCount: verdict.FilteredCount,
	}

	if verdict.Blocked {
		s.logger.Info("request blocked by privacy filter", "matches", verdict.FilteredCount)
		entry.Error = ErrPrivacyBlocked.Error()
		s.record(ctx, entry)
		return "", ErrPrivacyBlocked
	}
	entry.RedactedText = verdict.SafeText

	provider, err := s.newProvider(ctx, cfg)
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			return "", ErrNotConfigured
		}
		return "", &ProcessingError{Err: err}
	}

	call := llm.NewRequest(cfg.AIModel, BuildSystemPrompt(cfg, mc.Kind), BuildUserMessage(verdict.SafeText, prompt))
	s.logger.Debug("sending request", "provider", provider.Name(), "action", action,
		"context", mc.Kind, "source", source, "chars", len(verdict.SafeText), "filtered", verdict.FilteredCount)

	response, err := provider.Complete(ctx, call)
	if err != nil {
		mapped := classifyProviderError(err)
		entry.Error = UserMessage(mapped)
		s.record(ctx, entry)
		return "", mapped
	}

	entry.Response = response
	s.record(ctx, entry)
	return response, nil
}

func (s *AssistantService) currentConfig() *config.Config {
	if s.config != nil {
		if cfg := s.config.GetConfig(); cfg != nil {
			return cfg
		}
	}
	return config.DefaultConfig()
}

func (s *AssistantService) record(ctx context.Context, entry db.HistoryEntry) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(ctx, entry); err != nil {
		s.logger.Warn("history not recorded", "error", err)
	}
}

// BuildSystemPrompt returns the base prompt plus the addition for the context kind
func BuildSystemPrompt(cfg *config.Config, kind mailctx.Kind) string {
	prompt := cfg.GetSystemPrompt()
	switch kind {
	case mailctx.KindCompose:
		prompt += cfg.GetComposePrompt()
	case mailctx.KindMailbox:
		prompt += cfg.GetMailboxPrompt()
	}
	return prompt + systemPromptSuffix
}

// BuildUserMessage combines text and task, or returns the bare prompt when there is no text
func BuildUserMessage(text, prompt string) string {
	if strings.TrimSpace(text) == "" {
		return prompt
	}
	return "Text to process:\n" + text + "\n\nTask: " + prompt
}
