package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ajramos/mailassist/internal/mailctx"
)

// ContextSnapshot is a resolved context together with its display details
type ContextSnapshot struct {
	Context      mailctx.Context `json:"context"`
	Label        string          `json:"label"`
	ReplyEnabled bool            `json:"replyEnabled"`
}

// ContextService resolves the mail context on demand. In thread mode it prefers
// the whole selection over the first message.
type ContextService struct {
	resolver ContextResolver
	logger   *slog.Logger

	mu         sync.Mutex
	threadMode bool
}

// NewContextService creates a context service
func NewContextService(resolver ContextResolver, logger *slog.Logger) *ContextService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContextService{resolver: resolver, logger: logger}
}

// SetThreadMode switches between single-message and whole-selection resolution
func (s *ContextService) SetThreadMode(on bool) {
	s.mu.Lock()
	s.threadMode = on
	s.mu.Unlock()
}

// Current re-runs the resolver
func (s *ContextService) Current(ctx context.Context) mailctx.Context {
	if s == nil || s.resolver == nil {
		return mailctx.None(mailctx.ReasonNotActive)
	}

	s.mu.Lock()
	thread := s.threadMode
	s.mu.Unlock()

	var mc mailctx.Context
	if thread {
		mc = s.resolver.ResolveMailbox(ctx)
		if mc.Kind != mailctx.KindMailbox && mc.Reason != mailctx.ReasonNotActive {
			mc = s.resolver.Resolve(ctx)
		}
	} else {
		mc = s.resolver.Resolve(ctx)
	}

	s.logger.Debug("mail context resolved", "context", mc.String())
	return mc
}

// Describe resolves the context and adds its label and action availability
func (s *ContextService) Describe(ctx context.Context) ContextSnapshot {
	mc := s.Current(ctx)
	return ContextSnapshot{
		Context:      mc,
		Label:        mc.Label(),
		ReplyEnabled: ActionReply.Enabled(mc.Kind),
	}
}
