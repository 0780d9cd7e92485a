package services

import (
	"context"

	"github.com/ajramos/mailassist/internal/acquire"
	"github.com/ajramos/mailassist/internal/config"
	"github.com/ajramos/mailassist/internal/db"
	"github.com/ajramos/mailassist/internal/llm"
	"github.com/ajramos/mailassist/internal/mailctx"
)

// View receives the visible state of a request
type View interface {
	SetProcessing(processing bool)
	ShowResult(text string)
	ShowError(message string)
}

// ContextResolver probes the mail client
type ContextResolver interface {
	Resolve(ctx context.Context) mailctx.Context
	ResolveMailbox(ctx context.Context) mailctx.Context
}

// TextSource acquires the text a request operates on and holds staged text
type TextSource interface {
	Acquire(ctx context.Context, mc *mailctx.Context) acquire.Result
	Stage(text string)
	Staged() string
	ClearStage()
}

// ConfigSource returns the current configuration; config.Manager satisfies it
type ConfigSource interface {
	GetConfig() *config.Config
}

// HistoryRecorder stores finished requests
type HistoryRecorder interface {
	Record(ctx context.Context, entry db.HistoryEntry) error
}

// ProviderFactory builds the model provider for the current configuration
type ProviderFactory func(ctx context.Context, cfg *config.Config) (llm.Provider, error)

// StaticConfig serves a fixed configuration
type StaticConfig struct {
	Config *config.Config
}

// GetConfig returns the wrapped configuration
func (s StaticConfig) GetConfig() *config.Config { return s.Config }

// NopView discards every update
type NopView struct{}

func (NopView) SetProcessing(bool) {}
func (NopView) ShowResult(string)  {}
func (NopView) ShowError(string)   {}
