// Package llm talks to language model providers.
package llm

import "context"

const (
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
)

// Request is one single-turn completion
type Request struct {
	Model        string
	SystemPrompt string
	UserMessage  string
	MaxTokens    int
	Temperature  float64
}

// NewRequest builds a request with the default sampling parameters. An empty model
// leaves the choice to the provider's configured model.
func NewRequest(model, system, user string) Request {
	return Request{
		Model:        model,
		SystemPrompt: system,
		UserMessage:  user,
		MaxTokens:    DefaultMaxTokens,
		Temperature:  DefaultTemperature,
	}
}

func (r Request) maxTokens() int {
	if r.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return r.MaxTokens
}

// Provider defines a generic LLM interface
type Provider interface {
	Name() string
	// Complete returns the content of the first choice, unmodified
	Complete(ctx context.Context, req Request) (string, error)
}
