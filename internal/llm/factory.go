package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMissingAPIKey is returned when a hosted provider has no API key configured
var ErrMissingAPIKey = errors.New("API key not configured")

// Settings selects and configures a provider
type Settings struct {
	Provider string
	Endpoint string
	Region   string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// NewProviderFromConfig creates a Provider from config fields
func NewProviderFromConfig(ctx context.Context, s Settings) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s.Provider)) {
	case "openai", "":
		if strings.TrimSpace(s.APIKey) == "" {
			return nil, ErrMissingAPIKey
		}
		return NewOpenAI(s.APIKey, s.Model, s.Endpoint, s.Timeout), nil
	case "ollama":
		return NewOllama(s.Endpoint, s.Model, s.Timeout), nil
	case "bedrock":
		b, err := NewBedrock(ctx, s.Region, s.Model, s.Timeout)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", s.Provider)
	}
}
