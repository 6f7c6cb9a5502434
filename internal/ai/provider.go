// Package ai provides interchangeable language-model providers for the AI
// scoring strategy.
package ai

import (
	"context"
	"fmt"
)

// Provider sends a prompt to a language model and returns its raw text
// response. The response carries no schema guarantees; callers must parse
// defensively.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider string // "openai" or "anthropic"
	APIKey   string
	Model    string // empty selects the provider default
	BaseURL  string // empty selects the provider default
}

// NewProvider constructs the configured provider. A missing API key is an
// error here; the strategy layer converts it into an empty result.
func NewProvider(cfg Config) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ai provider %q: missing API key", cfg.Provider)
	}
	switch cfg.Provider {
	case "", "openai":
		return newOpenAIProvider(cfg), nil
	case "anthropic":
		return newAnthropicProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}
