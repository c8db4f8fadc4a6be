package factory

import (
	"context"
	"fmt"
	"time"

	"gymbro-be/pkg/llm"
	"gymbro-be/pkg/llm/ollama"
	"gymbro-be/pkg/llm/openai"
)

type Params struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	// OnStaleToken is told about every continuation token the backend no longer knows.
	OnStaleToken func(ctx context.Context, token string)
}

// NewLLMProvider builds the configured backend wrapped with per-call timeout,
// tracing and a one-shot fresh start for stale continuation tokens.
func NewLLMProvider(p Params) (llm.LLMProvider, error) {
	var base llm.LLMProvider

	switch p.Provider {
	case "openai":
		if p.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		base = openai.NewOpenAIProvider(p.BaseURL, p.APIKey, p.Model)
	case "ollama":
		baseURL := p.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		base = ollama.NewOllamaProvider(baseURL, p.Model)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", p.Provider)
	}

	return llm.WithFreshStart(llm.WithTracing(llm.WithTimeout(base, p.Timeout), p.Provider), p.OnStaleToken), nil
}
