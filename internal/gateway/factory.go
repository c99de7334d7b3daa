package gateway

import (
	"context"
	"fmt"
	"os"

	"leadpilot/internal/config"
)

// Provider identifies a model provider.
type Provider string

const (
	ProviderGroq   Provider = "groq"
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// DetectProvider checks environment variables for an API key.
// Priority: GROQ > GEMINI > OPENAI.
func DetectProvider() (Provider, string, error) {
	providers := []struct {
		envVar   string
		provider Provider
	}{
		{"GROQ_API_KEY", ProviderGroq},
		{"GEMINI_API_KEY", ProviderGemini},
		{"OPENAI_API_KEY", ProviderOpenAI},
	}

	for _, p := range providers {
		if key := os.Getenv(p.envVar); key != "" {
			return p.provider, key, nil
		}
	}

	return "", "", fmt.Errorf("no API key found; set one of: GROQ_API_KEY, GEMINI_API_KEY, OPENAI_API_KEY")
}

// NewClientFromConfig creates a provider client from configuration.
func NewClientFromConfig(ctx context.Context, cfg *config.Config) (LLMClient, error) {
	llm := cfg.LLM
	if llm.APIKey == "" {
		return nil, fmt.Errorf("no API key configured")
	}

	switch Provider(llm.Provider) {
	case ProviderGroq, "":
		return NewGroqClientWithConfig(GroqConfig{
			APIKey:      llm.APIKey,
			BaseURL:     llm.BaseURL,
			Model:       llm.Model,
			Timeout:     cfg.GetLLMTimeout(),
			MinInterval: cfg.GetMinInterval(),
		}), nil

	case ProviderOpenAI:
		gc := GroqConfig{
			APIKey:      llm.APIKey,
			BaseURL:     llm.BaseURL,
			Model:       llm.Model,
			Timeout:     cfg.GetLLMTimeout(),
			MinInterval: cfg.GetMinInterval(),
		}
		// Groq-flavored defaults don't carry over to the OpenAI endpoint.
		def := DefaultGroqConfig("")
		if gc.BaseURL == "" || gc.BaseURL == def.BaseURL {
			gc.BaseURL = "https://api.openai.com/v1"
		}
		if gc.Model == "" || gc.Model == def.Model {
			gc.Model = "gpt-4o-mini"
		}
		return NewGroqClientWithConfig(gc), nil

	case ProviderGemini:
		model := llm.Model
		if model == DefaultGroqConfig("").Model {
			model = ""
		}
		return NewGeminiClient(ctx, llm.APIKey, model)

	default:
		return nil, fmt.Errorf("unknown provider: %s (valid: groq, openai, gemini)", llm.Provider)
	}
}
