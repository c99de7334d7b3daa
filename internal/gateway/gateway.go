package gateway

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Gateway runs model calls under the retry budget and validates raw
// completions into typed shapes. Transport failures come back tagged
// ErrModelUnavailable, validation failures ErrModelResponseInvalid.
type Gateway struct {
	client LLMClient
	retry  RetryConfig
	logger *zap.Logger
}

// New creates a Gateway around the given provider client.
func New(client LLMClient, retry RetryConfig, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		client: client,
		retry:  retry,
		logger: logger,
	}
}

// Model returns the model name of the underlying client.
func (g *Gateway) Model() string {
	return g.client.Model()
}

// Complete runs one free-text completion under the retry budget.
func (g *Gateway) Complete(ctx context.Context, prompt string, opts CallOptions) (string, error) {
	opts = normalize(opts)

	attempt := 0
	out, err := WithRetry(ctx, g.retry, func(ctx context.Context) (string, error) {
		attempt++
		raw, err := g.client.Complete(ctx, prompt, opts)
		if err != nil {
			g.logger.Debug("model call failed",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", g.retry.MaxRetries+1),
				zap.Error(err))
		}
		return raw, err
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	return out, nil
}

// CompleteProfile runs a profile completion and validates the result.
func (g *Gateway) CompleteProfile(ctx context.Context, prompt string, opts CallOptions) (Profile, error) {
	raw, err := g.Complete(ctx, prompt, opts)
	if err != nil {
		return Profile{}, err
	}

	profile, err := ParseProfile(raw)
	if err != nil {
		g.auditInvalid("profile", raw, err)
		return Profile{}, err
	}
	return profile, nil
}

// CompleteEmail runs an outreach-draft completion and validates the result.
func (g *Gateway) CompleteEmail(ctx context.Context, prompt string, opts CallOptions) (EmailDraft, error) {
	raw, err := g.Complete(ctx, prompt, opts)
	if err != nil {
		return EmailDraft{}, err
	}

	draft, err := ParseEmail(raw)
	if err != nil {
		g.auditInvalid("email", raw, err)
		return EmailDraft{}, err
	}
	return draft, nil
}

// CompleteCategory runs a classification completion and normalizes the
// resulting label.
func (g *Gateway) CompleteCategory(ctx context.Context, prompt string, opts CallOptions) (Category, error) {
	raw, err := g.Complete(ctx, prompt, opts)
	if err != nil {
		return "", err
	}

	category, err := ParseCategory(raw)
	if err != nil {
		g.auditInvalid("category", raw, err)
		return "", err
	}
	return category, nil
}

// auditInvalid records a rejected completion for the audit trail.
func (g *Gateway) auditInvalid(shape, raw string, err error) {
	g.logger.Warn("model response failed validation",
		zap.String("shape", shape),
		zap.String("model", g.client.Model()),
		zap.Int("raw_len", len(raw)),
		zap.String("raw", truncate(raw, 200)),
		zap.Error(err))
}

// normalize fills zero-valued options with defaults.
func normalize(opts CallOptions) CallOptions {
	def := DefaultCallOptions()
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = def.MaxTokens
	}
	if opts.Temperature <= 0 {
		opts.Temperature = def.Temperature
	}
	return opts
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
