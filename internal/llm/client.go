// Package llm is the provider-agnostic model client layer: a Client
// interface, a registry of concrete adapters, and retry-with-backoff
// that distinguishes transient failures from permanent ones.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"testmind/internal/logging"
	"testmind/internal/txerr"
)

// Client is the minimal surface every provider adapter implements.
type Client interface {
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (Response, error)
}

// Response is one completion result plus usage accounting.
type Response struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	Model            string
}

// Registry holds one Client per provider name.
type Registry struct {
	clients map[string]Client
}

// NewRegistry returns an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

// Register adds or replaces the client for a provider name.
func (r *Registry) Register(provider string, c Client) {
	r.clients[provider] = c
}

// Get returns the client registered for provider, or a Configuration
// error if none was registered.
func (r *Registry) Get(provider string) (Client, error) {
	c, ok := r.clients[provider]
	if !ok {
		return nil, txerr.New(txerr.Configuration, "llm.Registry.Get", fmt.Errorf("no client registered for provider %q", provider))
	}
	return c, nil
}

// RetryConfig controls the backoff CompleteWithRetry applies on top of a
// Client's own CompleteWithSystem.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryConfig is 3 attempts with a 500ms base delay doubling
// each attempt.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond}
}

// CompleteWithRetry calls client.CompleteWithSystem, retrying on 429/5xx
// and other transient errors with exponential backoff, and failing fast
// on non-retryable errors (auth, bad request).
func CompleteWithRetry(ctx context.Context, client Client, systemPrompt, userPrompt string, cfg RetryConfig) (Response, error) {
	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := cfg.BaseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return Response{}, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := client.CompleteWithSystem(ctx, systemPrompt, userPrompt)
		if err == nil {
			logging.For(logging.CategoryLLM).Info("completion", map[string]interface{}{
				"model":             resp.Model,
				"prompt_tokens":     resp.PromptTokens,
				"completion_tokens": resp.CompletionTokens,
				"attempt":           attempt + 1,
			})
			return resp, nil
		}
		lastErr = err
		if !isRetryableError(err) {
			return Response{}, txerr.New(txerr.Generation, "llm.CompleteWithRetry", err)
		}
	}
	return Response{}, txerr.New(txerr.Generation, "llm.CompleteWithRetry", fmt.Errorf("exhausted %d attempts: %w", cfg.MaxAttempts, lastErr))
}

// isRetryableError classifies an error as transient (network, rate
// limit, 5xx) versus permanent (auth, bad request).
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())

	for _, p := range []string{"unauthorized", "forbidden", "invalid api key", "401", "403", "400"} {
		if strings.Contains(msg, p) {
			return false
		}
	}
	for _, p := range []string{"timeout", "connection", "network", "temporary", "rate limit", "429", "502", "503", "504"} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return true
}
