// Package llm provides a provider-agnostic LLM adapter used by the
// refine step. No SDKs, just net/http against OpenAI-compatible and
// Gemini REST endpoints.
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

// DefaultOpenRouterModel is used when neither the --llm flag nor
// OPENROUTER_MODEL picks a model.
const DefaultOpenRouterModel = "anthropic/claude-3.5-haiku"

// Provider is the interface for LLM completions.
type Provider interface {
	// Complete sends a prompt and returns the response text.
	Complete(ctx context.Context, prompt string, opts CompletionOpts) (string, error)
	// Name returns a human-readable provider name (e.g., "openrouter/anthropic/claude-3.5-haiku").
	Name() string
}

// CompletionOpts configures a single completion request.
type CompletionOpts struct {
	MaxTokens   int     // Max tokens to generate (0 = provider default)
	Temperature float64 // 0.0-2.0 (0 = deterministic)
	Model       string  // Override model for this request (empty = use provider default)
	Format      string  // "json" for structured output, empty for plain text
	System      string  // System prompt (optional)
}

// Config holds provider configuration.
type Config struct {
	Provider string // "openrouter", "google"
	Model    string // e.g., "anthropic/claude-3.5-haiku", "gemini-2.5-flash"
	APIKey   string // API key (empty = read from env)
	BaseURL  string // Optional URL override
}

// HTTPError is a non-2xx API response. Callers that retry can respect
// RetryAfter on rate limits.
type HTTPError struct {
	StatusCode int
	Message    string
	RetryAfter time.Duration
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NewProvider creates an LLM provider from the given config.
func NewProvider(cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openrouter":
		key := cfg.APIKey
		if key == "" {
			key = os.Getenv("OPENROUTER_API_KEY")
		}
		if key == "" {
			return nil, fmt.Errorf("openrouter provider requires OPENROUTER_API_KEY env var")
		}
		model := cfg.Model
		if model == "" {
			model = os.Getenv("OPENROUTER_MODEL")
		}
		if model == "" {
			model = DefaultOpenRouterModel
		}
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "https://openrouter.ai/api/v1"
		}
		return &openrouterProvider{
			apiKey:  key,
			model:   model,
			baseURL: baseURL,
		}, nil

	case "google":
		key := cfg.APIKey
		if key == "" {
			key = os.Getenv("GEMINI_API_KEY")
		}
		if key == "" {
			key = os.Getenv("GOOGLE_API_KEY")
		}
		if key == "" {
			return nil, fmt.Errorf("google provider requires GEMINI_API_KEY or GOOGLE_API_KEY env var")
		}
		model := cfg.Model
		if model == "" {
			model = "gemini-2.5-flash"
		}
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "https://generativelanguage.googleapis.com/v1beta"
		}
		return &googleProvider{
			apiKey:  key,
			model:   model,
			baseURL: baseURL,
		}, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %q (supported: openrouter, google)", cfg.Provider)
	}
}

// ParseLLMFlag parses a --llm flag value into a Config.
// Format: "provider" or "provider/model", e.g. "google" or
// "openrouter/anthropic/claude-3.5-haiku". Empty defaults to
// openrouter; a missing model is filled in at provider construction.
func ParseLLMFlag(flag string) (Config, error) {
	if flag == "" {
		return Config{Provider: "openrouter"}, nil
	}

	provider, model, _ := strings.Cut(flag, "/")
	switch provider = strings.ToLower(provider); provider {
	case "openrouter", "google":
		return Config{Provider: provider, Model: model}, nil
	default:
		return Config{}, fmt.Errorf("unknown provider %q in --llm flag (supported: openrouter, google)", provider)
	}
}
