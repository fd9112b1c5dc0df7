package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"study-buddy/internal/config"
)

// Client sends a single prompt to a language model and returns its text.
// Calls block until the provider answers or ctx is cancelled.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyResponse is returned when the provider answers with no text.
var ErrEmptyResponse = errors.New("empty response from language model")

// NewClient builds the provider selected in cfg.
func NewClient(cfg config.LLMConfig) (Client, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllamaClient(cfg.URL, cfg.Model, cfg.Temperature, &http.Client{
			Timeout: 600 * time.Second,
		}), nil
	case "openai":
		return NewOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
}
