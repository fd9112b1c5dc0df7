package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"study-buddy/internal/config"
)

// OpenAIClient talks to the OpenAI chat completion API through langchaingo.
type OpenAIClient struct {
	llm         llms.Model
	temperature float64
}

func NewOpenAIClient(cfg config.LLMConfig) (*OpenAIClient, error) {
	opts := []openai.Option{
		openai.WithModel(cfg.Model),
		openai.WithToken(cfg.APIKey),
	}
	if cfg.URL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.URL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
	}
	return NewModelClient(model, cfg.Temperature), nil
}

// NewModelClient wraps any langchaingo model.
func NewModelClient(model llms.Model, temperature float64) *OpenAIClient {
	return &OpenAIClient{llm: model, temperature: temperature}
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	completion, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt, llms.WithTemperature(c.temperature))
	if err != nil {
		return "", fmt.Errorf("failed to generate LLM response: %w", err)
	}
	if strings.TrimSpace(completion) == "" {
		return "", ErrEmptyResponse
	}
	return completion, nil
}
