package service

import (
	"context"
	"fmt"
	"strings"

	"study-buddy/internal/llm"
)

const summaryPrompt = "Summarize the following study notes into 3-4 concise bullet points:\n\n%s"

type Summarizer struct {
	client llm.Client
}

func NewSummarizer(client llm.Client) *Summarizer {
	return &Summarizer{client: client}
}

// Summarize returns the trimmed model output. Provider failures and empty
// output both map to ErrAIUnavailable.
func (s *Summarizer) Summarize(ctx context.Context, content string) (string, error) {
	response, err := s.client.Generate(ctx, fmt.Sprintf(summaryPrompt, content))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}
	summary := strings.TrimSpace(response)
	if summary == "" {
		return "", ErrAIUnavailable
	}
	return summary, nil
}
