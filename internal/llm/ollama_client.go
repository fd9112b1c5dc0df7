package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type OllamaClient struct {
	ollamaURL   string
	model       string
	temperature float64
	client      *http.Client
}

func NewOllamaClient(url, model string, temperature float64, httpClient *http.Client) *OllamaClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OllamaClient{
		ollamaURL:   url,
		model:       model,
		temperature: temperature,
		client:      httpClient,
	}
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type LLMResponseChunk struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
}

// Generate calls the Ollama generate endpoint and returns the full text.
func (o *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	body := generateRequest{Model: o.model, Prompt: prompt}
	if o.temperature > 0 {
		body.Options = map[string]any{"temperature": o.temperature}
	}
	requestBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.ollamaURL, bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	fullBody := strings.TrimSpace(string(bodyBytes))
	var text string
	// A server that ignores stream=false answers with one JSON object per line.
	if strings.Contains(fullBody, "\n") {
		text = AggregateStreamedResponse(fullBody)
	} else {
		var chunk LLMResponseChunk
		if err := json.Unmarshal([]byte(fullBody), &chunk); err != nil {
			return "", fmt.Errorf("invalid response from Ollama: %w", err)
		}
		text = chunk.Response
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// AggregateStreamedResponse concatenates the "response" fields of a
// newline-delimited stream of JSON chunks. Lines that do not decode are skipped.
func AggregateStreamedResponse(body string) string {
	var builder strings.Builder
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		var chunk LLMResponseChunk
		if err := json.Unmarshal([]byte(trimmed), &chunk); err != nil {
			continue
		}
		builder.WriteString(chunk.Response)
	}
	return builder.String()
}
