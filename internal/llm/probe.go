package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"study-buddy/internal/config"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// Probe verifies that the configured provider answers and accepts our
// credentials. It makes one cheap listing request, not a generation.
func Probe(ctx context.Context, cfg config.LLMConfig, client *http.Client) error {
	var url, apiKey string
	switch cfg.Provider {
	case "ollama":
		url = strings.TrimSuffix(strings.TrimSuffix(cfg.URL, "/"), "/api/generate") + "/api/tags"
	case "openai":
		base := cfg.URL
		if base == "" {
			base = defaultOpenAIBaseURL
		}
		url = strings.TrimSuffix(base, "/") + "/models"
		apiKey = cfg.APIKey
	default:
		return fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("invalid provider URL %q: %w", url, err)
	}
	if apiKey != "" {
		// Set the Authorization header
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", cfg.Provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s probe failed: received status code %d", cfg.Provider, resp.StatusCode)
	}
	return nil
}
