package llm

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/sebastianszewc/localchat/internal/config"
	"github.com/sebastianszewc/localchat/internal/logging"
)

// ListModels asks the service which models are installed (GET /api/tags).
// An empty or failing response yields the single built-in fallback so the
// application always has a model name to offer.
func ListModels(ctx context.Context, baseURL string) []string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		logging.Errorf("fetching models: bad base URL %q: %v", baseURL, err)
		return []string{config.FallbackModel}
	}

	client := api.NewClient(parsed, &http.Client{Timeout: 5 * time.Second})
	resp, err := client.List(ctx)
	if err != nil {
		logging.Errorf("fetching models: %v", err)
		return []string{config.FallbackModel}
	}

	models := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		if m.Name != "" {
			models = append(models, m.Name)
		}
	}
	if len(models) == 0 {
		return []string{config.FallbackModel}
	}
	return models
}
