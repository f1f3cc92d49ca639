package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const openRouterModelsURL = "https://openrouter.ai/api/v1"

// OpenRouterClient fetches the public OpenRouter model listing. The listing
// endpoint needs no API key.
type OpenRouterClient struct {
	client *resty.Client
}

func NewOpenRouterClient() *OpenRouterClient {
	client := resty.New()
	client.SetBaseURL(openRouterModelsURL)
	client.SetTimeout(30 * time.Second)
	return &OpenRouterClient{client: client}
}

type openRouterModel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type openRouterListResponse struct {
	Data []openRouterModel `json:"data"`
}

// ListModels fetches the current OpenRouter model listing.
func (c *OpenRouterClient) ListModels(ctx context.Context) ([]Model, error) {
	var result openRouterListResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/models")
	if err != nil {
		return nil, fmt.Errorf("fetch OpenRouter models: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("OpenRouter models API returned %s", resp.Status())
	}

	out := make([]Model, 0, len(result.Data))
	for _, m := range result.Data {
		if m.ID == "" {
			continue
		}
		name := m.Name
		if name == "" {
			name = m.ID
		}
		out = append(out, Model{
			DisplayName: name,
			ModelName:   m.ID,
			Provider:    "OpenRouter",
			// OpenRouter proxies many backends; JSON mode support varies per
			// upstream model, so refreshed rows default to plain prompting.
			JSONMode: false,
		})
	}
	return out, nil
}

// RefreshOpenRouter replaces the store's OpenRouter rows with the live
// listing and reports how many rows the swap removed and added.
func RefreshOpenRouter(ctx context.Context, store *Store, client *OpenRouterClient) (deleted, inserted int, err error) {
	models, err := client.ListModels(ctx)
	if err != nil {
		return 0, 0, err
	}
	return store.ReplaceProvider(ctx, "OpenRouter", "openrouter", models)
}
