package catalog

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

// OllamaClient discovers models installed on a local Ollama server. The
// discovery is live: installed models change outside this process, so they
// are never persisted to the catalog store.
type OllamaClient struct {
	client *resty.Client
}

// NewOllamaClient targets OLLAMA_BASE_URL, or http://{OLLAMA_HOST}:11434,
// defaulting to localhost.
func NewOllamaClient() *OllamaClient {
	base := os.Getenv("OLLAMA_BASE_URL")
	if base == "" {
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "localhost"
		}
		base = fmt.Sprintf("http://%s:11434", host)
	}
	client := resty.New()
	client.SetBaseURL(base)
	client.SetTimeout(10 * time.Second)
	return &OllamaClient{client: client}
}

type ollamaTag struct {
	Name string `json:"name"`
}

type ollamaTagsResponse struct {
	Models []ollamaTag `json:"models"`
}

// ListModels returns the locally installed Ollama models.
func (c *OllamaClient) ListModels(ctx context.Context) ([]Model, error) {
	var result ollamaTagsResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/api/tags")
	if err != nil {
		return nil, fmt.Errorf("fetch Ollama tags: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("Ollama tags API returned %s", resp.Status())
	}

	out := make([]Model, 0, len(result.Models))
	for _, m := range result.Models {
		if m.Name == "" {
			continue
		}
		out = append(out, Model{
			DisplayName: m.Name,
			ModelName:   m.Name,
			Provider:    "Ollama",
		})
	}
	return out, nil
}
