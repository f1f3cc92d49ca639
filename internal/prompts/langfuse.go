package prompts

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultLabel is the managed-store label resolved at run time and stamped
// on pushed prompts.
const DefaultLabel = "production"

const defaultLangfuseHost = "https://cloud.langfuse.com"

// Store is a Langfuse prompt-store client.
type Store struct {
	client *resty.Client
}

type remotePrompt struct {
	Name    string    `json:"name"`
	Type    string    `json:"type"`
	Prompt  []Message `json:"prompt"`
	Labels  []string  `json:"labels"`
	Version int       `json:"version"`
}

type createPromptRequest struct {
	Name   string    `json:"name"`
	Type   string    `json:"type"`
	Prompt []Message `json:"prompt"`
	Labels []string  `json:"labels"`
}

// NewStore creates a Langfuse client against host with basic-auth keys.
func NewStore(host, publicKey, secretKey string) *Store {
	client := resty.New()
	client.SetBaseURL(host)
	client.SetTimeout(15 * time.Second)
	client.SetBasicAuth(publicKey, secretKey)
	return &Store{client: client}
}

// NewStoreFromEnv builds a Store from LANGFUSE_PUBLIC_KEY, LANGFUSE_SECRET_KEY,
// and LANGFUSE_HOST. Returns nil when the keys are absent, which callers
// treat as "no managed store configured".
func NewStoreFromEnv() *Store {
	publicKey := os.Getenv("LANGFUSE_PUBLIC_KEY")
	secretKey := os.Getenv("LANGFUSE_SECRET_KEY")
	if publicKey == "" || secretKey == "" {
		return nil
	}
	host := os.Getenv("LANGFUSE_HOST")
	if host == "" {
		host = defaultLangfuseHost
	}
	return NewStore(host, publicKey, secretKey)
}

// GetPrompt fetches the chat prompt stored under (name, label). Messages come
// back in the store's placeholder format; see ToLocalContent.
func (s *Store) GetPrompt(ctx context.Context, name, label string) ([]Message, error) {
	var out remotePrompt
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("label", label).
		SetResult(&out).
		Get("/api/public/v2/prompts/" + url.PathEscape(name))
	if err != nil {
		return nil, fmt.Errorf("fetch prompt %s: %w", name, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch prompt %s: store returned %s", name, resp.Status())
	}
	if out.Type != "" && out.Type != "chat" {
		return nil, fmt.Errorf("prompt %s is %q, expected a chat prompt", name, out.Type)
	}
	return out.Prompt, nil
}

// CreatePrompt pushes a new version of name carrying label. Messages must
// already be in the store's placeholder format; see ToRemoteContent.
func (s *Store) CreatePrompt(ctx context.Context, name string, messages []Message, label string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(createPromptRequest{
			Name:   name,
			Type:   "chat",
			Prompt: messages,
			Labels: []string{label},
		}).
		Post("/api/public/v2/prompts")
	if err != nil {
		return fmt.Errorf("push prompt %s: %w", name, err)
	}
	if resp.IsError() {
		return fmt.Errorf("push prompt %s: store returned %s", name, resp.Status())
	}
	return nil
}
