package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

// geminiClient adapts the Gemini API to ChatClient via google.golang.org/genai.
type geminiClient struct {
	client *genai.Client
	model  string
}

func newGemini(ctx context.Context, modelName string, creds credentials) (ChatClient, error) {
	apiKey, err := creds.require("GOOGLE_API_KEY")
	if err != nil {
		return nil, err
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &geminiClient{client: client, model: modelName}, nil
}

func (c *geminiClient) Generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	cfg := &genai.GenerateContentConfig{}
	var contents []*genai.Content
	for _, m := range messages {
		switch m.Role {
		case schema.System:
			cfg.SystemInstruction = genai.NewContentFromText(m.Content, genai.RoleUser)
		case schema.Assistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini api error: %w", err)
	}
	return schema.AssistantMessage(resp.Text(), nil), nil
}

func (c *geminiClient) SupportsJSONMode() bool {
	// Gemini's JSON output needs a response schema; the pipeline treats it as
	// prompt-structured instead.
	return false
}
