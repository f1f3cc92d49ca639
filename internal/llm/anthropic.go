package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cloudwego/eino/schema"
)

// anthropicClient adapts the Anthropic Messages API to ChatClient. Anthropic
// keeps system prompts out of the message list, so the adapter splits the
// incoming messages by role.
type anthropicClient struct {
	client anthropic.Client
	model  string
}

func newAnthropic(_ context.Context, modelName string, creds credentials) (ChatClient, error) {
	apiKey, err := creds.require("ANTHROPIC_API_KEY")
	if err != nil {
		return nil, err
	}
	return &anthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  modelName,
	}, nil
}

func (c *anthropicClient) Generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	var system []anthropic.TextBlockParam
	var turns []anthropic.MessageParam
	for _, m := range messages {
		switch m.Role {
		case schema.System:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case schema.Assistant:
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: defaultMaxTokens,
		System:    system,
		Messages:  turns,
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		sb.WriteString(block.Text)
	}
	return schema.AssistantMessage(sb.String(), nil), nil
}

func (c *anthropicClient) SupportsJSONMode() bool {
	// Anthropic has no response_format parameter; structure comes from the
	// prompt and the parser.
	return false
}
