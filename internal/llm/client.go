package llm

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatClient is the minimal capability the pipeline needs from a language
// model: send a message list, get one assistant message back. Concrete
// transports stay behind the provider factories.
type ChatClient interface {
	Generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error)
	SupportsJSONMode() bool
}

// einoClient wraps an eino chat model as a ChatClient. Every
// OpenAI-compatible provider plus DeepSeek resolves to this.
type einoClient struct {
	model    model.BaseChatModel
	jsonMode bool
}

func (c *einoClient) Generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	return c.model.Generate(ctx, messages)
}

func (c *einoClient) SupportsJSONMode() bool {
	return c.jsonMode
}
