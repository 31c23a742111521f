package llm

import "context"

// Client is the completion side of a provider: prompt in, text out.
type Client interface {
	Chat(ctx context.Context, model string, system, user string) (*LLMResponse, error)
	ChatWithMessages(ctx context.Context, model string, system string, msgs []Message) (*LLMResponse, error)
}

// EmbeddingClient is the embedding side of a provider. EmbedBatch preserves
// input order, one vector per input, all of the model's dimensionality.
type EmbeddingClient interface {
	Embed(ctx context.Context, model, input string) (*EmbeddingResponse, error)
	EmbedBatch(ctx context.Context, model string, inputs []string) ([]EmbeddingResponse, error)
}

type ClientConfig struct {
	APIKey  string
	BaseURL string
	Timeout int
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout: 60,
	}
}
