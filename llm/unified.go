package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/core"
)

// UnifiedClient routes chat and embedding calls to the configured provider
// based on the model name prefix.
type UnifiedClient struct {
	openai    *OpenAIClient
	anthropic *AnthropicClient
	ollama    *OllamaClient
}

type UnifiedConfig struct {
	OpenAIKey    string
	AnthropicKey string
	OllamaURL    string
}

func NewUnifiedClient(cfg UnifiedConfig) (*UnifiedClient, error) {
	u := &UnifiedClient{}

	if cfg.OpenAIKey != "" {
		u.openai = NewOpenAIClient(cfg.OpenAIKey)
	}

	if cfg.AnthropicKey != "" {
		u.anthropic = NewAnthropicClient(cfg.AnthropicKey)
	}

	if cfg.OllamaURL != "" {
		ollama, err := NewOllamaClient(cfg.OllamaURL)
		if err != nil {
			return nil, err
		}
		u.ollama = ollama
	}

	if u.openai == nil && u.anthropic == nil && u.ollama == nil {
		return nil, fmt.Errorf("no provider configured")
	}

	return u, nil
}

func (u *UnifiedClient) Chat(ctx context.Context, model string, system, user string) (*LLMResponse, error) {
	client, resolvedModel, err := u.resolveClient(model)
	if err != nil {
		return nil, err
	}
	return client.Chat(ctx, resolvedModel, system, user)
}

func (u *UnifiedClient) ChatWithMessages(ctx context.Context, model string, system string, msgs []Message) (*LLMResponse, error) {
	client, resolvedModel, err := u.resolveClient(model)
	if err != nil {
		return nil, err
	}
	return client.ChatWithMessages(ctx, resolvedModel, system, msgs)
}

func (u *UnifiedClient) resolveClient(model string) (Client, string, error) {
	switch {
	case strings.HasPrefix(model, "claude-") && u.anthropic != nil:
		return u.anthropic, model, nil
	case (strings.HasPrefix(model, "gpt-") || strings.HasPrefix(model, "o1-")) && u.openai != nil:
		return u.openai, model, nil
	case strings.HasPrefix(model, "ollama/") && u.ollama != nil:
		return u.ollama, strings.TrimPrefix(model, "ollama/"), nil
	}

	if c := u.defaultClient(); c != nil {
		return c, model, nil
	}
	return nil, "", fmt.Errorf("%w: no provider configured for model %s", core.ErrGenerationProvider, model)
}

func (u *UnifiedClient) defaultClient() Client {
	if u.openai != nil {
		return u.openai
	}
	if u.anthropic != nil {
		return u.anthropic
	}
	if u.ollama != nil {
		return u.ollama
	}
	return nil
}

// Embed generates an embedding for a single input.
func (u *UnifiedClient) Embed(ctx context.Context, model, input string) (*EmbeddingResponse, error) {
	client, resolvedModel, err := u.resolveEmbeddingClient(model)
	if err != nil {
		return nil, err
	}
	return client.Embed(ctx, resolvedModel, input)
}

// EmbedBatch generates embeddings for multiple inputs.
func (u *UnifiedClient) EmbedBatch(ctx context.Context, model string, inputs []string) ([]EmbeddingResponse, error) {
	client, resolvedModel, err := u.resolveEmbeddingClient(model)
	if err != nil {
		return nil, err
	}
	return client.EmbedBatch(ctx, resolvedModel, inputs)
}

func (u *UnifiedClient) resolveEmbeddingClient(model string) (EmbeddingClient, string, error) {
	if strings.HasPrefix(model, "ollama/") {
		if u.ollama == nil {
			return nil, "", fmt.Errorf("%w: no embedding provider for model %s", core.ErrEmbeddingProvider, model)
		}
		return u.ollama, strings.TrimPrefix(model, "ollama/"), nil
	}

	// OpenAI embedding models (text-embedding-3-small and friends), and the
	// default for anything unrecognized.
	if u.openai != nil {
		return u.openai, model, nil
	}
	if u.ollama != nil {
		return u.ollama, model, nil
	}
	return nil, "", fmt.Errorf("%w: no embedding provider for model %s", core.ErrEmbeddingProvider, model)
}
