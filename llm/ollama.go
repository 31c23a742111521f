package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/core"
)

// OllamaClient talks to a local Ollama server for both chat and embeddings.
type OllamaClient struct {
	client *api.Client
}

// NewOllamaClient creates a client for the Ollama server at baseURL
// (e.g. http://localhost:11434).
func NewOllamaClient(baseURL string) (*OllamaClient, error) {
	host := strings.TrimSuffix(baseURL, "/")
	host = strings.TrimSuffix(host, "/v1")

	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama URL %q: %w", baseURL, err)
	}

	httpClient := &http.Client{Timeout: 5 * time.Minute}
	return &OllamaClient{client: api.NewClient(u, httpClient)}, nil
}

func (c *OllamaClient) Chat(ctx context.Context, model string, system, user string) (*LLMResponse, error) {
	msgs := []Message{{Role: string(core.RoleUser), Content: user}}
	return c.ChatWithMessages(ctx, model, system, msgs)
}

func (c *OllamaClient) ChatWithMessages(ctx context.Context, model string, system string, msgs []Message) (*LLMResponse, error) {
	messages := make([]api.Message, 0, len(msgs)+1)
	if system != "" {
		messages = append(messages, api.Message{Role: string(core.RoleSystem), Content: system})
	}
	for _, m := range msgs {
		messages = append(messages, api.Message{Role: m.Role, Content: m.Content})
	}

	stream := false
	req := &api.ChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   &stream,
	}

	var sb strings.Builder
	var usage Usage
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		if resp.Done {
			usage.PromptTokens = resp.PromptEvalCount
			usage.CompletionTokens = resp.EvalCount
			usage.TotalTokens = resp.PromptEvalCount + resp.EvalCount
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: ollama chat: %v", core.ErrGenerationProvider, err)
	}

	if sb.Len() == 0 {
		return nil, fmt.Errorf("%w: ollama returned empty response", core.ErrGenerationProvider)
	}

	return &LLMResponse{Content: sb.String(), Usage: usage}, nil
}

// Embed generates an embedding for a single input.
func (c *OllamaClient) Embed(ctx context.Context, model, input string) (*EmbeddingResponse, error) {
	resp, err := c.client.Embeddings(ctx, &api.EmbeddingRequest{
		Model:  model,
		Prompt: input,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: ollama embeddings: %v", core.ErrEmbeddingProvider, err)
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("%w: ollama returned empty embedding", core.ErrEmbeddingProvider)
	}
	return &EmbeddingResponse{Embedding: resp.Embedding}, nil
}

// EmbedBatch generates embeddings one input at a time; the embeddings
// endpoint takes a single prompt per call.
func (c *OllamaClient) EmbedBatch(ctx context.Context, model string, inputs []string) ([]EmbeddingResponse, error) {
	results := make([]EmbeddingResponse, 0, len(inputs))
	for _, input := range inputs {
		resp, err := c.Embed(ctx, model, input)
		if err != nil {
			return nil, err
		}
		results = append(results, *resp)
	}
	return results, nil
}
