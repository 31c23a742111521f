package rag

import (
	"context"
	"fmt"
	"log"

	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/chunker"
	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/core"
	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/llm"
	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/vector"
)

// EngineConfig carries the knobs for a question-answering engine.
type EngineConfig struct {
	ChunkSize      int
	ChunkOverlap   int
	TopK           int
	ChatModel      string
	EmbeddingModel string
}

// DefaultEngineConfig mirrors widely used splitter settings: 1000-character
// chunks with 200 characters of overlap, top 4 excerpts per question.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		ChunkSize:      1000,
		ChunkOverlap:   200,
		TopK:           4,
		ChatModel:      "gpt-4o-mini",
		EmbeddingModel: "text-embedding-3-small",
	}
}

// Answer is the result of asking a question against the loaded document.
type Answer struct {
	Text     string
	Document string
	Sources  []vector.SearchResult
	Usage    llm.Usage
}

// Engine ties the pipeline together: chunking and embedding on ingest,
// retrieval and grounded generation on ask. It owns the session, so at most
// one document is active at a time.
type Engine struct {
	cfg       EngineConfig
	client    llm.Client
	embedder  llm.EmbeddingClient
	builder   vector.Builder
	retriever *Retriever
	session   *Session
}

// NewEngine validates the configuration and returns a ready engine.
func NewEngine(cfg EngineConfig, client llm.Client, embedder llm.EmbeddingClient, builder vector.Builder) (*Engine, error) {
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", core.ErrInvalidChunking, cfg.ChunkSize)
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", core.ErrInvalidChunking, cfg.ChunkOverlap, cfg.ChunkSize)
	}
	if cfg.TopK <= 0 {
		return nil, fmt.Errorf("invalid top-k: %d", cfg.TopK)
	}

	return &Engine{
		cfg:       cfg,
		client:    client,
		embedder:  embedder,
		builder:   builder,
		retriever: NewRetriever(embedder, cfg.EmbeddingModel, cfg.TopK),
		session:   NewSession(),
	}, nil
}

// Session exposes the engine's document session.
func (e *Engine) Session() *Session {
	return e.session
}

// Ingest chunks and embeds the document text, builds a fresh index, and
// installs it as the active document. On any failure the previous document
// stays loaded and queryable. Returns the number of chunks indexed.
func (e *Engine) Ingest(ctx context.Context, document, text string) (int, error) {
	chunks, err := chunker.Split(text, e.cfg.ChunkSize, e.cfg.ChunkOverlap)
	if err != nil {
		return 0, core.NewPipelineError("ingest", document, err)
	}
	if len(chunks) == 0 {
		return 0, core.NewPipelineError("ingest", document, fmt.Errorf("%w: document produced no chunks", core.ErrEmptyIndex))
	}

	embeddings, err := e.embedder.EmbedBatch(ctx, e.cfg.EmbeddingModel, chunks)
	if err != nil {
		return 0, core.NewPipelineError("ingest", document, err)
	}

	vectors := make([][]float64, len(embeddings))
	for i, emb := range embeddings {
		vectors[i] = emb.Embedding
	}

	index, err := e.builder.Build(ctx, chunks, vectors)
	if err != nil {
		return 0, core.NewPipelineError("ingest", document, err)
	}

	e.session.Replace(index, document)
	log.Printf("[rag] ingested %q: %d chunks, dimension %d", document, index.Len(), index.Dimension())

	return len(chunks), nil
}

// Ask answers a question against the loaded document. It retrieves the
// top-k chunks, builds a grounded prompt, and calls the chat model. Asking
// before any upload returns core.ErrNoDocument.
func (e *Engine) Ask(ctx context.Context, question string) (*Answer, error) {
	index, document, err := e.session.Current()
	if err != nil {
		return nil, core.NewPipelineError("ask", "", err)
	}

	results, err := e.retriever.Retrieve(ctx, index, question)
	if err != nil {
		return nil, core.NewPipelineError("ask", document, err)
	}

	system := BuildSystemPrompt(results)
	resp, err := e.client.Chat(ctx, e.cfg.ChatModel, system, question)
	if err != nil {
		return nil, core.NewPipelineError("ask", document, err)
	}

	return &Answer{
		Text:     resp.Content,
		Document: document,
		Sources:  results,
		Usage:    resp.Usage,
	}, nil
}
