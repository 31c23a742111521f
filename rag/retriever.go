package rag

import (
	"context"
	"fmt"

	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/core"
	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/llm"
	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/vector"
)

// Retriever embeds a question and returns the most similar chunks from the
// session's current index.
type Retriever struct {
	embedder       llm.EmbeddingClient
	embeddingModel string
	topK           int
}

// NewRetriever creates a retriever that fetches topK chunks per question.
func NewRetriever(embedder llm.EmbeddingClient, embeddingModel string, topK int) *Retriever {
	return &Retriever{
		embedder:       embedder,
		embeddingModel: embeddingModel,
		topK:           topK,
	}
}

// Retrieve embeds the question and searches the index. The query embedding
// must match the index dimension; embedding the question with a different
// model than the one the document was embedded with surfaces here as
// core.ErrDimensionMismatch.
func (r *Retriever) Retrieve(ctx context.Context, index vector.Index, question string) ([]vector.SearchResult, error) {
	resp, err := r.embedder.Embed(ctx, r.embeddingModel, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	if len(resp.Embedding) != index.Dimension() {
		return nil, fmt.Errorf("%w: query embedding has dimension %d, index has %d",
			core.ErrDimensionMismatch, len(resp.Embedding), index.Dimension())
	}

	results, err := index.Search(ctx, resp.Embedding, r.topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	return results, nil
}
