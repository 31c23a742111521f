// Package vector provides vector index construction and similarity search.
package vector

import "context"

// SearchResult is one retrieved chunk with its similarity score.
type SearchResult struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"` // cosine similarity
}

// Index is a built, searchable collection of chunk vectors. An index is
// created whole by a Builder and never mutated afterwards; replacing a
// document means building a new index and discarding this one.
type Index interface {
	// Search returns the k stored chunks most similar to the query vector,
	// in descending score order. If the index holds fewer than k vectors,
	// all of them are returned.
	Search(ctx context.Context, query []float64, k int) ([]SearchResult, error)

	// Len returns the number of stored chunks.
	Len() int

	// Dimension returns the dimensionality of the stored vectors.
	Dimension() int

	// Close releases resources.
	Close() error
}

// Builder constructs an Index from the chunks of one document. A build is
// all-or-nothing: on error no index exists. The interface is the seam for
// swapping the brute-force scan for an external or approximate
// nearest-neighbor backend.
type Builder interface {
	Build(ctx context.Context, chunks []string, vectors [][]float64) (Index, error)
}
