package vector

import (
	"context"
	"fmt"
	"sort"

	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/core"
)

// MemoryIndex holds one document's chunks and their embeddings in memory and
// answers top-k queries with a brute-force scan. The corpus is a single
// document's chunk set, so a linear scan is fine; anything bigger swaps in a
// different Builder behind the same interfaces.
//
// The index is immutable after construction, which is what makes the
// session's replace-on-upload swap safe without locking here.
type MemoryIndex struct {
	chunks    []string
	vectors   [][]float64 // unit length, same order as chunks
	dimension int
}

// MemoryBuilder builds in-memory indexes.
type MemoryBuilder struct{}

func NewMemoryBuilder() *MemoryBuilder {
	return &MemoryBuilder{}
}

// Build validates and copies the chunk/vector pairs into a new index.
// Stored vectors are normalized up front so each search scores with a plain
// dot product.
func (b *MemoryBuilder) Build(ctx context.Context, chunks []string, vectors [][]float64) (Index, error) {
	if len(chunks) == 0 {
		return nil, core.ErrEmptyIndex
	}
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("%w: %d chunks but %d vectors", core.ErrDimensionMismatch, len(chunks), len(vectors))
	}

	dimension := len(vectors[0])
	idx := &MemoryIndex{
		chunks:    make([]string, len(chunks)),
		vectors:   make([][]float64, len(vectors)),
		dimension: dimension,
	}
	copy(idx.chunks, chunks)

	for i, v := range vectors {
		if len(v) != dimension {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, expected %d", core.ErrDimensionMismatch, i, len(v), dimension)
		}
		idx.vectors[i] = Normalize(v)
	}

	return idx, nil
}

// Search scores every stored vector against the query and returns the top k.
// Ties break toward the earlier chunk, so repeated searches of the same
// index return the same ordering.
func (idx *MemoryIndex) Search(ctx context.Context, query []float64, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("invalid k: %d", k)
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d", core.ErrDimensionMismatch, len(query), idx.dimension)
	}

	q := Normalize(query)
	order := make([]int, len(idx.vectors))
	scores := make([]float64, len(idx.vectors))
	for i, v := range idx.vectors {
		order[i] = i
		scores[i] = Dot(q, v)
	}

	// Stable keeps insertion order among equal scores.
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	if k > len(order) {
		k = len(order)
	}
	results := make([]SearchResult, k)
	for i := 0; i < k; i++ {
		results[i] = SearchResult{Content: idx.chunks[order[i]], Score: scores[order[i]]}
	}
	return results, nil
}

// Len returns the number of stored chunks.
func (idx *MemoryIndex) Len() int {
	return len(idx.chunks)
}

// Dimension returns the dimensionality of the stored vectors.
func (idx *MemoryIndex) Dimension() int {
	return idx.dimension
}

// Close is a no-op for the in-memory index.
func (idx *MemoryIndex) Close() error {
	return nil
}
