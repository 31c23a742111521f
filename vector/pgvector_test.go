package vector

import (
	"context"
	"os"
	"testing"
)

func newPgTestBuilder(t *testing.T) *PgBuilder {
	t.Helper()
	dsn := os.Getenv("PGVECTOR_TEST_DSN")
	if dsn == "" {
		t.Skip("PGVECTOR_TEST_DSN not set")
	}
	b, err := NewPgBuilder(dsn, 3)
	if err != nil {
		t.Fatalf("NewPgBuilder: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestPgBuilder_BuildAndSearch(t *testing.T) {
	b := newPgTestBuilder(t)
	ctx := context.Background()

	idx, err := b.Build(ctx,
		[]string{"alpha", "beta", "gamma"},
		[][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer idx.Close()

	results, err := idx.Search(ctx, []float64{0.9, 0.1, 0}, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len = %d, want 2", len(results))
	}
	if results[0].Content != "alpha" {
		t.Errorf("best match = %q, want alpha", results[0].Content)
	}
}

func TestPgBuilder_OldGenerationSearchableUntilClosed(t *testing.T) {
	b := newPgTestBuilder(t)
	ctx := context.Background()

	first, err := b.Build(ctx,
		[]string{"old chunk"},
		[][]float64{{1, 0, 0}},
	)
	if err != nil {
		t.Fatalf("first Build: %v", err)
	}

	second, err := b.Build(ctx,
		[]string{"new chunk"},
		[][]float64{{0, 1, 0}},
	)
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}
	defer second.Close()

	// A search holding the first index across the second build must still
	// see the first document's chunks, never an empty set.
	results, err := first.Search(ctx, []float64{1, 0, 0}, 1)
	if err != nil {
		t.Fatalf("Search on displaced index: %v", err)
	}
	if len(results) != 1 || results[0].Content != "old chunk" {
		t.Fatalf("displaced index results = %v, want the old chunk", results)
	}

	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	results, err = first.Search(ctx, []float64{1, 0, 0}, 1)
	if err != nil {
		t.Fatalf("Search after close: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("closed generation still returns %v", results)
	}

	results, err = second.Search(ctx, []float64{0, 1, 0}, 1)
	if err != nil {
		t.Fatalf("Search on active index: %v", err)
	}
	if len(results) != 1 || results[0].Content != "new chunk" {
		t.Fatalf("active index results = %v, want the new chunk", results)
	}
}
