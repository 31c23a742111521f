package vector

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/core"
)

// PgBuilder builds pgvector-backed indexes in a PostgreSQL database.
//
// Every build writes the new document's chunks under a fresh generation ID.
// The previous generation stays queryable until its index is closed, so a
// search racing an upload sees either the old chunks or the new ones in
// full, never a mix and never an empty set.
type PgBuilder struct {
	db        *sql.DB
	dimension int
}

// PgIndex is a searchable view over one built generation.
type PgIndex struct {
	db         *sql.DB
	dimension  int
	generation string
	size       int
}

// NewPgBuilder connects to PostgreSQL and prepares the chunk table. The
// dimension parameter fixes the embedding dimension for the table
// (e.g. 1536 for text-embedding-3-small).
func NewPgBuilder(dsn string, dimension int) (*PgBuilder, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	b := &PgBuilder{db: db, dimension: dimension}
	if err := b.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	// The index does not survive restarts; rows left by a previous process
	// are stale.
	if _, err := db.Exec(`DELETE FROM doc_chunks`); err != nil {
		db.Close()
		return nil, fmt.Errorf("clear stale chunks: %w", err)
	}

	return b, nil
}

func (b *PgBuilder) migrate() error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS doc_chunks (
			id TEXT PRIMARY KEY,
			generation TEXT NOT NULL,
			position INT NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d)
		)`, b.dimension),
		`CREATE INDEX IF NOT EXISTS idx_doc_chunks_embedding ON doc_chunks USING hnsw (embedding vector_cosine_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_doc_chunks_generation ON doc_chunks (generation)`,
	}

	for _, m := range migrations {
		if _, err := b.db.Exec(m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

// Build inserts the chunks as a new generation. The displaced generation is
// removed when its own index is closed, not here, so searches that already
// hold the old index keep seeing its chunks.
func (b *PgBuilder) Build(ctx context.Context, chunks []string, vectors [][]float64) (Index, error) {
	if len(chunks) == 0 {
		return nil, core.ErrEmptyIndex
	}
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("%w: %d chunks but %d vectors", core.ErrDimensionMismatch, len(chunks), len(vectors))
	}
	for i, v := range vectors {
		if len(v) != b.dimension {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, expected %d", core.ErrDimensionMismatch, i, len(v), b.dimension)
		}
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	generation := uuid.NewString()
	for i := range chunks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO doc_chunks (id, generation, position, content, embedding)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.NewString(), generation, i, chunks[i], formatEmbedding(vectors[i]))
		if err != nil {
			return nil, fmt.Errorf("insert chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &PgIndex{
		db:         b.db,
		dimension:  b.dimension,
		generation: generation,
		size:       len(chunks),
	}, nil
}

// Close closes the database connection.
func (b *PgBuilder) Close() error {
	return b.db.Close()
}

// Search runs a cosine top-k query over this index's generation. The `<=>`
// operator is cosine distance, so similarity is 1 - distance; position
// breaks ties toward the earlier chunk.
func (idx *PgIndex) Search(ctx context.Context, query []float64, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("invalid k: %d", k)
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d", core.ErrDimensionMismatch, len(query), idx.dimension)
	}

	rows, err := idx.db.QueryContext(ctx, `
		SELECT content, 1 - (embedding <=> $1) AS score
		FROM doc_chunks
		WHERE generation = $2
		ORDER BY embedding <=> $1, position
		LIMIT $3
	`, formatEmbedding(query), idx.generation, k)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Content, &r.Score); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// Len returns the number of chunks in this generation.
func (idx *PgIndex) Len() int {
	return idx.size
}

// Dimension returns the embedding dimension of the table.
func (idx *PgIndex) Dimension() int {
	return idx.dimension
}

// Close retires this index's generation. The connection belongs to the
// builder and stays open.
func (idx *PgIndex) Close() error {
	_, err := idx.db.Exec(`DELETE FROM doc_chunks WHERE generation = $1`, idx.generation)
	if err != nil {
		return fmt.Errorf("retire generation: %w", err)
	}
	return nil
}

// formatEmbedding converts a float64 slice to pgvector text format:
// "[0.1,0.2,0.3]"
func formatEmbedding(embedding []float64) string {
	parts := make([]string, len(embedding))
	for i, v := range embedding {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
