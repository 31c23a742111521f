package history

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/history/migrations"
)

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed exchange store
func NewPostgresStore(dsn string) (Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := runPostgresMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runPostgresMigrations(db *sql.DB) error {
	data, err := migrations.Postgres.ReadFile("postgres/001_init.sql")
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	_, err = db.Exec(string(data))
	if err != nil {
		return fmt.Errorf("exec migration: %w", err)
	}
	return nil
}

func (s *PostgresStore) Add(ctx context.Context, e Exchange) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exchanges (
			id, document, question, answer, total_tokens, elapsed_ms, timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.Document, e.Question, e.Answer, e.TotalTokens, e.ElapsedMs, e.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert exchange: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Exchange, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document, question, answer, total_tokens, elapsed_ms, timestamp
		FROM exchanges ORDER BY timestamp DESC`)
	if err != nil {
		return nil, fmt.Errorf("query exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []Exchange
	for rows.Next() {
		var e Exchange
		if err := rows.Scan(&e.ID, &e.Document, &e.Question, &e.Answer, &e.TotalTokens, &e.ElapsedMs, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan exchange: %w", err)
		}
		exchanges = append(exchanges, e)
	}
	return exchanges, rows.Err()
}

func (s *PostgresStore) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			   COALESCE(SUM(total_tokens), 0),
			   COALESCE(AVG(elapsed_ms), 0)
		FROM exchanges`).Scan(&sum.TotalExchanges, &sum.TotalTokens, &sum.AvgLatencyMs)
	if err != nil {
		return sum, fmt.Errorf("query summary: %w", err)
	}
	return sum, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
