package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/history/migrations"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLite-backed exchange store
func NewSQLiteStore(dsn string) (Store, error) {
	dir := filepath.Dir(dsn)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := runSQLiteMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func runSQLiteMigrations(db *sql.DB) error {
	data, err := migrations.SQLite.ReadFile("sqlite/001_init.sql")
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	_, err = db.Exec(string(data))
	if err != nil {
		return fmt.Errorf("exec migration: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Add(ctx context.Context, e Exchange) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exchanges (
			id, document, question, answer, total_tokens, elapsed_ms, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Document, e.Question, e.Answer, e.TotalTokens, e.ElapsedMs, e.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert exchange: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Exchange, error) {
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

func (s *SQLiteStore) Summary(ctx context.Context) (Summary, error) {
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

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
