package history

import (
	"context"
	"fmt"
	"strings"
)

// Exchange is one answered question, recorded after a successful ask.
type Exchange struct {
	ID          string `json:"id"`
	Document    string `json:"document"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	TotalTokens int    `json:"total_tokens"`
	ElapsedMs   int64  `json:"elapsed_ms"`
	Timestamp   int64  `json:"timestamp"`
}

// Summary contains aggregated history metrics.
type Summary struct {
	TotalExchanges int     `json:"total_exchanges"`
	TotalTokens    int     `json:"total_tokens"`
	AvgLatencyMs   float64 `json:"avg_latency_ms"`
}

// Store defines the interface for exchange persistence.
type Store interface {
	Add(ctx context.Context, e Exchange) error
	List(ctx context.Context) ([]Exchange, error)
	Summary(ctx context.Context) (Summary, error)
	Close() error
}

// NewStore creates an exchange store based on the DSN.
// - Empty DSN: SQLite at data/pdfchat.db
// - postgres:// or postgresql://: PostgreSQL
// - Anything else: SQLite at the specified path
func NewStore(dsn string) (Store, error) {
	if dsn == "" {
		return NewSQLiteStore("data/pdfchat.db")
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		s, err := NewPostgresStore(dsn)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return s, nil
	}

	return NewSQLiteStore(dsn)
}
