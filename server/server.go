package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/history"
	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/llm"
	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/monitor"
	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/rag"
	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/vector"
)

const defaultMaxUploadBytes = 10 << 20

// Config configures a new Server instance.
type Config struct {
	Client   llm.Client
	Embedder llm.EmbeddingClient

	ChunkSize      int
	ChunkOverlap   *int // nil means the engine default; 0 is a valid overlap
	TopK           int
	ChatModel      string
	EmbeddingModel string

	VectorDSN      string // Optional: postgres:// DSN for a pgvector-backed index
	VectorDim      int    // Embedding dimension, required with VectorDSN
	HistoryDSN     string // Optional: postgres:// DSN or sqlite path for exchange history
	MaxUploadBytes int64  // Optional: upload size cap (default 10 MB)

	Builder   vector.Builder    // Optional: inject custom index builder
	Collector monitor.Collector // Optional: inject custom metrics collector
}

// Server is an HTTP server for the document question-answering pipeline.
type Server struct {
	engine         *rag.Engine
	exchanges      history.Store
	collector      monitor.Collector
	maxUploadBytes int64
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	engineCfg := rag.DefaultEngineConfig()
	if cfg.ChunkSize > 0 {
		engineCfg.ChunkSize = cfg.ChunkSize
	}
	if cfg.ChunkOverlap != nil {
		engineCfg.ChunkOverlap = *cfg.ChunkOverlap
	}
	if cfg.TopK > 0 {
		engineCfg.TopK = cfg.TopK
	}
	if cfg.ChatModel != "" {
		engineCfg.ChatModel = cfg.ChatModel
	}
	if cfg.EmbeddingModel != "" {
		engineCfg.EmbeddingModel = cfg.EmbeddingModel
	}

	builder := cfg.Builder
	if builder == nil {
		if strings.HasPrefix(cfg.VectorDSN, "postgres://") || strings.HasPrefix(cfg.VectorDSN, "postgresql://") {
			dim := cfg.VectorDim
			if dim == 0 {
				dim = 1536
			}
			pb, err := vector.NewPgBuilder(cfg.VectorDSN, dim)
			if err != nil {
				return nil, fmt.Errorf("initialize pgvector: %w", err)
			}
			builder = pb
			log.Printf("[vector] Using pgvector index (dimension %d)", dim)
		} else {
			builder = vector.NewMemoryBuilder()
			log.Printf("[vector] Using in-memory index")
		}
	}

	engine, err := rag.NewEngine(engineCfg, cfg.Client, cfg.Embedder, builder)
	if err != nil {
		return nil, fmt.Errorf("initialize engine: %w", err)
	}

	exchanges, err := history.NewStore(cfg.HistoryDSN)
	if err != nil {
		return nil, fmt.Errorf("initialize history store: %w", err)
	}
	log.Printf("[history] Initialized exchange storage")

	collector := cfg.Collector
	if collector == nil {
		collector = monitor.NewInMemoryCollector()
	}

	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}

	return &Server{
		engine:         engine,
		exchanges:      exchanges,
		collector:      collector,
		maxUploadBytes: maxUpload,
	}, nil
}

// Close closes the server and releases resources.
func (s *Server) Close() error {
	return s.exchanges.Close()
}

// Handler returns an http.Handler for the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("GET /history", s.handleHistory)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	return corsMiddleware(mux)
}
