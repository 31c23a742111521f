package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the document Q&A service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Providers ProvidersConfig `yaml:"providers"`
	Storage   StorageConfig   `yaml:"storage"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

// PipelineConfig configures chunking, retrieval, and model selection.
// ChunkOverlap is a pointer so an explicit 0 stays distinguishable from an
// absent key.
type PipelineConfig struct {
	ChunkSize      int    `yaml:"chunk_size"`
	ChunkOverlap   *int   `yaml:"chunk_overlap"`
	TopK           int    `yaml:"top_k"`
	ChatModel      string `yaml:"chat_model"`
	EmbeddingModel string `yaml:"embedding_model"`
}

// ProvidersConfig names the environment variables holding provider
// credentials, plus the Ollama endpoint for local models.
type ProvidersConfig struct {
	OpenAIKeyEnv    string `yaml:"openai_key_env"`
	AnthropicKeyEnv string `yaml:"anthropic_key_env"`
	OllamaURL       string `yaml:"ollama_url"`
}

// StorageConfig configures the vector index and exchange history backends.
type StorageConfig struct {
	VectorDSN  string `yaml:"vector_dsn"`  // postgres:// for pgvector, empty for in-memory
	VectorDim  int    `yaml:"vector_dim"`  // embedding dimension for pgvector
	HistoryDSN string `yaml:"history_dsn"` // postgres:// or sqlite path
}

// Load reads a config from the specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = 10 << 20
	}
	if cfg.Pipeline.ChunkSize == 0 {
		cfg.Pipeline.ChunkSize = 1000
	}
	if cfg.Pipeline.ChunkOverlap == nil {
		overlap := 200
		cfg.Pipeline.ChunkOverlap = &overlap
	}
	if cfg.Pipeline.TopK == 0 {
		cfg.Pipeline.TopK = 4
	}
	if cfg.Pipeline.ChatModel == "" {
		cfg.Pipeline.ChatModel = "gpt-4o-mini"
	}
	if cfg.Pipeline.EmbeddingModel == "" {
		cfg.Pipeline.EmbeddingModel = "text-embedding-3-small"
	}
	if cfg.Providers.OpenAIKeyEnv == "" {
		cfg.Providers.OpenAIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Providers.AnthropicKeyEnv == "" {
		cfg.Providers.AnthropicKeyEnv = "ANTHROPIC_API_KEY"
	}
	if cfg.Storage.VectorDim == 0 {
		cfg.Storage.VectorDim = 1536
	}
}
