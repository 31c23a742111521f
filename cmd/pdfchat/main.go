package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/config"
	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/llm"
	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// .env is optional; environment variables win either way.
	if err := godotenv.Load(); err == nil {
		log.Printf("[env] Loaded .env file")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[config] %v", err)
	}

	client, err := llm.NewUnifiedClient(llm.UnifiedConfig{
		OpenAIKey:    os.Getenv(cfg.Providers.OpenAIKeyEnv),
		AnthropicKey: os.Getenv(cfg.Providers.AnthropicKeyEnv),
		OllamaURL:    getEnvOr("OLLAMA_URL", cfg.Providers.OllamaURL),
	})
	if err != nil {
		log.Fatalf("[llm] %v", err)
	}

	srv, err := server.New(server.Config{
		Client:         client,
		Embedder:       client,
		ChunkSize:      cfg.Pipeline.ChunkSize,
		ChunkOverlap:   cfg.Pipeline.ChunkOverlap,
		TopK:           cfg.Pipeline.TopK,
		ChatModel:      cfg.Pipeline.ChatModel,
		EmbeddingModel: cfg.Pipeline.EmbeddingModel,
		VectorDSN:      cfg.Storage.VectorDSN,
		VectorDim:      cfg.Storage.VectorDim,
		HistoryDSN:     cfg.Storage.HistoryDSN,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})
	if err != nil {
		log.Fatalf("[server] %v", err)
	}
	defer srv.Close()

	addr := getEnvOr("ADDR", cfg.Server.Addr)
	log.Printf("Starting pdfchat server on %s", addr)
	log.Fatal(http.ListenAndServe(addr, srv.Handler()))
}

func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
