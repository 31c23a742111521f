package server

import (
	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/history"
	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/monitor"
)

// RootResponse describes the service for GET /.
type RootResponse struct {
	Service  string `json:"service"`
	Document string `json:"document,omitempty"`
	Status   string `json:"status"`
}

// UploadResponse is returned after a successful document upload.
type UploadResponse struct {
	Message  string `json:"message"`
	Document string `json:"document"`
	Chunks   int    `json:"chunks"`
}

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Question string `json:"question"`
}

// SourceInfo is one retrieved excerpt that grounded the answer.
type SourceInfo struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// AskResponse is returned by POST /ask.
type AskResponse struct {
	Answer      string       `json:"answer"`
	Document    string       `json:"document"`
	Sources     []SourceInfo `json:"sources"`
	TotalTokens int          `json:"total_tokens"`
}

// HistoryResponse wraps the recorded exchanges for GET /history.
type HistoryResponse struct {
	Exchanges []history.Exchange `json:"exchanges"`
	Summary   history.Summary    `json:"summary"`
}

// MetricsResponse wraps the collector summary for GET /metrics.
type MetricsResponse struct {
	Metrics monitor.ServiceMetrics `json:"metrics"`
}

// ErrorResponse carries a user-facing error message.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
