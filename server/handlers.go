package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/core"
	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/extract"
	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/history"
	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/monitor"
)

const requestTimeout = 120 * time.Second

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	resp := RootResponse{
		Service: "pdf-chat",
		Status:  "ready",
	}
	if doc := s.engine.Session().Document(); doc != "" {
		resp.Document = doc
	} else {
		resp.Status = "waiting for upload"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse upload: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read upload: "+err.Error())
		return
	}

	text, err := extract.Text(header.Filename, data)
	if err != nil {
		log.Printf("[upload] Extraction failed for %q: %v", header.Filename, err)
		s.recordOp("upload", 0, time.Since(start), err)
		writeError(w, http.StatusBadRequest, "could not extract text from document")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	chunks, err := s.engine.Ingest(ctx, header.Filename, text)
	if err != nil {
		log.Printf("[upload] Ingest failed for %q: %v", header.Filename, err)
		s.recordOp("upload", 0, time.Since(start), err)
		writePipelineError(w, err)
		return
	}

	s.recordOp("upload", 0, time.Since(start), nil)
	log.Printf("[upload] Loaded %q (%d chunks) in %v", header.Filename, chunks, time.Since(start).Round(time.Millisecond))

	writeJSON(w, http.StatusOK, UploadResponse{
		Message:  "Successfully processed '" + header.Filename + "'. Ready to answer questions.",
		Document: header.Filename,
		Chunks:   chunks,
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		writeError(w, http.StatusBadRequest, "question must not be empty")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	ans, err := s.engine.Ask(ctx, question)
	if err != nil {
		log.Printf("[ask] Failed: %v", err)
		s.recordOp("ask", 0, time.Since(start), err)
		writePipelineError(w, err)
		return
	}

	elapsed := time.Since(start)
	s.recordOp("ask", ans.Usage.TotalTokens, elapsed, nil)

	// History is best-effort; a storage failure never fails the answer.
	if err := s.exchanges.Add(ctx, history.Exchange{
		ID:          uuid.NewString(),
		Document:    ans.Document,
		Question:    question,
		Answer:      ans.Text,
		TotalTokens: ans.Usage.TotalTokens,
		ElapsedMs:   elapsed.Milliseconds(),
		Timestamp:   time.Now().Unix(),
	}); err != nil {
		log.Printf("[history] Failed to record exchange: %v", err)
	}

	sources := make([]SourceInfo, 0, len(ans.Sources))
	for _, src := range ans.Sources {
		sources = append(sources, SourceInfo{Content: src.Content, Score: src.Score})
	}

	writeJSON(w, http.StatusOK, AskResponse{
		Answer:      ans.Text,
		Document:    ans.Document,
		Sources:     sources,
		TotalTokens: ans.Usage.TotalTokens,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	exchanges, err := s.exchanges.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load history")
		return
	}

	summary, err := s.exchanges.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load history summary")
		return
	}

	if exchanges == nil {
		exchanges = []history.Exchange{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Exchanges: exchanges, Summary: summary})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MetricsResponse{Metrics: s.collector.Summary()})
}

func (s *Server) recordOp(op string, tokens int, elapsed time.Duration, err error) {
	m := monitor.RequestMetrics{
		Op:       op,
		TokensIn: tokens,
		Duration: elapsed,
		Success:  err == nil,
	}
	if err != nil {
		m.Error = err.Error()
	}
	s.collector.Record(m)
}

// writePipelineError maps pipeline failures to HTTP statuses: user-correctable
// conditions get 400, upstream provider failures get 502, everything else 500.
func writePipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNoDocument):
		writeError(w, http.StatusBadRequest, "no document loaded, upload one first")
	case errors.Is(err, core.ErrIngestion):
		writeError(w, http.StatusBadRequest, "could not extract usable text from document")
	case errors.Is(err, core.ErrEmptyIndex):
		writeError(w, http.StatusBadRequest, "document produced no indexable content")
	case errors.Is(err, core.ErrEmbeddingProvider):
		writeError(w, http.StatusBadGateway, "embedding provider request failed")
	case errors.Is(err, core.ErrGenerationProvider):
		writeError(w, http.StatusBadGateway, "generation provider request failed")
	default:
		writeError(w, http.StatusInternalServerError, "internal pipeline error")
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
