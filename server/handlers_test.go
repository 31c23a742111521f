package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/core"
	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/llm"
)

type stubEmbedder struct {
	fail bool
}

func (f *stubEmbedder) embed(input string) []float64 {
	n := float64(len(input)%5 + 1)
	return []float64{n, 1, n / 3}
}

func (f *stubEmbedder) Embed(ctx context.Context, model, input string) (*llm.EmbeddingResponse, error) {
	if f.fail {
		return nil, core.ErrEmbeddingProvider
	}
	return &llm.EmbeddingResponse{Embedding: f.embed(input)}, nil
}

func (f *stubEmbedder) EmbedBatch(ctx context.Context, model string, inputs []string) ([]llm.EmbeddingResponse, error) {
	if f.fail {
		return nil, core.ErrEmbeddingProvider
	}
	out := make([]llm.EmbeddingResponse, len(inputs))
	for i, in := range inputs {
		out[i] = llm.EmbeddingResponse{Embedding: f.embed(in)}
	}
	return out, nil
}

type stubChat struct {
	reply string
	fail  bool
}

func (f *stubChat) Chat(ctx context.Context, model, system, user string) (*llm.LLMResponse, error) {
	if f.fail {
		return nil, core.ErrGenerationProvider
	}
	return &llm.LLMResponse{Content: f.reply, Usage: llm.Usage{TotalTokens: 42}}, nil
}

func (f *stubChat) ChatWithMessages(ctx context.Context, model, system string, msgs []llm.Message) (*llm.LLMResponse, error) {
	return f.Chat(ctx, model, system, "")
}

func intPtr(i int) *int {
	return &i
}

func newTestServer(t *testing.T, chat *stubChat, embedder *stubEmbedder) *Server {
	t.Helper()
	srv, err := New(Config{
		Client:       chat,
		Embedder:     embedder,
		ChunkSize:    50,
		ChunkOverlap: intPtr(10),
		TopK:         2,
		HistoryDSN:   filepath.Join(t.TempDir(), "history.db"),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	return srv
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func uploadDocument(t *testing.T, handler http.Handler, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, filename, content)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func askQuestion(t *testing.T, handler http.Handler, question string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(AskRequest{Question: question})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp.Detail
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &stubChat{}, &stubEmbedder{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestUpload(t *testing.T) {
	srv := newTestServer(t, &stubChat{}, &stubEmbedder{})
	handler := srv.Handler()

	rec := uploadDocument(t, handler, "notes.txt", strings.Repeat("all work and no play makes jack a dull boy. ", 4))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp UploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Document != "notes.txt" {
		t.Errorf("document = %q", resp.Document)
	}
	if resp.Chunks == 0 {
		t.Error("expected at least one chunk")
	}
}

func TestUpload_MissingFile(t *testing.T) {
	srv := newTestServer(t, &stubChat{}, &stubEmbedder{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("name", "unused")
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if detail := decodeDetail(t, rec); !strings.Contains(detail, "file") {
		t.Errorf("detail = %q", detail)
	}
}

func TestUpload_EmptyDocument(t *testing.T) {
	srv := newTestServer(t, &stubChat{}, &stubEmbedder{})

	rec := uploadDocument(t, srv.Handler(), "empty.txt", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUpload_EmbeddingProviderDown(t *testing.T) {
	embedder := &stubEmbedder{fail: true}
	srv := newTestServer(t, &stubChat{}, embedder)

	rec := uploadDocument(t, srv.Handler(), "doc.txt", "some document text here")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestAsk_BeforeUpload(t *testing.T) {
	srv := newTestServer(t, &stubChat{reply: "hi"}, &stubEmbedder{})

	rec := askQuestion(t, srv.Handler(), "what is this?")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if detail := decodeDetail(t, rec); !strings.Contains(detail, "no document") {
		t.Errorf("detail = %q", detail)
	}
}

func TestAsk_EmptyQuestion(t *testing.T) {
	srv := newTestServer(t, &stubChat{}, &stubEmbedder{})

	rec := askQuestion(t, srv.Handler(), "   ")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAsk_AfterUpload(t *testing.T) {
	srv := newTestServer(t, &stubChat{reply: "the document says hello"}, &stubEmbedder{})
	handler := srv.Handler()

	if rec := uploadDocument(t, handler, "greeting.txt", "hello world, this file greets its reader warmly"); rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d", rec.Code)
	}

	rec := askQuestion(t, handler, "what does the document say?")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp AskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Answer != "the document says hello" {
		t.Errorf("answer = %q", resp.Answer)
	}
	if resp.Document != "greeting.txt" {
		t.Errorf("document = %q", resp.Document)
	}
	if len(resp.Sources) == 0 {
		t.Error("expected sources")
	}
	if resp.TotalTokens != 42 {
		t.Errorf("total tokens = %d", resp.TotalTokens)
	}
}

func TestAsk_GenerationProviderDown(t *testing.T) {
	chat := &stubChat{fail: true}
	srv := newTestServer(t, chat, &stubEmbedder{})
	handler := srv.Handler()

	if rec := uploadDocument(t, handler, "doc.txt", "body text of the document"); rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d", rec.Code)
	}

	rec := askQuestion(t, handler, "question?")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestHistory_RecordsExchanges(t *testing.T) {
	srv := newTestServer(t, &stubChat{reply: "answer one"}, &stubEmbedder{})
	handler := srv.Handler()

	uploadDocument(t, handler, "doc.txt", "document body with enough text to index")
	askQuestion(t, handler, "first question?")

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp HistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Exchanges) != 1 {
		t.Fatalf("exchanges = %d, want 1", len(resp.Exchanges))
	}
	if resp.Exchanges[0].Question != "first question?" {
		t.Errorf("question = %q", resp.Exchanges[0].Question)
	}
	if resp.Summary.TotalExchanges != 1 {
		t.Errorf("summary = %+v", resp.Summary)
	}
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t, &stubChat{reply: "ok"}, &stubEmbedder{})
	handler := srv.Handler()

	uploadDocument(t, handler, "doc.txt", "document body with enough text to index")
	askQuestion(t, handler, "question?")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp MetricsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Metrics.TotalRequests != 2 {
		t.Errorf("total requests = %d, want 2", resp.Metrics.TotalRequests)
	}
	if resp.Metrics.Ops["ask"].Count != 1 {
		t.Errorf("ask ops = %+v", resp.Metrics.Ops["ask"])
	}
}

func TestNew_ZeroOverlap(t *testing.T) {
	srv, err := New(Config{
		Client:       &stubChat{},
		Embedder:     &stubEmbedder{},
		ChunkSize:    50,
		ChunkOverlap: intPtr(0),
		TopK:         2,
		HistoryDSN:   filepath.Join(t.TempDir(), "history.db"),
	})
	if err != nil {
		t.Fatalf("New with zero overlap: %v", err)
	}
	t.Cleanup(func() { srv.Close() })

	// With no overlap, 120 characters split into windows of 50 give
	// exactly three chunks.
	rec := uploadDocument(t, srv.Handler(), "doc.txt", strings.Repeat("x", 120))
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp UploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Chunks != 3 {
		t.Errorf("chunks = %d, want 3", resp.Chunks)
	}
}

func TestRoot_ReportsActiveDocument(t *testing.T) {
	srv := newTestServer(t, &stubChat{}, &stubEmbedder{})
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var before RootResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &before); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if before.Document != "" {
		t.Errorf("document before upload = %q", before.Document)
	}

	uploadDocument(t, handler, "report.txt", "quarterly report contents go here")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var after RootResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &after); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if after.Document != "report.txt" {
		t.Errorf("document after upload = %q", after.Document)
	}
}
