package rag

import (
	"sync"

	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/core"
	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/vector"
)

// Session holds the single active document index. A new upload replaces the
// previous index atomically; questions always run against exactly one
// document.
type Session struct {
	mu       sync.RWMutex
	index    vector.Index
	document string
}

// NewSession returns an empty session with no document loaded.
func NewSession() *Session {
	return &Session{}
}

// Replace installs a newly built index under the given document name and
// closes the index it displaces, if any.
func (s *Session) Replace(index vector.Index, document string) {
	s.mu.Lock()
	old := s.index
	s.index = index
	s.document = document
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}
}

// Current returns the active index and document name, or
// core.ErrNoDocument when nothing has been uploaded yet.
func (s *Session) Current() (vector.Index, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.index == nil {
		return nil, "", core.ErrNoDocument
	}
	return s.index, s.document, nil
}

// Document returns the active document name, or "" when the session is
// empty.
func (s *Session) Document() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.document
}
