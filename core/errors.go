package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidChunking    = errors.New("invalid chunking configuration")
	ErrIngestion          = errors.New("document text could not be extracted")
	ErrEmbeddingProvider  = errors.New("embedding provider request failed")
	ErrGenerationProvider = errors.New("generation provider request failed")
	ErrEmptyIndex         = errors.New("index would contain no chunks")
	ErrDimensionMismatch  = errors.New("vector dimension mismatch")
	ErrNoDocument         = errors.New("no document loaded")
)

// PipelineError tags a failure with the pipeline operation it occurred in.
type PipelineError struct {
	Op       string
	Document string
	Err      error
}

func (e *PipelineError) Error() string {
	if e.Document != "" {
		return fmt.Sprintf("%s [doc=%s]: %v", e.Op, e.Document, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func NewPipelineError(op, document string, err error) *PipelineError {
	return &PipelineError{Op: op, Document: document, Err: err}
}
