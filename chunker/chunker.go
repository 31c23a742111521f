// Package chunker splits document text into overlapping fixed-size chunks.
package chunker

import (
	"fmt"

	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/core"
)

// Split walks the text from the start, emitting windows of at most size
// characters and stepping forward by size-overlap each time. Every character
// of the input is covered by at least one chunk, and consecutive chunks share
// exactly overlap characters, so a sentence cut at a chunk boundary is still
// recoverable from its neighbor. The final chunk may be shorter than size.
func Split(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d must be positive", core.ErrInvalidChunking, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", core.ErrInvalidChunking, overlap, size)
	}
	if text == "" {
		return nil, nil
	}

	// Windows are measured in runes so a multi-byte character is never cut
	// in half at a chunk boundary.
	runes := []rune(text)
	step := size - overlap
	chunks := make([]string, 0, (len(runes)+step-1)/step)
	for pos := 0; pos < len(runes); pos += step {
		end := pos + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[pos:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks, nil
}
