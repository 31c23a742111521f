package chunker

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/core"
)

func TestSplit_Example(t *testing.T) {
	chunks, err := Split("ABCDEFGHIJ", 4, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"ABCD", "CDEF", "EFGH", "GHIJ"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d (%v)", len(want), len(chunks), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], chunks[i])
		}
	}
}

func TestSplit_EmptyText(t *testing.T) {
	chunks, err := Split("", 100, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected 0 chunks for empty text, got %d", len(chunks))
	}
}

func TestSplit_InvalidConfiguration(t *testing.T) {
	cases := []struct {
		name          string
		size, overlap int
	}{
		{"overlap equals size", 4, 4},
		{"overlap exceeds size", 4, 6},
		{"zero size", 0, 0},
		{"negative overlap", 4, -1},
	}

	for _, tc := range cases {
		if _, err := Split("some text", tc.size, tc.overlap); !errors.Is(err, core.ErrInvalidChunking) {
			t.Errorf("%s: expected ErrInvalidChunking, got %v", tc.name, err)
		}
	}
}

func TestSplit_MultiByteRunes(t *testing.T) {
	chunks, err := Split("αβγδεζηθικ", 4, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"αβγδ", "γδεζ", "εζηθ", "ηθικ"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d (%v)", len(want), len(chunks), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], chunks[i])
		}
		if !utf8.ValidString(chunks[i]) {
			t.Errorf("chunk %d is not valid UTF-8", i)
		}
	}
}

func TestSplit_ChunkBounds(t *testing.T) {
	text := strings.Repeat("abcdefg ", 40)
	chunks, err := Split(text, 50, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, c := range chunks {
		if len(c) > 50 {
			t.Errorf("chunk %d exceeds max length: %d", i, len(c))
		}
		if i < len(chunks)-1 && len(c) != 50 {
			t.Errorf("non-final chunk %d has length %d, expected 50", i, len(c))
		}
	}
}

func TestSplit_OverlapInvariant(t *testing.T) {
	text := strings.Repeat("0123456789", 13)
	const size, overlap = 30, 7

	chunks, err := Split(text, size, overlap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i < len(chunks); i++ {
		tail := chunks[i-1][len(chunks[i-1])-overlap:]
		head := chunks[i][:overlap]
		if tail != head {
			t.Errorf("chunks %d/%d do not share %d characters: %q vs %q", i-1, i, overlap, tail, head)
		}
	}
}

func TestSplit_Coverage(t *testing.T) {
	texts := []string{
		"short",
		strings.Repeat("the quick brown fox ", 25),
		strings.Repeat("x", 101),
	}

	for _, text := range texts {
		const size, overlap = 40, 15
		chunks, err := Split(text, size, overlap)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Reconstruct by dropping each successor's overlapping head.
		var sb strings.Builder
		for i, c := range chunks {
			if i == 0 {
				sb.WriteString(c)
				continue
			}
			skip := overlap
			if skip > len(c) {
				skip = len(c)
			}
			sb.WriteString(c[skip:])
		}
		if got := sb.String(); got != text {
			t.Errorf("reconstruction mismatch for text of length %d: got length %d", len(text), len(got))
		}
	}
}
