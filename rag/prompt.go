package rag

import (
	"fmt"
	"strings"

	"github.com/Kalana-Gayan/Chat-with-your-PDF-API-RAG-Portfolio-Project/vector"
)

const groundingInstruction = `You are a helpful assistant that answers questions about an uploaded document.

Answer using ONLY the information inside the <context> block below. If the context does not contain the answer, say you don't know. Do not use outside knowledge and do not make anything up.`

// BuildSystemPrompt assembles the grounded system prompt: the grounding
// instruction followed by the retrieved chunks inside a <context> block.
// Chunks appear in retrieval order, separated so that chunk boundaries stay
// visible to the model.
func BuildSystemPrompt(results []vector.SearchResult) string {
	var sb strings.Builder
	sb.WriteString(groundingInstruction)
	sb.WriteString("\n\n<context>\n")

	if len(results) == 0 {
		sb.WriteString("(no relevant excerpts were found in the document)\n")
	} else {
		for i, r := range results {
			fmt.Fprintf(&sb, "--- excerpt %d ---\n", i+1)
			sb.WriteString(r.Content)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("</context>")
	return sb.String()
}
