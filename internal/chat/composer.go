package chat

import (
	"strings"

	"kb-backend/internal/llm"
	"kb-backend/internal/retrieval"
)

const (
	// Returned without a completion call when the user has no documents
	// with usable embeddings.
	noDocumentsMessage = "I couldn't find any relevant documents to answer your question. Please make sure you have uploaded PDFs to the Knowledge Base."
	// Returned without a completion call when no document scored above the
	// relevance threshold.
	noRelevantContentMessage = "I couldn't find any relevant content in your documents to answer this question."

	contextSeparator = "\n\n---\n\n"
)

const systemPromptPrefix = `You are a helpful AI assistant. Use the following pieces of context from the user's documents to answer their question.
If the answer is not in the context, say you don't know based on the provided documents.
Always be specific and reference the information from the documents when possible.

Context from uploaded documents:
`

// buildContext concatenates the extracted text of the ranked documents in
// ranking order. No per-document length cap applies here; document size is
// bounded earlier by the embedding-stage truncation only.
func buildContext(matches []retrieval.Match) string {
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, m.Document.Content)
	}
	return strings.Join(parts, contextSeparator)
}

// buildMessages assembles the grounding prompt for one completion call.
func buildMessages(query, context string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemPromptPrefix + context},
		{Role: llm.RoleUser, Content: query},
	}
}
