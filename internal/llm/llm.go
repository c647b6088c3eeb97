package llm

import (
	"context"
	"errors"
)

// Chat roles understood by the completion models.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn of a model conversation.
type Message struct {
	Role    string
	Content string
}

var (
	// ErrEmbeddingUnavailable wraps any upstream embedding failure (auth,
	// quota, malformed input, timeout).
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	// ErrCompletionUnavailable wraps any upstream completion failure.
	ErrCompletionUnavailable = errors.New("completion unavailable")
)

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Completer produces a chat completion for the given conversation.
type Completer interface {
	Complete(ctx context.Context, messages []Message, temperature float32) (string, error)
}
