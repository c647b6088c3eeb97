package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kb-backend/internal/llm"
	"kb-backend/internal/retrieval"
	"kb-backend/internal/shared/metrics"
	"kb-backend/internal/shared/telemetry"
)

const completionTemperature = 0.7

// Service answers natural-language questions grounded in the user's
// uploaded documents: embed the query, rank documents by similarity,
// compose a grounding prompt, call the completion model.
type Service struct {
	Embedder  llm.Embedder
	Completer llm.Completer
	Engine    *retrieval.Engine
	TopK      int
}

// Ask returns the answer text for one chat message.
//
// An empty candidate or ranked set is a successful response carrying a
// fixed informational message; no completion call is made for it.
// Embedding and completion failures propagate: there is no search without
// a query vector and no answer without a model.
func (s *Service) Ask(ctx context.Context, userId, message string) (string, error) {
	if userId == "" || strings.TrimSpace(message) == "" {
		return "", ErrInvalidInput
	}
	metrics.IncChatStarted()

	queryVector, err := s.Embedder.Embed(ctx, message)
	if err != nil {
		metrics.IncChatFailed()
		return "", fmt.Errorf("embed query: %w", err)
	}

	matches, err := s.Engine.Retrieve(ctx, userId, queryVector, s.TopK)
	if err != nil {
		if errors.Is(err, retrieval.ErrNoCandidates) {
			metrics.IncChatCompleted()
			return noDocumentsMessage, nil
		}
		metrics.IncChatFailed()
		return "", fmt.Errorf("retrieve documents: %w", err)
	}

	if len(matches) == 0 {
		metrics.IncChatCompleted()
		return noRelevantContentMessage, nil
	}

	groundingContext := buildContext(matches)
	if strings.TrimSpace(groundingContext) == "" {
		metrics.IncChatCompleted()
		return noRelevantContentMessage, nil
	}

	answer, err := s.Completer.Complete(ctx, buildMessages(message, groundingContext), completionTemperature)
	if err != nil {
		metrics.IncChatFailed()
		return "", fmt.Errorf("complete answer: %w", err)
	}

	metrics.IncChatCompleted()
	telemetry.Info("chat.answered", map[string]any{
		"user_id":        userId,
		"documents_used": len(matches),
		"context_chars":  len(groundingContext),
	})
	return answer, nil
}

// ErrInvalidInput is returned for an empty user ID or message.
var ErrInvalidInput = errors.New("invalid input")
