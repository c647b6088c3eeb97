package retrieval

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"kb-backend/internal/documents"
	"kb-backend/internal/shared/metrics"
	"kb-backend/internal/shared/telemetry"
)

// DefaultTopK is the number of documents returned when no k is given.
const DefaultTopK = 3

// ErrNoCandidates means the user has no documents with usable embeddings.
// It is a valid empty-result signal, not a failure: callers short-circuit
// with a canned response instead of invoking the completion model.
var ErrNoCandidates = errors.New("no candidate documents")

// Match pairs a document with its similarity score to the query.
type Match struct {
	Document documents.Document
	Score    float64
}

// Engine ranks a user's documents against a query vector by brute-force
// cosine similarity. The linear scan is the correct baseline; an ANN index
// can replace the Engine behind the same contract later.
type Engine struct {
	Repo documents.DocumentsRepo
	TopK int
}

// Retrieve returns at most k matches, best first. Candidates scoring
// non-finite or <= 0 are excluded; equal scores keep store order.
func (e *Engine) Retrieve(ctx context.Context, userId string, queryVector []float64, k int) ([]Match, error) {
	if k <= 0 {
		k = e.TopK
	}
	if k <= 0 {
		k = DefaultTopK
	}

	candidates, err := e.Repo.ListWithEmbedding(ctx, userId)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	start := time.Now()
	matches := make([]Match, 0, len(candidates))
	for _, doc := range candidates {
		score, err := Cosine(queryVector, doc.Embedding)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(score) || math.IsInf(score, 0) {
			telemetry.Warn("retrieval.nonfinite_score", map[string]any{
				"document_id": doc.ID,
				"user_id":     userId,
			})
			continue
		}
		if score <= 0 {
			continue
		}
		matches = append(matches, Match{Document: doc, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > k {
		matches = matches[:k]
	}

	metrics.ObserveRetrievalDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	telemetry.Info("retrieval.ranked", map[string]any{
		"user_id":    userId,
		"candidates": len(candidates),
		"returned":   len(matches),
	})
	return matches, nil
}
