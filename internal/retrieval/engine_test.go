package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kb-backend/internal/documents"
)

type stubRepo struct {
	docs []documents.Document
	err  error
}

func (r *stubRepo) Create(ctx context.Context, doc documents.Document) error { return nil }

func (r *stubRepo) GetByID(ctx context.Context, userId, documentID string) (documents.Document, error) {
	return documents.Document{}, documents.ErrNotFound
}

func (r *stubRepo) ListByUser(ctx context.Context, userId string, limit, offset int) ([]documents.Document, error) {
	return r.docs, r.err
}

func (r *stubRepo) ListWithEmbedding(ctx context.Context, userId string) ([]documents.Document, error) {
	return r.docs, r.err
}

func doc(id string, embedding []float64) documents.Document {
	return documents.Document{ID: id, UserID: "user-1", Content: "text " + id, Embedding: embedding}
}

func TestRetrieveRanksBestFirstAndKeepsStoreOrderOnTies(t *testing.T) {
	// Query [1,0]: d1 and d2 both score 1.0, d3 scores lower.
	repo := &stubRepo{docs: []documents.Document{
		doc("d1", []float64{2, 0}),
		doc("d2", []float64{5, 0}),
		doc("d3", []float64{1, 1}),
	}}
	engine := &Engine{Repo: repo}

	matches, err := engine.Retrieve(context.Background(), "user-1", []float64{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "d1", matches[0].Document.ID)
	assert.Equal(t, "d2", matches[1].Document.ID)
	assert.Equal(t, "d3", matches[2].Document.ID)
	assert.Greater(t, matches[1].Score, matches[2].Score)
}

func TestRetrieveTruncatesToK(t *testing.T) {
	repo := &stubRepo{docs: []documents.Document{
		doc("d1", []float64{1, 0}),
		doc("d2", []float64{1, 0.1}),
		doc("d3", []float64{1, 0.5}),
	}}
	engine := &Engine{Repo: repo}

	matches, err := engine.Retrieve(context.Background(), "user-1", []float64{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "d1", matches[0].Document.ID)
	assert.Equal(t, "d2", matches[1].Document.ID)
}

func TestRetrieveExcludesNonPositiveScores(t *testing.T) {
	// Scores against [1,0]: 0.5-ish positive, negative, exactly zero.
	repo := &stubRepo{docs: []documents.Document{
		doc("pos", []float64{1, 1}),
		doc("neg", []float64{-1, 0}),
		doc("zero", []float64{0, 1}),
	}}
	engine := &Engine{Repo: repo}

	matches, err := engine.Retrieve(context.Background(), "user-1", []float64{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "pos", matches[0].Document.ID)
}

func TestRetrieveExcludesNonFiniteScores(t *testing.T) {
	repo := &stubRepo{docs: []documents.Document{
		doc("zerovec", []float64{0, 0}),
		doc("good", []float64{1, 0}),
	}}
	engine := &Engine{Repo: repo}

	matches, err := engine.Retrieve(context.Background(), "user-1", []float64{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "good", matches[0].Document.ID)
}

func TestRetrieveNoCandidates(t *testing.T) {
	engine := &Engine{Repo: &stubRepo{}}

	_, err := engine.Retrieve(context.Background(), "user-1", []float64{1, 0}, 3)
	require.ErrorIs(t, err, ErrNoCandidates)
}

func TestRetrievePropagatesDimensionMismatch(t *testing.T) {
	repo := &stubRepo{docs: []documents.Document{
		doc("d1", []float64{1, 0, 0}),
	}}
	engine := &Engine{Repo: repo}

	_, err := engine.Retrieve(context.Background(), "user-1", []float64{1, 0}, 3)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestRetrievePropagatesRepoError(t *testing.T) {
	repoErr := errors.New("connection reset")
	engine := &Engine{Repo: &stubRepo{err: repoErr}}

	_, err := engine.Retrieve(context.Background(), "user-1", []float64{1, 0}, 3)
	require.ErrorIs(t, err, repoErr)
}

func TestRetrieveDefaultsKWhenUnset(t *testing.T) {
	repo := &stubRepo{docs: []documents.Document{
		doc("d1", []float64{1, 0}),
		doc("d2", []float64{1, 0.1}),
		doc("d3", []float64{1, 0.2}),
		doc("d4", []float64{1, 0.3}),
	}}
	engine := &Engine{Repo: repo}

	matches, err := engine.Retrieve(context.Background(), "user-1", []float64{1, 0}, 0)
	require.NoError(t, err)
	assert.Len(t, matches, DefaultTopK)
}
