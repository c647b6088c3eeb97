package retrieval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSelfSimilarityIsOne(t *testing.T) {
	v := []float64{0.3, -0.5, 0.81, 0.02}

	score, err := Cosine(v, v)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestCosineIsSymmetric(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{-4, 0.5, 2.2}

	ab, err := Cosine(a, b)
	require.NoError(t, err)
	ba, err := Cosine(b, a)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
}

func TestCosineOrthogonalVectorsScoreZero(t *testing.T) {
	score, err := Cosine([]float64{1, 0}, []float64{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0, score, 1e-9)
}

func TestCosineOppositeVectorsScoreMinusOne(t *testing.T) {
	score, err := Cosine([]float64{1, 2}, []float64{-1, -2})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, score, 1e-9)
}

func TestCosineDimensionMismatch(t *testing.T) {
	_, err := Cosine([]float64{1, 2, 3}, []float64{1, 2})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestCosineZeroVectorIsNonFinite(t *testing.T) {
	score, err := Cosine([]float64{0, 0, 0}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(score))
}

func TestCosineIsDeterministic(t *testing.T) {
	a := []float64{0.12, 0.98, -0.3, 0.44}
	b := []float64{0.77, -0.2, 0.05, 0.6}

	first, err := Cosine(a, b)
	require.NoError(t, err)
	second, err := Cosine(a, b)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
