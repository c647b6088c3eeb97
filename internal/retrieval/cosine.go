package retrieval

import (
	"errors"
	"fmt"
	"math"
)

// ErrDimensionMismatch indicates two vectors of unequal length were compared.
// It is a data-integrity error and is always surfaced to the caller.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Cosine returns the cosine similarity between a and b: dot(a,b) / (|a|*|b|).
// The result lies in [-1, 1] for non-degenerate inputs. If either vector has
// zero magnitude the result is non-finite; ranking excludes such scores.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	return dot / (math.Sqrt(magA) * math.Sqrt(magB)), nil
}
