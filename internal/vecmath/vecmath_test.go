package vecmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	got, err := Dot([]float32{1, 2, 3}, []float32{4, 5, 6})
	require.NoError(t, err)
	assert.InDelta(t, 32.0, got, 1e-6)
}

func TestL2(t *testing.T) {
	got, err := L2([]float32{0, 0}, []float32{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got, 1e-6)
}

func TestCosineIdenticalVectors(t *testing.T) {
	got, err := Cosine([]float32{1, 1}, []float32{1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-6)
}

func TestDimensionMismatch(t *testing.T) {
	_, err := Dot([]float32{1, 2}, []float32{1})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestEmptyVector(t *testing.T) {
	_, err := L2(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyVector)
}

func TestNonFiniteRejectedWhenStrict(t *testing.T) {
	_, err := DotWithOptions([]float32{1, float32(math.NaN())}, []float32{1, 1}, Options{StrictFinite: true})
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestNonFiniteAllowedWhenNotStrict(t *testing.T) {
	_, err := DotWithOptions([]float32{1, float32(math.Inf(1))}, []float32{1, 1}, Options{StrictFinite: false})
	assert.NoError(t, err)
}

func TestCosineZeroNorm(t *testing.T) {
	_, err := Cosine([]float32{0, 0}, []float32{1, 1})
	assert.ErrorIs(t, err, ErrZeroNorm)
}

func TestAscendingByMetric(t *testing.T) {
	assert.True(t, Ascending(MetricL2))
	assert.False(t, Ascending(MetricDot))
	assert.False(t, Ascending(MetricCosine))
}
