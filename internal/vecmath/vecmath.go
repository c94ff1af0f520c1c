// Package vecmath implements the validated vector distance primitives the
// rest of the engine builds on: dot product, Euclidean (L2) distance, and
// cosine similarity, each with explicit finite-value and zero-norm checks.
package vecmath

import (
	"errors"
	"fmt"
	"math"

	"github.com/samber/lo"
)

var (
	ErrDimensionMismatch = errors.New("vecmath: vectors have different lengths")
	ErrEmptyVector       = errors.New("vecmath: vectors must not be empty")
	ErrNonFinite         = errors.New("vecmath: vector contains a non-finite component")
	ErrZeroNorm          = errors.New("vecmath: norm is too small to normalize")
)

// Options controls the validation behavior of the distance functions.
type Options struct {
	StrictFinite    bool
	ZeroNormEpsilon float32
}

// float32Epsilon is f32::EPSILON: the difference between 1.0 and the next
// representable float32.
const float32Epsilon = 1.1920929e-7

// DefaultOptions is the conservative default: finiteness is checked, and the
// zero-norm threshold is float32's machine epsilon.
func DefaultOptions() Options {
	return Options{StrictFinite: true, ZeroNormEpsilon: float32Epsilon}
}

func defaultEpsilon() float32 {
	return float32Epsilon
}

func validatePair(a, b []float32, strictFinite bool) error {
	if len(a) == 0 || len(b) == 0 {
		return ErrEmptyVector
	}
	if len(a) != len(b) {
		return fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	if strictFinite {
		if _, nonFinite := lo.Find(a, func(v float32) bool { return !isFinite(v) }); nonFinite {
			return ErrNonFinite
		}
		if _, nonFinite := lo.Find(b, func(v float32) bool { return !isFinite(v) }); nonFinite {
			return ErrNonFinite
		}
	}
	return nil
}

func isFinite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Dot returns the dot product of a and b using the default options.
func Dot(a, b []float32) (float32, error) {
	return DotWithOptions(a, b, DefaultOptions())
}

// DotWithOptions returns the dot product of a and b.
func DotWithOptions(a, b []float32, opts Options) (float32, error) {
	if err := validatePair(a, b, opts.StrictFinite); err != nil {
		return 0, err
	}
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum, nil
}

// L2 returns the Euclidean distance between a and b using the default
// options.
func L2(a, b []float32) (float32, error) {
	return L2WithOptions(a, b, DefaultOptions())
}

// L2WithOptions returns the Euclidean distance between a and b.
func L2WithOptions(a, b []float32, opts Options) (float32, error) {
	if err := validatePair(a, b, opts.StrictFinite); err != nil {
		return 0, err
	}
	var sum float64
	for i := range a {
		diff := float64(a[i] - b[i])
		sum += diff * diff
	}
	return float32(math.Sqrt(sum)), nil
}

// Cosine returns the cosine similarity of a and b using the default options.
func Cosine(a, b []float32) (float32, error) {
	return CosineWithOptions(a, b, DefaultOptions())
}

// CosineWithOptions returns the cosine similarity of a and b.
func CosineWithOptions(a, b []float32, opts Options) (float32, error) {
	if err := validatePair(a, b, opts.StrictFinite); err != nil {
		return 0, err
	}

	epsilon := opts.ZeroNormEpsilon
	if epsilon == 0 {
		epsilon = defaultEpsilon()
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	normA = math.Sqrt(normA)
	normB = math.Sqrt(normB)

	if normA < float64(epsilon) || normB < float64(epsilon) {
		return 0, ErrZeroNorm
	}

	return float32(dot / (normA * normB)), nil
}

// Metric identifies which distance/similarity function to apply.
type Metric string

const (
	MetricL2     Metric = "l2"
	MetricDot    Metric = "dot"
	MetricCosine Metric = "cosine"
)

// Distance computes the configured metric between a and b using the default
// options. For L2 a smaller result means "closer"; for Dot and Cosine a
// larger result means "closer".
func Distance(a, b []float32, metric Metric) (float32, error) {
	return DistanceWithOptions(a, b, metric, DefaultOptions())
}

// DistanceWithOptions computes the configured metric between a and b under
// opts.
func DistanceWithOptions(a, b []float32, metric Metric, opts Options) (float32, error) {
	switch metric {
	case MetricL2:
		return L2WithOptions(a, b, opts)
	case MetricDot:
		return DotWithOptions(a, b, opts)
	case MetricCosine:
		return CosineWithOptions(a, b, opts)
	default:
		return 0, fmt.Errorf("vecmath: unsupported metric %q", metric)
	}
}

// Ascending reports whether, for the given metric, a smaller distance value
// ranks as a closer match (true for L2; false for Dot and Cosine, where a
// larger value means more similar).
func Ascending(metric Metric) bool {
	return metric == MetricL2
}
