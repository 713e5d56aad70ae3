package distance

import (
	"math"

	"github.com/openvaa/vaa-matching/internal/domain"
)

// Kernel measures the disagreement of two coordinates on one dimension.
// A kernel must be 0 for equal coordinates and at most
// domain.CoordinateExtent.
type Kernel func(a, b domain.Coordinate) float64

// Sum folds weighted per-dimension values into one total.
type Sum func(values []float64) float64

// SubdimWeight returns the weight multiplier applied to each of n
// sub-dimensions of one top-level dimension.
type SubdimWeight func(n int) float64

// AbsoluteKernel is the absolute difference |a-b|.
func AbsoluteKernel(a, b domain.Coordinate) float64 {
	return math.Abs(float64(a - b))
}

// DirectionalKernel blends the absolute difference with a penalty for
// answers on opposite sides of neutral:
//
//	k(a, b) = ½|a-b| + ½·max(0, -4(a-N)(b-N)/Extent)
//
// The penalty term is zero unless a and b lie on strictly opposite sides
// of neutral, so identical answers are at distance 0 and the kernel is
// continuous across neutral. Both terms are bounded by Extent.
func DirectionalKernel(a, b domain.Coordinate) float64 {
	n := domain.CoordinateNeutral
	opposite := -4 * float64(a-n) * float64(b-n) / domain.CoordinateExtent
	return 0.5*AbsoluteKernel(a, b) + 0.5*max(0, opposite)
}

// BasicSum adds the values.
func BasicSum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// EuclideanSum is the square root of the sum of squares.
func EuclideanSum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v * v
	}
	return math.Sqrt(total)
}

// BasicDivision splits a dimension's weight evenly over its sub-dimensions.
func BasicDivision(n int) float64 { return 1 / float64(n) }

// EuclideanSubdimWeight keeps the maximum Euclidean contribution of a
// dimension independent of its sub-dimension count.
func EuclideanSubdimWeight(n int) float64 { return 1 / math.Sqrt(float64(n)) }
