// Package domain contains pure, dependency-free domain models and types
// for the matching engine.
package domain

import "math"

// Coordinate is one normalized opinion position along one dimension.
// Valid coordinates lie in [CoordinateMin, CoordinateMax]. The Missing
// sentinel (NaN) marks an absent answer.
type Coordinate float64

// Bounds of the normalized coordinate space.
const (
	CoordinateMin     Coordinate = -0.5
	CoordinateMax     Coordinate = 0.5
	CoordinateNeutral Coordinate = 0
	CoordinateExtent             = float64(CoordinateMax - CoordinateMin)
)

// MissingCoordinate returns the sentinel used for an absent coordinate.
func MissingCoordinate() Coordinate { return Coordinate(math.NaN()) }

// IsMissing reports whether c is the Missing sentinel.
func (c Coordinate) IsMissing() bool { return math.IsNaN(float64(c)) }

// MissingCoordinates returns n Missing coordinates.
func MissingCoordinates(n int) []Coordinate {
	coords := make([]Coordinate, n)
	for i := range coords {
		coords[i] = MissingCoordinate()
	}
	return coords
}

// ValidateCoordinate returns a DomainError if c is neither Missing nor
// within [CoordinateMin, CoordinateMax].
func ValidateCoordinate(c Coordinate) error {
	if c.IsMissing() {
		return nil
	}
	if math.IsInf(float64(c), 0) || c < CoordinateMin || c > CoordinateMax {
		return NewDomainError("", float64(c), "coordinate outside [-0.5, 0.5]")
	}
	return nil
}

// NormalizedDistance is an unsigned distance in [0, CoordinateExtent].
// Zero is a perfect match and CoordinateExtent maximal disagreement.
type NormalizedDistance float64

// MidpointDistance is returned when no dimension can be measured.
const MidpointDistance = NormalizedDistance(CoordinateExtent / 2)

// ClampDistance bounds d to [0, CoordinateExtent] to absorb floating point
// drift at the ends of the range.
func ClampDistance(d float64) NormalizedDistance {
	switch {
	case d < 0:
		return 0
	case d > CoordinateExtent:
		return NormalizedDistance(CoordinateExtent)
	default:
		return NormalizedDistance(d)
	}
}
