package domain

import (
	"fmt"
	"slices"
)

// Position is a point in a MatchingSpace: one Coordinate (or Missing) per
// sub-dimension, stored as a flat buffer. Positions are immutable.
type Position struct {
	flat  []Coordinate
	space *MatchingSpace
}

// NewPosition creates a Position from nested coordinates, one slice per
// top-level dimension of space.
// Returns a ConfigurationError on a shape mismatch and a DomainError if a
// coordinate lies outside the valid range.
func NewPosition(space *MatchingSpace, coords [][]Coordinate) (Position, error) {
	if space == nil {
		return Position{}, NewConfigurationError("Position", "space is nil")
	}
	if !space.shape.Equal(ShapeOf(coords)) {
		return Position{}, NewConfigurationError("Position",
			fmt.Sprintf("coordinates shape %v does not match space shape %v", ShapeOf(coords), space.shape))
	}
	return newFlatPosition(space, Flatten(coords))
}

// NewFlatPosition creates a Position from a flat coordinate buffer.
func NewFlatPosition(space *MatchingSpace, flat []Coordinate) (Position, error) {
	if space == nil {
		return Position{}, NewConfigurationError("Position", "space is nil")
	}
	if len(flat) != space.shape.FlatLength() {
		return Position{}, NewConfigurationError("Position",
			fmt.Sprintf("%d coordinates given for a space of %d sub-dimensions", len(flat), space.shape.FlatLength()))
	}
	return newFlatPosition(space, slices.Clone(flat))
}

func newFlatPosition(space *MatchingSpace, flat []Coordinate) (Position, error) {
	for _, c := range flat {
		if err := ValidateCoordinate(c); err != nil {
			return Position{}, err
		}
	}
	return Position{flat: flat, space: space}, nil
}

// Space returns the space the position belongs to.
func (p Position) Space() *MatchingSpace { return p.space }

// Shape returns the shape of the position's space.
func (p Position) Shape() Shape { return p.space.Shape() }

// Flat returns a copy of the flat coordinate buffer.
func (p Position) Flat() []Coordinate { return slices.Clone(p.flat) }

// Len returns the number of flat coordinates.
func (p Position) Len() int { return len(p.flat) }

// At returns the flat coordinate at index i.
func (p Position) At(i int) Coordinate { return p.flat[i] }

// Coordinates returns the coordinates reshaped to the space's shape.
func (p Position) Coordinates() [][]Coordinate {
	// The buffer length is checked on construction.
	nested, _ := Reshape(p.flat, p.space.shape)
	return nested
}

// MissingCount returns the number of Missing flat coordinates.
func (p Position) MissingCount() int {
	n := 0
	for _, c := range p.flat {
		if c.IsMissing() {
			n++
		}
	}
	return n
}

// WithFlat returns a new Position in the same space with the given flat
// coordinates.
func (p Position) WithFlat(flat []Coordinate) (Position, error) {
	return NewFlatPosition(p.space, flat)
}
