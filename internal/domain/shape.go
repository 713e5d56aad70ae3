package domain

import "slices"

// Shape lists the sub-dimension count of each top-level dimension.
// Scalar dimensions have a count of 1.
type Shape []int

// FlatShape returns a Shape of n scalar dimensions.
func FlatShape(n int) Shape {
	s := make(Shape, n)
	for i := range s {
		s[i] = 1
	}
	return s
}

// Equal reports whether both shapes are element-wise equal.
func (s Shape) Equal(other Shape) bool { return slices.Equal(s, other) }

// FlatLength returns the total number of sub-dimensions.
func (s Shape) FlatLength() int {
	n := 0
	for _, d := range s {
		n += d
	}
	return n
}

// Validate checks that every dimension has at least one sub-dimension.
func (s Shape) Validate() error {
	cfgErr := NewConfigurationError("Shape")
	for i, d := range s {
		if d < 1 {
			cfgErr.AddErrorf("dimension %d has non-positive size %d", i, d)
		}
	}
	return cfgErr.ErrOrNil()
}

// Flatten concatenates nested coordinates into a flat buffer.
func Flatten(coords [][]Coordinate) []Coordinate {
	n := 0
	for _, c := range coords {
		n += len(c)
	}
	flat := make([]Coordinate, 0, n)
	for _, c := range coords {
		flat = append(flat, c...)
	}
	return flat
}

// Reshape splits a flat buffer into nested coordinates according to shape.
// It fails if the lengths do not agree.
func Reshape(flat []Coordinate, shape Shape) ([][]Coordinate, error) {
	if shape.FlatLength() != len(flat) {
		return nil, NewConfigurationError("Shape",
			"flat length does not match shape")
	}
	out := make([][]Coordinate, len(shape))
	offset := 0
	for i, d := range shape {
		out[i] = slices.Clone(flat[offset : offset+d])
		offset += d
	}
	return out, nil
}

// ShapeOf returns the shape of nested coordinates.
func ShapeOf(coords [][]Coordinate) Shape {
	s := make(Shape, len(coords))
	for i, c := range coords {
		s[i] = len(c)
	}
	return s
}
