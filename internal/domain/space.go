package domain

import (
	"math"
	"slices"
)

// Shaped is implemented by anything with a Shape.
type Shaped interface {
	Shape() Shape
}

// MatchingSpace is the coordinate system shared by a reference and all
// targets in one matching run. Each top-level dimension has a weight;
// sub-dimensions share their parent's weight.
type MatchingSpace struct {
	shape   Shape
	weights []float64
}

// NewMatchingSpace creates a space with the given shape. A nil weights
// slice means uniform weight 1.
// Returns a ConfigurationError if the shape is invalid, the weights do not
// match the shape or any weight is negative or not finite.
func NewMatchingSpace(shape Shape, weights []float64) (*MatchingSpace, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if weights == nil {
		weights = make([]float64, len(shape))
		for i := range weights {
			weights[i] = 1
		}
	}

	cfgErr := NewConfigurationError("MatchingSpace")
	if len(weights) != len(shape) {
		cfgErr.AddErrorf("shape has %d dimensions but %d weights were given", len(shape), len(weights))
	}
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			cfgErr.AddErrorf("weight %d is invalid: %v", i, w)
		}
	}
	if err := cfgErr.ErrOrNil(); err != nil {
		return nil, err
	}

	return &MatchingSpace{
		shape:   slices.Clone(shape),
		weights: slices.Clone(weights),
	}, nil
}

// SpaceFromQuestions creates a space with one dimension per question.
// questionWeights may cover any subset of the questions; the rest default
// to 1. Weights cannot be given for sub-dimensions.
func SpaceFromQuestions(questions []MatchableQuestion, questionWeights map[string]float64) (*MatchingSpace, error) {
	shape := make(Shape, len(questions))
	weights := make([]float64, len(questions))
	for i, q := range questions {
		shape[i] = q.NormalizedDimensions()
		weights[i] = 1
		if w, ok := questionWeights[q.ID()]; ok {
			weights[i] = w
		}
	}
	return NewMatchingSpace(shape, weights)
}

// Subspace creates a space compatible with the one defined by questions,
// where the dimensions of questions in subset have weight 1 and all others
// weight 0. Questions in subset that are not among questions are ignored.
func Subspace(questions []MatchableQuestion, subset []MatchableQuestion) (*MatchingSpace, error) {
	ids := make(map[string]struct{}, len(subset))
	for _, q := range subset {
		ids[q.ID()] = struct{}{}
	}
	weights := make(map[string]float64, len(questions))
	for _, q := range questions {
		if _, ok := ids[q.ID()]; !ok {
			weights[q.ID()] = 0
		}
	}
	return SpaceFromQuestions(questions, weights)
}

// Shape returns a copy of the space's shape.
func (s *MatchingSpace) Shape() Shape { return slices.Clone(s.shape) }

// Weights returns a copy of the top-level dimension weights.
func (s *MatchingSpace) Weights() []float64 { return slices.Clone(s.weights) }

// Dimensions returns the number of top-level dimensions.
func (s *MatchingSpace) Dimensions() int { return len(s.shape) }

// IsCompatible reports whether other has the same shape. Weights may differ.
func (s *MatchingSpace) IsCompatible(other Shaped) bool {
	return s.shape.Equal(other.Shape())
}

// FlatWeights expands the top-level weights to one weight per flat
// sub-dimension. subdimWeight receives the sub-dimension count and returns
// the multiplier applied to each of them.
func (s *MatchingSpace) FlatWeights(subdimWeight func(n int) float64) []float64 {
	flat := make([]float64, 0, s.shape.FlatLength())
	for i, d := range s.shape {
		w := s.weights[i]
		if d == 1 {
			flat = append(flat, w)
			continue
		}
		w *= subdimWeight(d)
		for range d {
			flat = append(flat, w)
		}
	}
	return flat
}
