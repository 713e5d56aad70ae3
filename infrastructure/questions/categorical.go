package questions

import (
	"github.com/openvaa/vaa-matching/internal/domain"
)

var _ domain.MatchableQuestion = (*CategoricalQuestion)(nil)

// CategoricalQuestion is a single-choice question over unordered choices.
//
// With exactly two choices it occupies one dimension: the first choice maps
// to CoordinateMin and the second to CoordinateMax. With more choices each
// choice becomes its own sub-dimension, set to CoordinateMax when selected
// and CoordinateMin otherwise. Two different answers then differ on two of
// n sub-dimensions, so their distance on the question is 2/n of the extent.
type CategoricalQuestion struct {
	id      string
	choices choiceIndex
}

// CategoricalOption configures a CategoricalQuestion.
type CategoricalOption func(*categoricalOptions)

type categoricalOptions struct {
	caseInsensitive bool
}

// WithCaseInsensitiveChoices makes choice ids match under Unicode case
// folding, so "Yes" selects the choice "yes".
func WithCaseInsensitiveChoices() CategoricalOption {
	return func(o *categoricalOptions) { o.caseInsensitive = true }
}

// NewCategoricalQuestion creates a single-choice question.
// Returns a ConfigurationError if id is empty, there are fewer than two
// choices, or choice ids are empty or duplicated.
func NewCategoricalQuestion(id string, choiceIDs []string, opts ...CategoricalOption) (*CategoricalQuestion, error) {
	var o categoricalOptions
	for _, opt := range opts {
		opt(&o)
	}
	if id == "" {
		return nil, domain.NewConfigurationError("CategoricalQuestion", ErrEmptyQuestionID.Error())
	}
	idx, err := newChoiceIndex("CategoricalQuestion", choiceIDs, o.caseInsensitive)
	if err != nil {
		return nil, err
	}
	return &CategoricalQuestion{id: id, choices: idx}, nil
}

// ID implements domain.MatchableQuestion.
func (q *CategoricalQuestion) ID() string { return q.id }

// Choices returns a copy of the choice ids in order.
func (q *CategoricalQuestion) Choices() []string { return append([]string(nil), q.choices.ids...) }

// NormalizedDimensions implements domain.MatchableQuestion.
func (q *CategoricalQuestion) NormalizedDimensions() int {
	if q.choices.Len() == 2 {
		return 1
	}
	return q.choices.Len()
}

// NormalizeValue implements domain.MatchableQuestion.
func (q *CategoricalQuestion) NormalizeValue(raw any) ([]domain.Coordinate, error) {
	if domain.IsMissingAnswer(raw) {
		return domain.MissingCoordinates(q.NormalizedDimensions()), nil
	}
	pos, err := q.choices.lookup(q.id, raw)
	if err != nil {
		return nil, err
	}
	if q.choices.Len() == 2 {
		if pos == 0 {
			return []domain.Coordinate{domain.CoordinateMin}, nil
		}
		return []domain.Coordinate{domain.CoordinateMax}, nil
	}
	coords := make([]domain.Coordinate, q.choices.Len())
	for i := range coords {
		coords[i] = domain.CoordinateMin
	}
	coords[pos] = domain.CoordinateMax
	return coords, nil
}
