package questions

import (
	"fmt"

	"github.com/openvaa/vaa-matching/internal/domain"
)

var _ domain.MatchableQuestion = (*MultipleChoiceQuestion)(nil)

// MultipleChoiceQuestion is a multi-select question over unordered choices.
// Every choice is its own sub-dimension: CoordinateMax when selected,
// CoordinateMin otherwise. An empty selection is a legal answer and is
// different from a missing one.
type MultipleChoiceQuestion struct {
	id      string
	choices choiceIndex
}

// NewMultipleChoiceQuestion creates a multi-select question. It accepts the
// same options as NewCategoricalQuestion.
func NewMultipleChoiceQuestion(id string, choiceIDs []string, opts ...CategoricalOption) (*MultipleChoiceQuestion, error) {
	var o categoricalOptions
	for _, opt := range opts {
		opt(&o)
	}
	if id == "" {
		return nil, domain.NewConfigurationError("MultipleChoiceQuestion", ErrEmptyQuestionID.Error())
	}
	idx, err := newChoiceIndex("MultipleChoiceQuestion", choiceIDs, o.caseInsensitive)
	if err != nil {
		return nil, err
	}
	return &MultipleChoiceQuestion{id: id, choices: idx}, nil
}

// ID implements domain.MatchableQuestion.
func (q *MultipleChoiceQuestion) ID() string { return q.id }

// Choices returns a copy of the choice ids in order.
func (q *MultipleChoiceQuestion) Choices() []string { return append([]string(nil), q.choices.ids...) }

// NormalizedDimensions implements domain.MatchableQuestion.
func (q *MultipleChoiceQuestion) NormalizedDimensions() int { return q.choices.Len() }

// NormalizeValue implements domain.MatchableQuestion. The raw value is a
// []string or a []any holding choice id strings.
func (q *MultipleChoiceQuestion) NormalizeValue(raw any) ([]domain.Coordinate, error) {
	if domain.IsMissingAnswer(raw) {
		return domain.MissingCoordinates(q.choices.Len()), nil
	}
	selected, err := selection(q.id, raw)
	if err != nil {
		return nil, err
	}

	coords := make([]domain.Coordinate, q.choices.Len())
	for i := range coords {
		coords[i] = domain.CoordinateMin
	}
	for _, id := range selected {
		pos, err := q.choices.lookup(q.id, id)
		if err != nil {
			return nil, err
		}
		if coords[pos] == domain.CoordinateMax {
			return nil, domain.NewDomainError(q.id, raw, fmt.Sprintf("choice %q selected more than once", id))
		}
		coords[pos] = domain.CoordinateMax
	}
	return coords, nil
}

// selection converts a raw multi-select value to choice ids.
func selection(questionID string, raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		ids := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, domain.NewDomainError(questionID, raw, fmt.Sprintf("selection %d is %T, not a choice id string", i, item))
			}
			ids[i] = s
		}
		return ids, nil
	default:
		return nil, domain.NewDomainError(questionID, raw, fmt.Sprintf("expected a list of choice ids, got %T", raw))
	}
}
