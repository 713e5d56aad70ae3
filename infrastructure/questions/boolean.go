package questions

import (
	"fmt"

	"github.com/openvaa/vaa-matching/internal/domain"
)

var _ domain.MatchableQuestion = (*BooleanQuestion)(nil)

// BooleanQuestion is a yes/no question: false maps to CoordinateMin and
// true to CoordinateMax.
type BooleanQuestion struct {
	id string
}

// NewBooleanQuestion creates a boolean question.
func NewBooleanQuestion(id string) (*BooleanQuestion, error) {
	if id == "" {
		return nil, domain.NewConfigurationError("BooleanQuestion", ErrEmptyQuestionID.Error())
	}
	return &BooleanQuestion{id: id}, nil
}

// ID implements domain.MatchableQuestion.
func (q *BooleanQuestion) ID() string { return q.id }

// NormalizedDimensions implements domain.MatchableQuestion.
func (q *BooleanQuestion) NormalizedDimensions() int { return 1 }

// NormalizeValue implements domain.MatchableQuestion.
func (q *BooleanQuestion) NormalizeValue(raw any) ([]domain.Coordinate, error) {
	if domain.IsMissingAnswer(raw) {
		return domain.MissingCoordinates(1), nil
	}
	b, ok := raw.(bool)
	if !ok {
		return nil, domain.NewDomainError(q.id, raw, fmt.Sprintf("expected a bool, got %T", raw))
	}
	if b {
		return []domain.Coordinate{domain.CoordinateMax}, nil
	}
	return []domain.Coordinate{domain.CoordinateMin}, nil
}
