package questions

import (
	"fmt"
	"math"

	"github.com/openvaa/vaa-matching/internal/domain"
)

var _ domain.MatchableQuestion = (*OrdinalQuestion)(nil)

// OrdinalQuestion is a question answered on a numeric scale, such as a
// Likert scale. Values in [min, max] map linearly onto
// [CoordinateMin, CoordinateMax].
//
// Concurrency: OrdinalQuestion is immutable and safe for concurrent use.
type OrdinalQuestion struct {
	id  string
	min float64
	max float64
}

// NewOrdinalQuestion creates an ordinal question over [min, max].
// Returns a ConfigurationError if id is empty, either bound is not finite
// or min is not below max.
func NewOrdinalQuestion(id string, min, max float64) (*OrdinalQuestion, error) {
	cfgErr := domain.NewConfigurationError("OrdinalQuestion")
	if id == "" {
		cfgErr.AddError(ErrEmptyQuestionID.Error())
	}
	if math.IsNaN(min) || math.IsInf(min, 0) || math.IsNaN(max) || math.IsInf(max, 0) {
		cfgErr.AddErrorf("bounds must be finite, got [%v, %v]", min, max)
	} else if min >= max {
		cfgErr.AddErrorf("min %v must be below max %v", min, max)
	}
	if err := cfgErr.ErrOrNil(); err != nil {
		return nil, err
	}
	return &OrdinalQuestion{id: id, min: min, max: max}, nil
}

// NewLikertQuestion creates an ordinal question answered with the integers
// 1 to scale.
func NewLikertQuestion(id string, scale int) (*OrdinalQuestion, error) {
	if scale < 2 {
		return nil, domain.NewConfigurationError("OrdinalQuestion",
			fmt.Sprintf("likert scale must have at least 2 points, got %d", scale))
	}
	return NewOrdinalQuestion(id, 1, float64(scale))
}

// ID implements domain.MatchableQuestion.
func (q *OrdinalQuestion) ID() string { return q.id }

// NormalizedDimensions implements domain.MatchableQuestion.
func (q *OrdinalQuestion) NormalizedDimensions() int { return 1 }

// Bounds returns the native scale of the question.
func (q *OrdinalQuestion) Bounds() (min, max float64) { return q.min, q.max }

// NormalizeValue implements domain.MatchableQuestion.
func (q *OrdinalQuestion) NormalizeValue(raw any) ([]domain.Coordinate, error) {
	if domain.IsMissingAnswer(raw) {
		return domain.MissingCoordinates(1), nil
	}
	v, err := q.value(raw)
	if err != nil {
		return nil, err
	}
	c := domain.CoordinateMin + domain.Coordinate((v-q.min)/(q.max-q.min)*domain.CoordinateExtent)
	return []domain.Coordinate{c}, nil
}

// value checks that raw is a number within the question's bounds.
func (q *OrdinalQuestion) value(raw any) (float64, error) {
	v, ok := toFloat(raw)
	if !ok {
		return 0, domain.NewDomainError(q.id, raw, fmt.Sprintf("expected a finite number, got %T", raw))
	}
	if v < q.min || v > q.max {
		return 0, domain.NewDomainError(q.id, raw, fmt.Sprintf("value outside [%v, %v]", q.min, q.max))
	}
	return v, nil
}
