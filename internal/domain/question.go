package domain

// MatchableQuestion translates a question's native answer values into the
// normalized coordinate space.
// Implementations must be deterministic and total over the question's
// legal value domain.
type MatchableQuestion interface {
	// ID returns the stable identifier of the question.
	ID() string

	// NormalizedDimensions returns the number of coordinates the question
	// contributes. It is 1 for scalar questions and larger for questions
	// modeled as one-hot sub-dimensions.
	NormalizedDimensions() int

	// NormalizeValue converts a raw answer value into exactly
	// NormalizedDimensions() coordinates.
	// A nil or MissingAnswer value yields Missing on every sub-dimension.
	// Values outside the question's legal domain return a *DomainError.
	NormalizeValue(raw any) ([]Coordinate, error)
}

// missingAnswer is the type of the MissingAnswer sentinel.
type missingAnswer struct{}

// String implements fmt.Stringer.
func (missingAnswer) String() string { return "<missing>" }

// MissingAnswer is the raw value denoting "no answer". A nil value is
// treated the same way.
var MissingAnswer any = missingAnswer{}

// IsMissingAnswer reports whether a raw answer value denotes no answer.
func IsMissingAnswer(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(missingAnswer)
	return ok
}

// Answer holds one entity's raw answer to one question.
type Answer struct {
	// Value is the question-specific raw value, nil or MissingAnswer.
	Value any `json:"value" yaml:"value"`
}

// Answers maps question ids to answers.
type Answers map[string]Answer

// Value returns the raw value for a question or MissingAnswer.
func (a Answers) Value(questionID string) any {
	ans, ok := a[questionID]
	if !ok || IsMissingAnswer(ans.Value) {
		return MissingAnswer
	}
	return ans.Value
}

// Has reports whether the question has a non-missing answer.
func (a Answers) Has(questionID string) bool {
	return !IsMissingAnswer(a.Value(questionID))
}

// Entity is anything that carries answers, such as a voter, a candidate
// or a party.
type Entity interface {
	Answers() Answers
}

// Respondent is a plain Entity implementation.
type Respondent struct {
	// ID identifies the respondent.
	ID string `json:"id" yaml:"id"`

	// Name is an optional display name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// AnswerSet holds the respondent's answers.
	AnswerSet Answers `json:"answers" yaml:"answers"`
}

// Answers implements Entity.
// A nil respondent has no answers.
func (r *Respondent) Answers() Answers {
	if r == nil {
		return nil
	}
	return r.AnswerSet
}

// QuestionGroup is a caller-declared subset of questions, such as a
// category, for which a separate sub-distance is computed.
type QuestionGroup struct {
	// ID identifies the group.
	ID string `json:"id"`

	// Label is an optional human-readable name.
	Label string `json:"label,omitempty"`

	// Questions lists the member questions.
	Questions []MatchableQuestion `json:"-"`
}
