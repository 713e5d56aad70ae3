package domain

// QuestionType names a question variant.
type QuestionType string

// Built-in question types.
const (
	QuestionOrdinal        QuestionType = "ordinal"
	QuestionLikert         QuestionType = "likert"
	QuestionCategorical    QuestionType = "categorical"
	QuestionBoolean        QuestionType = "boolean"
	QuestionMultipleChoice QuestionType = "multiple_choice"
)

// Choice is one enumerated answering option.
type Choice struct {
	// ID is the raw answer value selecting this choice.
	ID string `json:"id" yaml:"id" validate:"required"`

	// Label is an optional human-readable text.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// QuestionDefinition is the declarative description of a matchable
// question, as supplied by a question registry or a dataset file.
// Which fields are used depends on Type.
type QuestionDefinition struct {
	// ID is the stable question id.
	ID string `json:"id" yaml:"id" validate:"required,max=255"`

	// Type selects the question variant.
	Type QuestionType `json:"type" yaml:"type" validate:"required"`

	// Min and Max bound the native scale of ordinal questions.
	Min float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max float64 `json:"max,omitempty" yaml:"max,omitempty"`

	// Scale is the number of points on a Likert scale running from 1.
	Scale int `json:"scale,omitempty" yaml:"scale,omitempty" validate:"omitempty,min=2,max=100"`

	// Choices enumerates the options of categorical questions.
	Choices []Choice `json:"choices,omitempty" yaml:"choices,omitempty" validate:"omitempty,dive"`

	// CaseInsensitive makes choice ids match under Unicode case folding.
	CaseInsensitive bool `json:"case_insensitive,omitempty" yaml:"case_insensitive,omitempty"`

	// Category optionally assigns the question to a question group.
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}
