package domain

// AnswerAggregator combines several entities' raw answers to one question
// into a single raw answer. It is used to derive answers for parent
// entities, such as parties, from the answers of their members.
// Implementations provide different strategies such as the median for
// ordinal questions or the mode for categorical questions.
type AnswerAggregator interface {
	// Aggregate combines the values into one raw answer for question.
	// Missing values are ignored. If no value is present the result is
	// MissingAnswer.
	//
	// Returns a DomainError if a present value is illegal for the question.
	Aggregate(question MatchableQuestion, values []any) (any, error)
}

// PresentValues returns the values that are not missing, keeping their
// order.
func PresentValues(values []any) []any {
	present := make([]any, 0, len(values))
	for _, v := range values {
		if !IsMissingAnswer(v) {
			present = append(present, v)
		}
	}
	return present
}
