package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// firstAggregator returns the first present value.
type firstAggregator struct{}

func (firstAggregator) Aggregate(_ MatchableQuestion, values []any) (any, error) {
	present := PresentValues(values)
	if len(present) == 0 {
		return MissingAnswer, nil
	}
	return present[0], nil
}

var _ AnswerAggregator = firstAggregator{}

func TestPresentValues(t *testing.T) {
	tests := []struct {
		name   string
		values []any
		want   []any
	}{
		{name: "empty", values: nil, want: []any{}},
		{name: "all missing", values: []any{nil, MissingAnswer}, want: []any{}},
		{name: "keeps order", values: []any{nil, 3, MissingAnswer, 1, "a"}, want: []any{3, 1, "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PresentValues(tt.values))
		})
	}
}

func TestAnswerAggregatorContract(t *testing.T) {
	var agg AnswerAggregator = firstAggregator{}

	got, err := agg.Aggregate(nil, []any{nil, MissingAnswer})
	assert.NoError(t, err)
	assert.True(t, IsMissingAnswer(got), "no present values must aggregate to missing")

	got, err = agg.Aggregate(nil, []any{MissingAnswer, 2, 5})
	assert.NoError(t, err)
	assert.Equal(t, 2, got)
}
