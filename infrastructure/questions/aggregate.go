package questions

import (
	"fmt"
	"sort"

	"github.com/openvaa/vaa-matching/internal/domain"
)

var (
	_ domain.AnswerAggregator = MedianAggregator{}
	_ domain.AnswerAggregator = ModeAggregator{}
)

// MedianAggregator aggregates ordinal answers to their median. For an even
// number of values the lower of the two middle values is chosen, so the
// result is always one of the given answers.
type MedianAggregator struct{}

// Aggregate implements domain.AnswerAggregator.
func (MedianAggregator) Aggregate(question domain.MatchableQuestion, values []any) (any, error) {
	present := domain.PresentValues(values)
	if len(present) == 0 {
		return domain.MissingAnswer, nil
	}

	nums := make([]float64, len(present))
	for i, v := range present {
		if _, err := question.NormalizeValue(v); err != nil {
			return nil, err
		}
		f, ok := toFloat(v)
		if !ok {
			return nil, domain.NewDomainError(question.ID(), v, "median requires numeric answers")
		}
		nums[i] = f
	}

	order := make([]int, len(present))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return nums[order[a]] < nums[order[b]] })

	return present[order[(len(order)-1)/2]], nil
}

// ModeAggregator aggregates answers to the most common one. Answers are
// compared by their normalized coordinates, so "Yes" and "yes" count as the
// same answer on a case-insensitive question. Ties go to the value
// encountered first.
type ModeAggregator struct{}

// Aggregate implements domain.AnswerAggregator.
func (ModeAggregator) Aggregate(question domain.MatchableQuestion, values []any) (any, error) {
	present := domain.PresentValues(values)
	if len(present) == 0 {
		return domain.MissingAnswer, nil
	}

	counts := make(map[string]int, len(present))
	first := make(map[string]any, len(present))
	var keys []string
	for _, v := range present {
		coords, err := question.NormalizeValue(v)
		if err != nil {
			return nil, err
		}
		k := fmt.Sprint(coords)
		if _, seen := first[k]; !seen {
			first[k] = v
			keys = append(keys, k)
		}
		counts[k]++
	}

	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return first[best], nil
}

// AggregatorFor returns the aggregator suited to a question: the median for
// ordinal questions and the mode for everything else.
func AggregatorFor(question domain.MatchableQuestion) domain.AnswerAggregator {
	if _, ok := question.(*OrdinalQuestion); ok {
		return MedianAggregator{}
	}
	return ModeAggregator{}
}
