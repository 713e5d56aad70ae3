package application

import (
	"fmt"

	"github.com/openvaa/vaa-matching/infrastructure/questions"
	"github.com/openvaa/vaa-matching/internal/domain"
)

var _ domain.Entity = (*ParentProxy)(nil)

// ParentProxy stands in for a parent entity, such as a party, whose
// missing answers have been filled in from its children, such as the
// party's candidates. The parent itself is never modified.
type ParentProxy struct {
	parent  domain.Entity
	answers domain.Answers
}

// Answers implements domain.Entity.
func (p *ParentProxy) Answers() domain.Answers {
	if p == nil {
		return nil
	}
	return p.answers
}

// Unwrap returns the original parent entity.
func (p *ParentProxy) Unwrap() domain.Entity { return p.parent }

// AggregatorSelector picks the aggregator used for a question.
type AggregatorSelector func(question domain.MatchableQuestion) domain.AnswerAggregator

// ImputeOption configures ImputeParentAnswers.
type ImputeOption func(*imputeOptions)

type imputeOptions struct {
	selectAggregator AggregatorSelector
}

// WithAggregatorSelector overrides the default choice of aggregator,
// which is the median for ordinal questions and the mode otherwise.
func WithAggregatorSelector(sel AggregatorSelector) ImputeOption {
	return func(o *imputeOptions) { o.selectAggregator = sel }
}

// ImputeParentAnswers returns one proxy per parent, in order. Each proxy
// keeps the parent's own answers and fills every question the parent left
// unanswered by aggregating the answers of its children. If no child
// answered a question, the proxy's answer stays missing.
//
// Returns a ConfigurationError for nil entities and a DomainError if a
// child's answer is illegal for its question.
func ImputeParentAnswers(
	parents []domain.Entity,
	children map[domain.Entity][]domain.Entity,
	qs []domain.MatchableQuestion,
	opts ...ImputeOption,
) ([]*ParentProxy, error) {
	o := imputeOptions{selectAggregator: questions.AggregatorFor}
	for _, opt := range opts {
		opt(&o)
	}

	proxies := make([]*ParentProxy, len(parents))
	for i, parent := range parents {
		if parent == nil {
			return nil, domain.NewConfigurationError("ImputeParentAnswers", fmt.Sprintf("parent %d is nil", i))
		}

		own := parent.Answers()
		answers := make(domain.Answers, len(own)+len(qs))
		for id, a := range own {
			answers[id] = a
		}

		for _, q := range qs {
			if own.Has(q.ID()) {
				continue
			}
			values := make([]any, 0, len(children[parent]))
			for j, child := range children[parent] {
				if child == nil {
					return nil, domain.NewConfigurationError("ImputeParentAnswers",
						fmt.Sprintf("child %d of parent %d is nil", j, i))
				}
				values = append(values, child.Answers().Value(q.ID()))
			}
			v, err := o.selectAggregator(q).Aggregate(q, values)
			if err != nil {
				return nil, fmt.Errorf("imputing answer to %s for parent %d: %w", q.ID(), i, err)
			}
			if !domain.IsMissingAnswer(v) {
				answers[q.ID()] = domain.Answer{Value: v}
			}
		}

		proxies[i] = &ParentProxy{parent: parent, answers: answers}
	}
	return proxies, nil
}

// ProxyEntities converts proxies to entities for matching.
func ProxyEntities(proxies []*ParentProxy) []domain.Entity {
	out := make([]domain.Entity, len(proxies))
	for i, p := range proxies {
		out[i] = p
	}
	return out
}

// UnwrapProxies returns a copy of matches where every ParentProxy target is
// replaced by its original parent.
func UnwrapProxies(matches []domain.Match) []domain.Match {
	out := make([]domain.Match, len(matches))
	for i, m := range matches {
		if proxy, ok := m.Target.(*ParentProxy); ok {
			m.Target = proxy.Unwrap()
		}
		out[i] = m
	}
	return out
}
