// Package testutils provides utilities for testing, including fixtures and
// synthetic election generators. These components are intended for internal
// use within the project's test suites and tools and are not part of the
// public API.
package testutils

import (
	"fmt"

	"github.com/openvaa/vaa-matching/internal/domain"
)

// LikertDefinitions returns n Likert question definitions with the given
// scale, with ids q1..qn.
func LikertDefinitions(n, scale int) []domain.QuestionDefinition {
	defs := make([]domain.QuestionDefinition, n)
	for i := range defs {
		defs[i] = domain.QuestionDefinition{
			ID:    fmt.Sprintf("q%d", i+1),
			Type:  domain.QuestionLikert,
			Scale: scale,
		}
	}
	return defs
}

// NewRespondent returns a respondent answering question q<i+1> with
// values[i]. A nil value leaves the question unanswered.
func NewRespondent(id string, values ...any) *domain.Respondent {
	answers := make(domain.Answers, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		answers[fmt.Sprintf("q%d", i+1)] = domain.Answer{Value: v}
	}
	return &domain.Respondent{ID: id, Name: id, AnswerSet: answers}
}

// Entities converts respondents to entities.
func Entities(rs ...*domain.Respondent) []domain.Entity {
	out := make([]domain.Entity, len(rs))
	for i, r := range rs {
		out[i] = r
	}
	return out
}
