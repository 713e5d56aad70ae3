// Package questions provides the concrete MatchableQuestion variants that
// translate native answer values into normalized coordinates.
package questions

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"

	"github.com/openvaa/vaa-matching/internal/domain"
)

// Common errors returned when constructing questions.
var (
	// ErrEmptyQuestionID is returned when a question is created without an id.
	ErrEmptyQuestionID = errors.New("question id cannot be empty")

	// ErrTooFewChoices is returned when a choice question has fewer than two choices.
	ErrTooFewChoices = errors.New("at least two choices are required")
)

// Package-level validator instance for definition validation.
var validate = validator.New()

// toFloat converts a numeric raw value to float64. It accepts every Go
// integer and float kind plus json.Number, and rejects NaN and infinities.
func toFloat(raw any) (float64, bool) {
	var v float64
	switch n := raw.(type) {
	case int:
		v = float64(n)
	case int8:
		v = float64(n)
	case int16:
		v = float64(n)
	case int32:
		v = float64(n)
	case int64:
		v = float64(n)
	case uint:
		v = float64(n)
	case uint8:
		v = float64(n)
	case uint16:
		v = float64(n)
	case uint32:
		v = float64(n)
	case uint64:
		v = float64(n)
	case float32:
		v = float64(n)
	case float64:
		v = n
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// choiceIndex maps choice ids to their positions, optionally under Unicode
// case folding.
type choiceIndex struct {
	ids             []string
	positions       map[string]int
	caseInsensitive bool
}

func newChoiceIndex(entity string, ids []string, caseInsensitive bool) (choiceIndex, error) {
	cfgErr := domain.NewConfigurationError(entity)
	if len(ids) < 2 {
		cfgErr.AddError(ErrTooFewChoices.Error())
	}

	idx := choiceIndex{
		ids:             append([]string(nil), ids...),
		positions:       make(map[string]int, len(ids)),
		caseInsensitive: caseInsensitive,
	}
	for i, id := range ids {
		if id == "" {
			cfgErr.AddErrorf("choice %d has an empty id", i)
			continue
		}
		key := idx.key(id)
		if _, dup := idx.positions[key]; dup {
			cfgErr.AddErrorf("duplicate choice id %q", id)
			continue
		}
		idx.positions[key] = i
	}
	if err := cfgErr.ErrOrNil(); err != nil {
		return choiceIndex{}, err
	}
	return idx, nil
}

func (c choiceIndex) key(id string) string {
	if !c.caseInsensitive {
		return id
	}
	// A Caser is stateful, so a fresh one is used per call.
	return cases.Fold().String(id)
}

// lookup returns the position of a raw choice id or a DomainError naming
// the closest known choice.
func (c choiceIndex) lookup(questionID string, raw any) (int, error) {
	id, ok := raw.(string)
	if !ok {
		return 0, domain.NewDomainError(questionID, raw, fmt.Sprintf("expected a choice id string, got %T", raw))
	}
	if pos, ok := c.positions[c.key(id)]; ok {
		return pos, nil
	}
	err := domain.NewDomainError(questionID, id, "unknown choice")
	err.Suggestion = c.closest(id)
	return 0, err
}

// closest returns the choice id with the smallest edit distance to id, or
// "" if none is reasonably close.
func (c choiceIndex) closest(id string) string {
	key := c.key(id)
	best, bestDist := "", math.MaxInt
	for _, choice := range c.ids {
		d := levenshtein.ComputeDistance(key, c.key(choice))
		if d < bestDist {
			best, bestDist = choice, d
		}
	}
	if bestDist > max(2, utf8.RuneCountInString(best)/2) {
		return ""
	}
	return best
}

// Len returns the number of choices.
func (c choiceIndex) Len() int { return len(c.ids) }
