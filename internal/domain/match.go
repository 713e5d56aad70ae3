package domain

import (
	"fmt"
	"math"
	"strconv"
)

// SubMatch is the distance between a reference and a target within one
// question group.
type SubMatch struct {
	// Distance is the normalized distance within the group.
	Distance NormalizedDistance `json:"distance"`

	// Group is the question group the distance was computed for.
	Group QuestionGroup `json:"group"`
}

// MatchFraction returns the agreement within the group in [0, 1].
func (s SubMatch) MatchFraction() float64 { return matchFraction(s.Distance) }

// Score returns the agreement within the group as a percentage.
func (s SubMatch) Score() int { return score(s.Distance) }

// Match is the result of matching a reference against one target.
type Match struct {
	// Distance is the global normalized distance.
	Distance NormalizedDistance `json:"distance"`

	// Target is the matched entity.
	Target Entity `json:"target"`

	// SubMatches holds one entry per declared question group, in the order
	// the groups were given. It is empty when no groups were declared.
	SubMatches []SubMatch `json:"sub_matches,omitempty"`
}

// MatchFraction returns the agreement in [0, 1], where 1 is a perfect match.
func (m Match) MatchFraction() float64 { return matchFraction(m.Distance) }

// Score returns the agreement rounded to an integer percentage.
func (m Match) Score() int { return score(m.Distance) }

// Format renders the match score using f.
func (m Match) Format(f ScoreFormat) string { return f.Format(m.MatchFraction()) }

func matchFraction(d NormalizedDistance) float64 {
	return (CoordinateExtent - float64(d)) / CoordinateExtent
}

func score(d NormalizedDistance) int {
	return int(math.Round(matchFraction(d) * 100))
}

// ScoreFormat controls how match fractions are rendered for display.
// It is supplied by the caller; the engine keeps no formatting state.
type ScoreFormat struct {
	// Multiplier scales the match fraction, e.g. 100 for percentages.
	Multiplier float64 `json:"multiplier" yaml:"multiplier" validate:"omitempty,gt=0"`

	// Unit is appended to the scaled value, e.g. "%".
	Unit string `json:"unit" yaml:"unit" validate:"max=16"`
}

// DefaultScoreFormat renders whole percentages.
func DefaultScoreFormat() ScoreFormat {
	return ScoreFormat{Multiplier: 100, Unit: "%"}
}

// OrDefault returns f with a zero Multiplier replaced by the default one.
// The default unit is used only when Unit is empty too.
func (f ScoreFormat) OrDefault() ScoreFormat {
	if f.Multiplier != 0 {
		return f
	}
	def := DefaultScoreFormat()
	if f.Unit != "" {
		def.Unit = f.Unit
	}
	return def
}

// Format renders a match fraction.
func (f ScoreFormat) Format(fraction float64) string {
	return fmt.Sprintf("%s%s", strconv.FormatFloat(math.Round(fraction*f.Multiplier), 'f', -1, 64), f.Unit)
}
