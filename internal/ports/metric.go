// Package ports defines the core interfaces that form the contract between
// the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import "github.com/openvaa/vaa-matching/internal/domain"

// DistanceMetric measures the normalized distance between two positions.
// Implementations must be pure and safe for concurrent use.
type DistanceMetric interface {
	// Name returns the identifier of the metric, e.g. "manhattan".
	Name() domain.MetricName

	// Distance measures the distance between a and b in space, whose
	// weights are applied to the top-level dimensions. If space is nil,
	// a's space is used. All three shapes must be compatible.
	//
	// When allowMissing is true, flat dimensions where either coordinate is
	// Missing are skipped; otherwise they are a configuration error. If no
	// dimension remains (or all remaining weights are zero) the result is
	// domain.MidpointDistance.
	//
	// The result is always within [0, domain.CoordinateExtent] and is 0
	// when a and b coincide on every measured dimension.
	Distance(a, b domain.Position, space *domain.MatchingSpace, allowMissing bool) (domain.NormalizedDistance, error)
}

// Projector maps positions from one matching space to another, possibly
// lower-dimensional, one. The reference position is always the first
// element of both the input and the output.
type Projector interface {
	Project(positions []domain.Position) ([]domain.Position, error)
}

// QuestionFactory creates a MatchableQuestion from a definition.
type QuestionFactory func(def domain.QuestionDefinition) (domain.MatchableQuestion, error)

// QuestionRegistry creates MatchableQuestions from declarative definitions.
// Implementations must be safe for concurrent use.
type QuestionRegistry interface {
	// CreateQuestion looks up the factory for def.Type and delegates to it.
	CreateQuestion(def domain.QuestionDefinition) (domain.MatchableQuestion, error)

	// RegisterFactory registers a factory for a question type, replacing
	// any existing one.
	RegisterFactory(questionType domain.QuestionType, factory QuestionFactory) error
}
