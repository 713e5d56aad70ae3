package questions

import (
	"fmt"
	"slices"
	"sync"

	"github.com/openvaa/vaa-matching/internal/domain"
	"github.com/openvaa/vaa-matching/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.QuestionRegistry = (*Registry)(nil)

// Registry creates questions from declarative definitions using one
// factory per question type. It comes with factories for the built-in
// types and can be extended with RegisterFactory.
type Registry struct {
	// factories maps question types to their factory functions.
	factories map[domain.QuestionType]ports.QuestionFactory
	// mu protects concurrent access to the factories map.
	mu sync.RWMutex
}

// NewRegistry creates a registry with the built-in question types
// registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[domain.QuestionType]ports.QuestionFactory)}
	r.registerBuiltinFactories()
	return r
}

func (r *Registry) registerBuiltinFactories() {
	r.factories[domain.QuestionOrdinal] = func(def domain.QuestionDefinition) (domain.MatchableQuestion, error) {
		return NewOrdinalQuestion(def.ID, def.Min, def.Max)
	}

	r.factories[domain.QuestionLikert] = func(def domain.QuestionDefinition) (domain.MatchableQuestion, error) {
		return NewLikertQuestion(def.ID, def.Scale)
	}

	r.factories[domain.QuestionCategorical] = func(def domain.QuestionDefinition) (domain.MatchableQuestion, error) {
		return NewCategoricalQuestion(def.ID, choiceIDs(def.Choices), choiceOptions(def)...)
	}

	r.factories[domain.QuestionBoolean] = func(def domain.QuestionDefinition) (domain.MatchableQuestion, error) {
		return NewBooleanQuestion(def.ID)
	}

	r.factories[domain.QuestionMultipleChoice] = func(def domain.QuestionDefinition) (domain.MatchableQuestion, error) {
		return NewMultipleChoiceQuestion(def.ID, choiceIDs(def.Choices), choiceOptions(def)...)
	}
}

func choiceIDs(choices []domain.Choice) []string {
	ids := make([]string, len(choices))
	for i, c := range choices {
		ids[i] = c.ID
	}
	return ids
}

func choiceOptions(def domain.QuestionDefinition) []CategoricalOption {
	if def.CaseInsensitive {
		return []CategoricalOption{WithCaseInsensitiveChoices()}
	}
	return nil
}

// CreateQuestion validates def and delegates to the factory registered for
// its type.
func (r *Registry) CreateQuestion(def domain.QuestionDefinition) (domain.MatchableQuestion, error) {
	if err := validate.Struct(def); err != nil {
		return nil, domain.NewConfigurationError("QuestionDefinition",
			fmt.Sprintf("question %q: %v", def.ID, err))
	}

	r.mu.RLock()
	factory, exists := r.factories[def.Type]
	r.mu.RUnlock()

	if !exists {
		return nil, domain.NewConfigurationError("QuestionDefinition",
			fmt.Sprintf("question %q: unsupported question type %q", def.ID, def.Type))
	}

	q, err := factory(def)
	if err != nil {
		return nil, fmt.Errorf("failed to create question %s of type %s: %w", def.ID, def.Type, err)
	}
	return q, nil
}

// CreateQuestions creates one question per definition, in order.
// Duplicate ids are a ConfigurationError.
func (r *Registry) CreateQuestions(defs []domain.QuestionDefinition) ([]domain.MatchableQuestion, error) {
	seen := make(map[string]struct{}, len(defs))
	out := make([]domain.MatchableQuestion, 0, len(defs))
	for _, def := range defs {
		if _, dup := seen[def.ID]; dup {
			return nil, domain.NewConfigurationError("QuestionDefinition",
				fmt.Sprintf("duplicate question id %q", def.ID))
		}
		seen[def.ID] = struct{}{}

		q, err := r.CreateQuestion(def)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// RegisterFactory registers a factory for a question type. An existing
// factory for the type is replaced.
func (r *Registry) RegisterFactory(questionType domain.QuestionType, factory ports.QuestionFactory) error {
	if questionType == "" {
		return fmt.Errorf("question type cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[questionType] = factory
	return nil
}

// SupportedTypes returns the registered question types in sorted order.
func (r *Registry) SupportedTypes() []domain.QuestionType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]domain.QuestionType, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
