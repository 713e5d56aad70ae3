package domain

import (
	"errors"
	"fmt"
)

// Common domain errors that can occur during matching operations.
// The typed errors below match these sentinels with errors.Is.
var (
	// ErrConfiguration indicates a structurally invalid setup, such as empty
	// question lists, duplicate ids or incompatible shapes.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrDomain indicates that a value lies outside its legal domain.
	ErrDomain = errors.New("value outside domain")

	// ErrInsufficientData indicates that the reference has no usable answers.
	ErrInsufficientData = errors.New("insufficient data")
)

// ConfigurationError represents a structurally invalid setup.
// It can contain multiple validation failures for the same entity.
type ConfigurationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ConfigurationError.
func (e *ConfigurationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("configuration errors for %s: %v", e.Entity, e.Errors)
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// AddError adds a new error message to the configuration error.
func (e *ConfigurationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// AddErrorf adds a formatted error message to the configuration error.
func (e *ConfigurationError) AddErrorf(format string, args ...any) {
	e.AddError(fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any validation errors.
func (e *ConfigurationError) HasErrors() bool { return len(e.Errors) > 0 }

// ErrOrNil returns e if it has collected any errors and nil otherwise.
func (e *ConfigurationError) ErrOrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// NewConfigurationError creates a ConfigurationError for the given entity
// with optional initial messages.
func NewConfigurationError(entity string, msgs ...string) *ConfigurationError {
	return &ConfigurationError{
		Entity: entity,
		Errors: append(make([]string, 0, len(msgs)), msgs...),
	}
}

// DomainError represents a value outside a question's (or the coordinate
// space's) legal domain.
type DomainError struct {
	// QuestionID is the question whose value was rejected. It is empty for
	// errors raised on raw coordinates.
	QuestionID string

	// Value is the rejected value.
	Value any

	// Reason describes the violated constraint.
	Reason string

	// Suggestion optionally names the closest legal value.
	Suggestion string
}

// Error implements the error interface for DomainError.
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("domain error: value=%v, reason=%s", e.Value, e.Reason)
	if e.QuestionID != "" {
		msg = fmt.Sprintf("domain error: question=%s, value=%v, reason=%s", e.QuestionID, e.Value, e.Reason)
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// Is reports whether target is ErrDomain.
func (e *DomainError) Is(target error) bool { return target == ErrDomain }

// NewDomainError creates a new DomainError with the given details.
func NewDomainError(questionID string, value any, reason string) *DomainError {
	return &DomainError{
		QuestionID: questionID,
		Value:      value,
		Reason:     reason,
	}
}

// InsufficientDataError is returned when the reference has not answered
// any of the supplied questions.
type InsufficientDataError struct {
	// Requested is the number of questions supplied to the run.
	Requested int

	// Answered is the number of those the reference answered.
	Answered int
}

// Error implements the error interface for InsufficientDataError.
func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: reference answered %d of %d questions", e.Answered, e.Requested)
}

// Is reports whether target is ErrInsufficientData.
func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }
