package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/openvaa/vaa-matching/internal/domain"
)

// RegisterConfigValidators registers the custom validation functions used
// in MatchingConfig struct tags with v.
// The metricname validator accepts names registered in metrics.
// RegisterConfigValidators returns an error if any registration fails.
func RegisterConfigValidators(v *validator.Validate, metrics *MetricRegistry) error {
	if err := v.RegisterValidation("semver", validateSemver); err != nil {
		return fmt.Errorf("failed to register semver validator: %w", err)
	}

	if err := v.RegisterValidation("metricname", func(fl validator.FieldLevel) bool {
		return metrics.Has(domain.MetricName(fl.Field().String()))
	}); err != nil {
		return fmt.Errorf("failed to register metricname validator: %w", err)
	}

	if err := v.RegisterValidation("missingmethod", validateMissingMethod); err != nil {
		return fmt.Errorf("failed to register missingmethod validator: %w", err)
	}

	if err := v.RegisterValidation("missingbias", validateMissingBias); err != nil {
		return fmt.Errorf("failed to register missingbias validator: %w", err)
	}

	return nil
}

// newConfigValidator returns a validator with the config validators
// registered against metrics.
func newConfigValidator(metrics *MetricRegistry) (*validator.Validate, error) {
	v := validator.New()
	if err := RegisterConfigValidators(v, metrics); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}
	return v, nil
}

// validateConfig checks cfg with v and reports every failed field as one
// ConfigurationError.
func validateConfig(v *validator.Validate, cfg *MatchingConfig) error {
	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	cfgErr := domain.NewConfigurationError("MatchingConfig")
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		cfgErr.AddError(err.Error())
		return cfgErr
	}
	for _, fe := range fieldErrs {
		cfgErr.AddErrorf("%s: failed %q (value %v)", strings.TrimPrefix(fe.Namespace(), "MatchingConfig."), fe.Tag(), fe.Value())
	}
	return cfgErr
}

// validateSemver validates that a string follows semantic versioning
// format (X.Y.Z where X, Y, Z are non-negative integers).
func validateSemver(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	var major, minor, patch int
	n, err := fmt.Sscanf(value, "%d.%d.%d", &major, &minor, &patch)
	return err == nil && n == 3 && major >= 0 && minor >= 0 && patch >= 0
}

// validateMissingMethod accepts the supported imputation methods.
func validateMissingMethod(fl validator.FieldLevel) bool {
	switch domain.MissingValueMethod(fl.Field().String()) {
	case domain.MissingNeutral, domain.MissingRelativeMaximum:
		return true
	default:
		return false
	}
}

// validateMissingBias accepts the supported relative maximum biases.
func validateMissingBias(fl validator.FieldLevel) bool {
	switch domain.MissingValueBias(fl.Field().String()) {
	case domain.BiasPositive, domain.BiasNegative:
		return true
	default:
		return false
	}
}
