package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrNotFound is returned when no candidate produced a result, or when a
// catalog record does not exist. It is an outcome, not a failure.
var ErrNotFound = stdErrors.New("not found")

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return stdErrors.Is(err, ErrNotFound)
}

// ConfigurationError represents a missing or invalid deployment setting,
// such as an absent API credential.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("configuration error: %s %s", e.Setting, e.Reason)
	}
	return fmt.Sprintf("configuration error: %s is not configured", e.Setting)
}

// NewConfigurationError creates a ConfigurationError for the given setting.
func NewConfigurationError(setting string) *ConfigurationError {
	return &ConfigurationError{Setting: setting}
}

// IsConfigurationError reports whether err is a ConfigurationError (even when wrapped).
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return stdErrors.As(err, &cfgErr)
}

// ValidationError represents a caller request missing or malforming a required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Field + " is required"
}

// NewValidationError creates a ValidationError for a missing field.
func NewValidationError(field string) *ValidationError {
	return &ValidationError{Field: field}
}

// NewInvalidFieldError creates a ValidationError for a malformed field.
func NewInvalidFieldError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is a ValidationError (even when wrapped).
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return stdErrors.As(err, &valErr)
}

// As re-exports the standard library errors.As.
func As(err error, target any) bool {
	return stdErrors.As(err, target)
}
