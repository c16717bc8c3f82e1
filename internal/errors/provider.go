package errors

import (
	stdErrors "errors"
	"fmt"
)

// ProviderError represents a transport-level or malformed-response failure
// from an external lookup or vision provider.
type ProviderError struct {
	Provider   string
	StatusCode int    // 0 when no HTTP response was received
	Detail     string // upstream error message, if any
	Err        error
}

func (e *ProviderError) Error() string {
	msg := e.Provider + " request failed"
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps a transport or decoding failure.
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

// NewProviderStatusError records a non-success HTTP response.
func NewProviderStatusError(provider string, statusCode int, detail string) *ProviderError {
	return &ProviderError{Provider: provider, StatusCode: statusCode, Detail: detail}
}

// IsProviderError checks if error is a ProviderError
func IsProviderError(err error) bool {
	var providerErr *ProviderError
	return stdErrors.As(err, &providerErr)
}
