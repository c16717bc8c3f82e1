package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
	"time"
)

func TestRateLimitError(t *testing.T) {
	err := NewRateLimitError("slow down")

	if err.Error() != "slow down" {
		t.Fatalf("Error message = %q, want %q", err.Error(), "slow down")
	}

	if !IsRateLimitError(err) {
		t.Fatalf("IsRateLimitError returned false for RateLimitError")
	}

	wrapped := stdErrors.Join(err)
	if !IsRateLimitError(wrapped) {
		t.Fatalf("IsRateLimitError returned false for wrapped RateLimitError")
	}
}

func TestRateLimitErrorWithRetry(t *testing.T) {
	tests := []struct {
		name            string
		duration        time.Duration
		expectedMessage string
	}{
		{name: "zero", duration: 0, expectedMessage: "rate limited"},
		{name: "1 second", duration: time.Second, expectedMessage: "rate limited (retry after 1s)"},
		{name: "2 minutes", duration: 2 * time.Minute, expectedMessage: "rate limited (retry after 2m0s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRateLimitErrorWithRetry("rate limited", tt.duration)
			if err.Error() != tt.expectedMessage {
				t.Fatalf("Error message = %q, want %q", err.Error(), tt.expectedMessage)
			}
		})
	}
}

func TestProviderError_StatusAndDetail(t *testing.T) {
	err := NewProviderStatusError("MusicBrainz", 503, "service busy")

	expected := "MusicBrainz request failed (HTTP 503): service busy"
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}
	if !IsProviderError(err) {
		t.Fatalf("IsProviderError returned false for ProviderError")
	}
}

func TestProviderError_UnwrapsCause(t *testing.T) {
	cause := NewRateLimitError("too many requests")
	err := NewProviderError("UPCitemdb", cause)

	if !IsRateLimitError(err) {
		t.Fatalf("expected wrapped RateLimitError to be visible through ProviderError")
	}
	if err.Error() != "UPCitemdb request failed: too many requests" {
		t.Fatalf("Error message = %q", err.Error())
	}

	wrapped := fmt.Errorf("lookup: %w", err)
	if !IsProviderError(wrapped) {
		t.Fatalf("IsProviderError returned false for wrapped ProviderError")
	}
}

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("vision.api_key")

	if err.Error() != "configuration error: vision.api_key is not configured" {
		t.Fatalf("Error message = %q", err.Error())
	}
	if !IsConfigurationError(fmt.Errorf("photo: %w", err)) {
		t.Fatalf("IsConfigurationError returned false for wrapped ConfigurationError")
	}
	if IsProviderError(err) {
		t.Fatalf("ConfigurationError must not be classified as ProviderError")
	}
}

func TestValidationError(t *testing.T) {
	if got := NewValidationError("barcode").Error(); got != "barcode is required" {
		t.Fatalf("Error message = %q", got)
	}
	if got := NewInvalidFieldError("image", "not valid base64").Error(); got != "image: not valid base64" {
		t.Fatalf("Error message = %q", got)
	}
	if !IsValidationError(stdErrors.Join(NewValidationError("title"))) {
		t.Fatalf("IsValidationError returned false for wrapped ValidationError")
	}
}

func TestNotFound(t *testing.T) {
	if !IsNotFound(fmt.Errorf("barcode 123: %w", ErrNotFound)) {
		t.Fatalf("IsNotFound returned false for wrapped ErrNotFound")
	}
	if IsNotFound(NewProviderError("x", stdErrors.New("boom"))) {
		t.Fatalf("IsNotFound returned true for ProviderError")
	}
}
