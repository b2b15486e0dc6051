package service

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "question", Message: "cannot be empty"}
	want := "validation error on field question: cannot be empty"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapError(t *testing.T) {
	if got := WrapError(nil, "context"); got != nil {
		t.Fatalf("WrapError(nil) = %v, want nil", got)
	}

	wrapped := WrapError(ErrProvider, "rerank call failed")
	if !errors.Is(wrapped, ErrProvider) {
		t.Fatalf("wrapped error should match ErrProvider, got %v", wrapped)
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrConfig, ErrProvider, ErrCache, ErrMalformedResponse, ErrNotFound}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Fatalf("sentinel %d and %d should be distinct", i, j)
			}
		}
	}
}

func TestWrappedSentinelSurvivesDoubleWrap(t *testing.T) {
	err := fmt.Errorf("embed query: %w", fmt.Errorf("%w: status 500", ErrProvider))
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("double-wrapped error should match ErrProvider")
	}
}
