package service

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is returned when a required credential or setting is missing.
	// This is the only error class that aborts a request.
	ErrConfig = errors.New("configuration error")
	// ErrProvider is returned when an embedding, search, or LLM call fails.
	// Callers recover locally via their degradation path.
	ErrProvider = errors.New("provider error")
	// ErrCache is returned when a cache read or write fails. Always fail-open.
	ErrCache = errors.New("cache error")
	// ErrMalformedResponse is returned when an LLM responds with JSON that
	// cannot be parsed against the documented schema.
	ErrMalformedResponse = errors.New("malformed provider response")
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("not found")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
