package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a well-formed identifier with no matching article.
	ErrNotFound = errors.New("not found")
	// ErrInvalidIdentifier signals an identifier the store cannot address.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrInvalidInput signals a request that carries nothing usable (e.g. an empty patch).
	ErrInvalidInput = errors.New("invalid input")
	// ErrValidationFailed signals a request body that fails field validation.
	ErrValidationFailed = errors.New("validation failed")
	// ErrInfrastructure signals a store or provider failure.
	ErrInfrastructure = errors.New("infrastructure failure")

	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrCompletionProviderError signals a text-completion provider failure.
	ErrCompletionProviderError = errors.New("completion provider error")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)

// InfrastructureError wraps a store or provider failure raised during Op.
// It matches both ErrInfrastructure and the underlying cause.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrInfrastructure.Error(), e.Err)
}

func (e *InfrastructureError) Unwrap() []error { return []error{ErrInfrastructure, e.Err} }

// NewInfrastructureError wraps err as an infrastructure failure of op.
func NewInfrastructureError(op string, err error) error {
	return &InfrastructureError{Op: op, Err: err}
}

// IsClientError reports whether err belongs to the caller-facing part of the taxonomy
// (not found, malformed identifier, bad input).
func IsClientError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidIdentifier) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrValidationFailed)
}

// Classify keeps client errors as they are (annotated with op) and turns everything
// else into an InfrastructureError.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsClientError(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	var ie *InfrastructureError
	if errors.As(err, &ie) {
		return err
	}
	return NewInfrastructureError(op, err)
}
