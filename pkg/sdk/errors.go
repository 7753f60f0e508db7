package articles

import (
	"fmt"

	"github.com/kailas-cloud/articles/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound          = domain.ErrNotFound
	ErrInvalidIdentifier = domain.ErrInvalidIdentifier
	ErrInvalidInput      = domain.ErrInvalidInput
	ErrValidationFailed  = domain.ErrValidationFailed
	ErrInfrastructure    = domain.ErrInfrastructure
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("articles: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap maps the stable error code to its sentinel.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "not_found":
		return ErrNotFound
	case "invalid_identifier":
		return ErrInvalidIdentifier
	case "invalid_input", "bad_request":
		return ErrInvalidInput
	case "validation_failed":
		return ErrValidationFailed
	case "internal_error":
		return ErrInfrastructure
	default:
		return nil
	}
}
