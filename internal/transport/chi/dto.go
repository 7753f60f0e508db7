package chi

import (
	"time"

	domart "github.com/kailas-cloud/articles/internal/domain/article"
)

// ErrorResponseCode is a stable machine-readable error code.
type ErrorResponseCode string

// Error codes returned in ErrorResponse.Code.
const (
	ErrorResponseCodeBadRequest        ErrorResponseCode = "bad_request"
	ErrorResponseCodeInvalidIdentifier ErrorResponseCode = "invalid_identifier"
	ErrorResponseCodeInvalidInput      ErrorResponseCode = "invalid_input"
	ErrorResponseCodeValidationFailed  ErrorResponseCode = "validation_failed"
	ErrorResponseCodeNotFound          ErrorResponseCode = "not_found"
	ErrorResponseCodeInternalError     ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// Article is the wire form of an article.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Description string    `json:"description"`
	Summary     string    `json:"summary"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateArticleRequest is the POST /articles body.
type CreateArticleRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Description string `json:"description"`
	Summary     string `json:"summary"`
}

// UpdateArticleRequest is the PUT /articles/{id} body. Absent and null fields are unchanged.
type UpdateArticleRequest struct {
	Title       *string `json:"title,omitempty"`
	Content     *string `json:"content,omitempty"`
	Description *string `json:"description,omitempty"`
	Summary     *string `json:"summary,omitempty"`
}

// MessageResponse carries a human-readable acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// SummaryResponse is the POST /articles/{id}/summarize body.
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func articleToDTO(a *domart.Article) Article {
	return Article{
		ID:          a.ID(),
		Title:       a.Title(),
		Content:     a.Content(),
		Description: a.Description(),
		Summary:     a.Summary(),
		CreatedAt:   a.CreatedAt().UTC(),
		UpdatedAt:   a.UpdatedAt().UTC(),
	}
}

func articlesToDTO(items []domart.Article) []Article {
	out := make([]Article, len(items))
	for i := range items {
		out[i] = articleToDTO(&items[i])
	}
	return out
}
