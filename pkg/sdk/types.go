package articles

import "time"

// Article is a stored article.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Description string    `json:"description"`
	Summary     string    `json:"summary"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateInput is the body of a create call. Title is required.
type CreateInput struct {
	Title       string `json:"title"`
	Content     string `json:"content,omitempty"`
	Description string `json:"description,omitempty"`
	Summary     string `json:"summary,omitempty"`
}

// UpdateInput is a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Title       *string `json:"title,omitempty"`
	Content     *string `json:"content,omitempty"`
	Description *string `json:"description,omitempty"`
	Summary     *string `json:"summary,omitempty"`
}

// String returns a pointer to s, for building UpdateInput literals.
func String(s string) *string { return &s }

// EmbedResult acknowledges an embed call.
type EmbedResult struct {
	Message string
	Tokens  int // embedding tokens consumed; 0 on a cache hit
}

// SearchResult holds ranked search hits.
type SearchResult struct {
	Items  []Article
	Tokens int
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            `json:"status"` // "ok", "degraded", "error"
	Checks map[string]string `json:"checks"` // component → "ok"/"missing"/"error"
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageBody struct {
	Message string `json:"message"`
}

type summaryBody struct {
	Summary string `json:"summary"`
}
