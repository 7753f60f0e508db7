package article

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/articles/internal/domain"
)

// MaxTitleSize is the maximum title size in bytes.
const MaxTitleSize = 1024

// Article is the article aggregate (immutable value object).
type Article struct {
	id          string
	title       string
	content     string
	description string
	summary     string
	createdAt   time.Time
	updatedAt   time.Time
}

// New validates input for a not yet stored article. The store assigns id and timestamps.
// Title is required; content, description and summary default to "".
func New(title, content, description, summary string) (Article, error) {
	if strings.TrimSpace(title) == "" {
		return Article{}, fmt.Errorf("title is required: %w", domain.ErrValidationFailed)
	}
	if len(title) > MaxTitleSize {
		return Article{}, fmt.Errorf("title too long (max %d bytes): %w", MaxTitleSize, domain.ErrValidationFailed)
	}
	return Article{
		title:       title,
		content:     content,
		description: description,
		summary:     summary,
	}, nil
}

// Reconstruct creates an Article without validation (storage hydration).
func Reconstruct(
	id, title, content, description, summary string, createdAt, updatedAt time.Time,
) Article {
	return Article{
		id: id, title: title, content: content, description: description, summary: summary,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}

// ID returns the store-assigned identifier ("" before insert).
func (a *Article) ID() string { return a.id }

// Title returns the article title.
func (a *Article) Title() string { return a.title }

// Content returns the article body.
func (a *Article) Content() string { return a.content }

// Description returns the short description.
func (a *Article) Description() string { return a.description }

// Summary returns the stored summary, possibly generated.
func (a *Article) Summary() string { return a.summary }

// CreatedAt returns the creation time.
func (a *Article) CreatedAt() time.Time { return a.createdAt }

// UpdatedAt returns the time of the last successful mutation.
func (a *Article) UpdatedAt() time.Time { return a.updatedAt }

// Stamp returns a copy with the given id and created_at = updated_at = now.
func (a *Article) Stamp(id string, now time.Time) Article {
	return Reconstruct(id, a.title, a.content, a.description, a.summary, now, now)
}

// NewID generates a fresh identifier. UUIDv7 keeps lexical order equal to creation order.
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate article id: %w", err)
	}
	return id.String(), nil
}

// ParseID checks that id is a UUID in canonical textual form and returns it lowercased.
func ParseID(id string) (string, error) {
	if len(id) != 36 {
		return "", fmt.Errorf("article id %q: %w", id, domain.ErrInvalidIdentifier)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("article id %q: %w", id, domain.ErrInvalidIdentifier)
	}
	canonical := parsed.String()
	if canonical != strings.ToLower(id) {
		return "", fmt.Errorf("article id %q: %w", id, domain.ErrInvalidIdentifier)
	}
	return canonical, nil
}
