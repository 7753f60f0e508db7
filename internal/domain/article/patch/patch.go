package patch

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/articles/internal/domain"
)

// Patch is a partial article update. Nil fields are unchanged.
type Patch struct {
	title       *string
	description *string
	summary     *string
	content     *string
}

// New creates a Patch. At least one non-nil field must be provided,
// and a provided title must not be blank.
func New(title, description, summary, content *string) (Patch, error) {
	if title == nil && description == nil && summary == nil && content == nil {
		return Patch{}, fmt.Errorf("no valid update data provided: %w", domain.ErrInvalidInput)
	}
	if title != nil && strings.TrimSpace(*title) == "" {
		return Patch{}, fmt.Errorf("title must not be empty: %w", domain.ErrInvalidInput)
	}
	return Patch{title: title, description: description, summary: summary, content: content}, nil
}

// Summary creates a Patch touching only the summary.
func Summary(text string) Patch {
	return Patch{summary: &text}
}

// Title returns the new title, or nil if unchanged.
func (p Patch) Title() *string { return p.title }

// Description returns the new description, or nil if unchanged.
func (p Patch) Description() *string { return p.description }

// Summary returns the new summary, or nil if unchanged.
func (p Patch) Summary() *string { return p.summary }

// Content returns the new content, or nil if unchanged.
func (p Patch) Content() *string { return p.content }

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.title == nil && p.description == nil && p.summary == nil && p.content == nil
}
