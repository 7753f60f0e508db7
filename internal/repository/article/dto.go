package article

import (
	"time"

	domart "github.com/kailas-cloud/articles/internal/domain/article"
	"github.com/kailas-cloud/articles/internal/domain/article/patch"
)

// Hash field names of an article record.
const (
	fieldTitle       = "title"
	fieldContent     = "content"
	fieldDescription = "description"
	fieldSummary     = "summary"
	fieldCreatedAt   = "created_at"
	fieldUpdatedAt   = "updated_at"
)

// buildHashFields converts a domain Article into a flat map[string]string for HSET.
func buildHashFields(a *domart.Article) map[string]string {
	return map[string]string{
		fieldTitle:       a.Title(),
		fieldContent:     a.Content(),
		fieldDescription: a.Description(),
		fieldSummary:     a.Summary(),
		fieldCreatedAt:   formatTime(a.CreatedAt()),
		fieldUpdatedAt:   formatTime(a.UpdatedAt()),
	}
}

// buildPatchFields returns only the fields touched by p, plus updated_at.
func buildPatchFields(p patch.Patch, now time.Time) map[string]string {
	m := map[string]string{fieldUpdatedAt: formatTime(now)}
	if v := p.Title(); v != nil {
		m[fieldTitle] = *v
	}
	if v := p.Content(); v != nil {
		m[fieldContent] = *v
	}
	if v := p.Description(); v != nil {
		m[fieldDescription] = *v
	}
	if v := p.Summary(); v != nil {
		m[fieldSummary] = *v
	}
	return m
}

// parseHashFields converts a flat hash map back into a domain Article.
// Unparseable timestamps hydrate as the zero time.
func parseHashFields(id string, m map[string]string) domart.Article {
	return domart.Reconstruct(
		id,
		m[fieldTitle],
		m[fieldContent],
		m[fieldDescription],
		m[fieldSummary],
		parseTime(m[fieldCreatedAt]),
		parseTime(m[fieldUpdatedAt]),
	)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
