package article

import (
	"context"
	"time"

	domart "github.com/kailas-cloud/articles/internal/domain/article"
	"github.com/kailas-cloud/articles/internal/domain/article/patch"
	domvec "github.com/kailas-cloud/articles/internal/domain/vector"
)

// Repository defines the storage contract for articles.
type Repository interface {
	FindAll(ctx context.Context, limit int) ([]domart.Article, error)
	FindByID(ctx context.Context, id string) (domart.Article, error)
	Insert(ctx context.Context, a *domart.Article, now time.Time) (domart.Article, error)
	FindAndUpdate(ctx context.Context, id string, p patch.Patch, now time.Time) (domart.Article, error)
	DeleteByID(ctx context.Context, id string) (int64, error)
}

// Summarizer turns article content into a short summary.
type Summarizer interface {
	Summarize(ctx context.Context, content string) (string, error)
}

// VectorIndex stores and queries article embeddings.
type VectorIndex interface {
	Upsert(ctx context.Context, id, text string, meta domvec.Metadata) error
	Query(ctx context.Context, text string, topK int) ([]domvec.Match, error)
	Delete(ctx context.Context, id string) error
}
