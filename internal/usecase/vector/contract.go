package vector

import (
	"context"

	"github.com/kailas-cloud/articles/internal/domain"
	domvec "github.com/kailas-cloud/articles/internal/domain/vector"
)

// Repository defines the storage contract for embedding records.
type Repository interface {
	EnsureIndex(ctx context.Context) error
	Upsert(ctx context.Context, id string, vec []float32, meta domvec.Metadata) error
	Query(ctx context.Context, vec []float32, topK int) ([]domvec.Match, error)
	Delete(ctx context.Context, id string) error
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
