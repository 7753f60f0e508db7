package vector

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/articles/internal/domain"
	domvec "github.com/kailas-cloud/articles/internal/domain/vector"
)

// Service embeds text and keeps one embedding record per article.
type Service struct {
	repo          Repository
	docEmbedder   Embedder
	queryEmbedder Embedder
	dimensions    int
}

// New creates a vector search service. dimensions <= 0 disables the dimension check.
func New(repo Repository, docEmbedder, queryEmbedder Embedder, dimensions int) *Service {
	return &Service{
		repo:          repo,
		docEmbedder:   docEmbedder,
		queryEmbedder: queryEmbedder,
		dimensions:    dimensions,
	}
}

// EnsureIndex creates the vector index if it does not exist yet.
func (s *Service) EnsureIndex(ctx context.Context) error {
	if err := s.repo.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure vector index: %w", err)
	}
	return nil
}

// Upsert embeds text and stores it with meta under id, replacing any previous record.
func (s *Service) Upsert(ctx context.Context, id, text string, meta domvec.Metadata) error {
	vec, err := s.embed(ctx, s.docEmbedder, text)
	if err != nil {
		return fmt.Errorf("vectorize article: %w", err)
	}

	if err := s.repo.Upsert(ctx, id, vec, meta); err != nil {
		return fmt.Errorf("upsert embedding: %w", err)
	}
	return nil
}

// Query returns up to topK matches for text, most similar first.
func (s *Service) Query(ctx context.Context, text string, topK int) ([]domvec.Match, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive: %w", domain.ErrInvalidInput)
	}

	vec, err := s.embed(ctx, s.queryEmbedder, text)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	matches, err := s.repo.Query(ctx, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("query embeddings: %w", err)
	}
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Delete removes the embedding record for id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete embedding: %w", err)
	}
	return nil
}

func (s *Service) embed(ctx context.Context, e Embedder, text string) ([]float32, error) {
	result, err := e.Embed(ctx, text)
	if err != nil {
		return nil, err //nolint:wrapcheck // callers add context
	}

	domain.UsageFromContext(ctx).AddTokens(result.TotalTokens)

	if len(result.Embedding) == 0 {
		return nil, errors.Join(domain.ErrEmbeddingProviderError, errors.New("empty embedding"))
	}
	if s.dimensions > 0 && len(result.Embedding) != s.dimensions {
		return nil, fmt.Errorf(
			"vector dimension mismatch: got %d, want %d: %w",
			len(result.Embedding), s.dimensions, domain.ErrVectorDimMismatch,
		)
	}
	return result.Embedding, nil
}
