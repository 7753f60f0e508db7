package article

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/articles/internal/domain"
	domart "github.com/kailas-cloud/articles/internal/domain/article"
	"github.com/kailas-cloud/articles/internal/domain/article/patch"
	domvec "github.com/kailas-cloud/articles/internal/domain/vector"
	"github.com/kailas-cloud/articles/internal/logger"
)

const (
	defaultListLimit   = 1000
	defaultSearchLimit = 5
	maxSearchLimit     = 100
)

// Service orchestrates article CRUD, summaries and semantic search.
type Service struct {
	repo        Repository
	summarizer  Summarizer
	vectors     VectorIndex
	now         func() time.Time
	listLimit   int
	searchLimit int
	maxSearch   int
}

// New creates an article service.
func New(repo Repository, summarizer Summarizer, vectors VectorIndex) *Service {
	return &Service{
		repo:        repo,
		summarizer:  summarizer,
		vectors:     vectors,
		now:         func() time.Time { return time.Now().UTC() },
		listLimit:   defaultListLimit,
		searchLimit: defaultSearchLimit,
		maxSearch:   maxSearchLimit,
	}
}

// WithListLimit caps the number of articles List returns.
func (s *Service) WithListLimit(limit int) *Service {
	if limit > 0 {
		s.listLimit = limit
	}
	return s
}

// WithSearchLimits configures the default and maximum search result counts.
func (s *Service) WithSearchLimits(defaultLimit, maxLimit int) *Service {
	if defaultLimit > 0 {
		s.searchLimit = defaultLimit
	}
	if maxLimit > 0 {
		s.maxSearch = maxLimit
	}
	return s
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// DefaultSearchLimit returns the limit used when a search does not specify one.
func (s *Service) DefaultSearchLimit() int { return s.searchLimit }

// List returns stored articles in creation order, up to the configured cap.
func (s *Service) List(ctx context.Context) ([]domart.Article, error) {
	articles, err := s.repo.FindAll(ctx, s.listLimit)
	if err != nil {
		return nil, domain.Classify("list articles", err)
	}
	return articles, nil
}

// Get returns a single article.
func (s *Service) Get(ctx context.Context, id string) (domart.Article, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domart.Article{}, domain.Classify("get article", err)
	}
	return a, nil
}

// Create validates and stores a new article.
func (s *Service) Create(ctx context.Context, title, content, description, summary string) (domart.Article, error) {
	a, err := domart.New(title, content, description, summary)
	if err != nil {
		return domart.Article{}, domain.Classify("create article", err)
	}

	stored, err := s.repo.Insert(ctx, &a, s.now())
	if err != nil {
		return domart.Article{}, domain.Classify("create article", err)
	}
	return stored, nil
}

// Update applies a partial update and returns the post-image.
// An empty patch is rejected before the store is touched.
func (s *Service) Update(ctx context.Context, id string, p patch.Patch) (domart.Article, error) {
	if p.IsEmpty() {
		return domart.Article{}, domain.Classify("update article",
			fmt.Errorf("no valid update data provided: %w", domain.ErrInvalidInput))
	}

	a, err := s.repo.FindAndUpdate(ctx, id, p, s.now())
	if err != nil {
		return domart.Article{}, domain.Classify("update article", err)
	}
	return a, nil
}

// Delete removes an article, then its embedding record on a best-effort basis.
func (s *Service) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return domain.Classify("delete article", err)
	}
	if removed != 1 {
		return domain.Classify("delete article", fmt.Errorf("article %s: %w", id, domain.ErrNotFound))
	}

	if s.vectors != nil {
		if err := s.vectors.Delete(ctx, strings.ToLower(id)); err != nil {
			logger.FromContext(ctx).Warn("embedding cleanup failed",
				zap.String("article_id", id), zap.Error(err))
		}
	}
	return nil
}

// Summarize generates a summary for the article content and persists it.
func (s *Service) Summarize(ctx context.Context, id string) (string, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", domain.Classify("summarize article", err)
	}

	summary, err := s.summarizer.Summarize(ctx, a.Content())
	if err != nil {
		return "", domain.Classify("summarize article", err)
	}

	if _, err := s.repo.FindAndUpdate(ctx, a.ID(), patch.Summary(summary), s.now()); err != nil {
		return "", domain.Classify("save summary", err)
	}
	return summary, nil
}

// Embed stores the article content in the vector index, replacing any previous record.
func (s *Service) Embed(ctx context.Context, id string) error {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Classify("embed article", err)
	}

	meta := domvec.Metadata{
		Title:       a.Title(),
		Description: a.Description(),
		Summary:     a.Summary(),
	}
	if err := s.vectors.Upsert(ctx, a.ID(), a.Content(), meta); err != nil {
		return domain.Classify("embed article", err)
	}
	return nil
}

// Search returns up to limit articles ranked by similarity to query.
// Ids that no longer resolve are dropped.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]domart.Article, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.Classify("search articles",
			fmt.Errorf("query is required: %w", domain.ErrInvalidInput))
	}
	if limit < 1 || limit > s.maxSearch {
		return nil, domain.Classify("search articles",
			fmt.Errorf("limit must be between 1 and %d: %w", s.maxSearch, domain.ErrInvalidInput))
	}

	matches, err := s.vectors.Query(ctx, query, limit)
	if err != nil {
		return nil, domain.Classify("search articles", err)
	}

	results := make([]domart.Article, 0, len(matches))
	for _, m := range matches {
		if len(results) == limit {
			break
		}
		a, err := s.repo.FindByID(ctx, m.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidIdentifier) {
				logger.FromContext(ctx).Debug("dropping stale search hit", zap.String("article_id", m.ID))
				continue
			}
			return nil, domain.Classify("resolve search hit", err)
		}
		results = append(results, a)
	}
	return results, nil
}
