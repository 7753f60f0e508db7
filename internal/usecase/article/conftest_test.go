package article

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/kailas-cloud/articles/internal/domain"
	domart "github.com/kailas-cloud/articles/internal/domain/article"
	"github.com/kailas-cloud/articles/internal/domain/article/patch"
	domvec "github.com/kailas-cloud/articles/internal/domain/vector"
)

// --- In-memory repository ---

type memRepo struct {
	mu       sync.Mutex
	items    map[string]domart.Article
	writes   int
	findErr  error
	writeErr error
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[string]domart.Article)}
}

func (r *memRepo) FindAll(_ context.Context, limit int) ([]domart.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]domart.Article, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *memRepo) FindByID(_ context.Context, id string) (domart.Article, error) {
	canonical, err := domart.ParseID(id)
	if err != nil {
		return domart.Article{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return domart.Article{}, r.findErr
	}
	a, ok := r.items[canonical]
	if !ok {
		return domart.Article{}, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	return a, nil
}

func (r *memRepo) Insert(_ context.Context, a *domart.Article, now time.Time) (domart.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if r.writeErr != nil {
		return domart.Article{}, r.writeErr
	}
	id, err := domart.NewID()
	if err != nil {
		return domart.Article{}, err
	}
	stored := a.Stamp(id, now)
	r.items[id] = stored
	return stored, nil
}

func (r *memRepo) FindAndUpdate(_ context.Context, id string, p patch.Patch, now time.Time) (domart.Article, error) {
	canonical, err := domart.ParseID(id)
	if err != nil {
		return domart.Article{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if r.writeErr != nil {
		return domart.Article{}, r.writeErr
	}
	a, ok := r.items[canonical]
	if !ok {
		return domart.Article{}, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	title, content, description, summary := a.Title(), a.Content(), a.Description(), a.Summary()
	if v := p.Title(); v != nil {
		title = *v
	}
	if v := p.Content(); v != nil {
		content = *v
	}
	if v := p.Description(); v != nil {
		description = *v
	}
	if v := p.Summary(); v != nil {
		summary = *v
	}
	updated := domart.Reconstruct(canonical, title, content, description, summary, a.CreatedAt(), now)
	r.items[canonical] = updated
	return updated, nil
}

func (r *memRepo) DeleteByID(_ context.Context, id string) (int64, error) {
	canonical, err := domart.ParseID(id)
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if r.writeErr != nil {
		return 0, r.writeErr
	}
	if _, ok := r.items[canonical]; !ok {
		return 0, nil
	}
	delete(r.items, canonical)
	return 1, nil
}

// --- Function-field mocks ---

type mockSummarizer struct {
	summarizeFn func(ctx context.Context, content string) (string, error)
}

func (m *mockSummarizer) Summarize(ctx context.Context, content string) (string, error) {
	if m.summarizeFn != nil {
		return m.summarizeFn(ctx, content)
	}
	return "summary", nil
}

type mockVectors struct {
	upsertFn func(ctx context.Context, id, text string, meta domvec.Metadata) error
	queryFn  func(ctx context.Context, text string, topK int) ([]domvec.Match, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockVectors) Upsert(ctx context.Context, id, text string, meta domvec.Metadata) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, id, text, meta)
	}
	return nil
}

func (m *mockVectors) Query(ctx context.Context, text string, topK int) ([]domvec.Match, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, text, topK)
	}
	return nil, nil
}

func (m *mockVectors) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Helpers ---

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestService() (*Service, *memRepo, *mockSummarizer, *mockVectors) {
	repo := newMemRepo()
	sum := &mockSummarizer{}
	vec := &mockVectors{}
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(repo, sum, vec).WithClock(clock.Now), repo, sum, vec
}

func ptr(s string) *string { return &s }

const missingID = "0190a3b4-5c6d-7e8f-9a0b-1c2d3e4f5a6b"
