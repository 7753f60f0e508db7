package chi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/articles/internal/domain"
	domart "github.com/kailas-cloud/articles/internal/domain/article"
	"github.com/kailas-cloud/articles/internal/domain/article/patch"
	domvec "github.com/kailas-cloud/articles/internal/domain/vector"
	articleuc "github.com/kailas-cloud/articles/internal/usecase/article"
	healthuc "github.com/kailas-cloud/articles/internal/usecase/health"
)

// --- In-memory article repository ---

type memRepo struct {
	mu    sync.Mutex
	items map[string]domart.Article
	err   error
}

func newMemRepo() *memRepo { return &memRepo{items: make(map[string]domart.Article)} }

func (r *memRepo) FindAll(_ context.Context, limit int) ([]domart.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
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
	id, err := domart.ParseID(id)
	if err != nil {
		return domart.Article{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return domart.Article{}, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	return a, nil
}

func (r *memRepo) Insert(_ context.Context, a *domart.Article, now time.Time) (domart.Article, error) {
	id, err := domart.NewID()
	if err != nil {
		return domart.Article{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := a.Stamp(id, now)
	r.items[id] = stored
	return stored, nil
}

func (r *memRepo) FindAndUpdate(_ context.Context, id string, p patch.Patch, now time.Time) (domart.Article, error) {
	id, err := domart.ParseID(id)
	if err != nil {
		return domart.Article{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return domart.Article{}, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	pick := func(v *string, old string) string {
		if v != nil {
			return *v
		}
		return old
	}
	updated := domart.Reconstruct(id,
		pick(p.Title(), a.Title()), pick(p.Content(), a.Content()),
		pick(p.Description(), a.Description()), pick(p.Summary(), a.Summary()),
		a.CreatedAt(), now)
	r.items[id] = updated
	return updated, nil
}

func (r *memRepo) DeleteByID(_ context.Context, id string) (int64, error) {
	id, err := domart.ParseID(id)
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return 0, nil
	}
	delete(r.items, id)
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
	if strings.TrimSpace(content) == "" {
		return "No content was provided to summarize.", nil
	}
	return "A short summary.", nil
}

type mockVectors struct {
	upsertFn func(ctx context.Context, id, text string, meta domvec.Metadata) error
	queryFn  func(ctx context.Context, text string, topK int) ([]domvec.Match, error)
}

func (m *mockVectors) Upsert(ctx context.Context, id, text string, meta domvec.Metadata) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, id, text, meta)
	}
	domain.UsageFromContext(ctx).AddTokens(7)
	return nil
}

func (m *mockVectors) Query(ctx context.Context, text string, topK int) ([]domvec.Match, error) {
	domain.UsageFromContext(ctx).AddTokens(3)
	if m.queryFn != nil {
		return m.queryFn(ctx, text, topK)
	}
	return nil, nil
}

func (m *mockVectors) Delete(_ context.Context, _ string) error { return nil }

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockIndex struct {
	exists bool
	err    error
}

func (m *mockIndex) IndexExists(_ context.Context) (bool, error) { return m.exists, m.err }

// --- Test server ---

type testEnv struct {
	srv     *httptest.Server
	repo    *memRepo
	sum     *mockSummarizer
	vectors *mockVectors
	pinger  *mockPinger
	index   *mockIndex
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		repo:    newMemRepo(),
		sum:     &mockSummarizer{},
		vectors: &mockVectors{},
		pinger:  &mockPinger{},
		index:   &mockIndex{exists: true},
	}
	articles := articleuc.New(env.repo, env.sum, env.vectors)
	health := healthuc.New(env.pinger, env.index, nil)
	logger := zap.NewNop()

	env.srv = httptest.NewServer(NewRouter(NewServer(articles, health, logger), logger, AllowAllCORS()))
	t.Cleanup(env.srv.Close)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, e.srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}
