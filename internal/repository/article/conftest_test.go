package article

import (
	"context"
	"testing"
	"time"

	domart "github.com/kailas-cloud/articles/internal/domain/article"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hsetIfExistsFn func(ctx context.Context, key string, fields map[string]string) (map[string]string, error)
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	delFn          func(ctx context.Context, key string) (int64, error)
	scanFn         func(ctx context.Context, pattern string) ([]string, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HSetIfExists(
	ctx context.Context, key string, fields map[string]string,
) (map[string]string, error) {
	if m.hsetIfExistsFn != nil {
		return m.hsetIfExistsFn(ctx, key, fields)
	}
	return fields, nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return make([]map[string]string, len(keys)), nil
}

func (m *mockStore) Del(ctx context.Context, key string) (int64, error) {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return 0, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

const (
	testID    = "01927c9e-7c4a-7b3e-9a1d-3f2b8c5d6e7f"
	testIDOld = "01927c9e-0000-7000-8000-000000000001"
)

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, ""), ms
}

func testTime() time.Time {
	return time.Date(2025, 3, 14, 9, 26, 53, 589000000, time.UTC)
}

func testHash() map[string]string {
	return map[string]string{
		"title":       "Go generics",
		"content":     "Type parameters arrived in 1.18.",
		"description": "intro",
		"summary":     "",
		"created_at":  "2025-03-14T09:26:53.589Z",
		"updated_at":  "2025-03-14T09:26:53.589Z",
	}
}

func testArticle(t *testing.T) domart.Article {
	t.Helper()
	a, err := domart.New("Go generics", "Type parameters arrived in 1.18.", "intro", "")
	if err != nil {
		t.Fatalf("new article: %v", err)
	}
	return a
}
