package article

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/articles/internal/db"
	"github.com/kailas-cloud/articles/internal/domain"
	domart "github.com/kailas-cloud/articles/internal/domain/article"
	"github.com/kailas-cloud/articles/internal/domain/article/patch"
)

// store is the consumer interface for article records (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetIfExists(ctx context.Context, key string, fields map[string]string) (map[string]string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) (int64, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/article.Repository over Redis hashes.
type Repo struct {
	store     store
	docPrefix string
}

// New creates an article repository. Empty keyPrefix falls back to domain.KeyPrefix.
func New(s store, keyPrefix string) *Repo {
	if keyPrefix == "" {
		keyPrefix = domain.KeyPrefix
	}
	return &Repo{store: s, docPrefix: keyPrefix + "doc:"}
}

// FindAll returns up to limit articles in creation order.
// Ids are UUIDv7, so sorted keys are creation-ordered.
func (r *Repo) FindAll(ctx context.Context, limit int) ([]domart.Article, error) {
	keys, err := r.store.Scan(ctx, r.docPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan articles: %w", err)
	}
	if len(keys) == 0 {
		return []domart.Article{}, nil
	}

	slices.Sort(keys)
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}

	out := make([]domart.Article, 0, len(hashes))
	for i, m := range hashes {
		// deleted between SCAN and HGETALL
		if len(m) == 0 {
			continue
		}
		out = append(out, parseHashFields(strings.TrimPrefix(keys[i], r.docPrefix), m))
	}
	return out, nil
}

// FindByID returns one article.
func (r *Repo) FindByID(ctx context.Context, id string) (domart.Article, error) {
	id, err := domart.ParseID(id)
	if err != nil {
		return domart.Article{}, err
	}

	key := r.key(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domart.Article{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return domart.Article{}, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	return parseHashFields(id, m), nil
}

// Insert assigns a fresh id, stamps created_at = updated_at = now and stores the article.
func (r *Repo) Insert(ctx context.Context, a *domart.Article, now time.Time) (domart.Article, error) {
	id, err := domart.NewID()
	if err != nil {
		return domart.Article{}, err
	}

	stored := a.Stamp(id, now)
	key := r.key(id)
	if err := r.store.HSet(ctx, key, buildHashFields(&stored)); err != nil {
		return domart.Article{}, fmt.Errorf("hset %s: %w", key, err)
	}
	return stored, nil
}

// FindAndUpdate applies p and updated_at = now atomically and returns the post-image.
// Nothing is written when the article does not exist.
func (r *Repo) FindAndUpdate(
	ctx context.Context, id string, p patch.Patch, now time.Time,
) (domart.Article, error) {
	id, err := domart.ParseID(id)
	if err != nil {
		return domart.Article{}, err
	}
	if p.IsEmpty() {
		return domart.Article{}, fmt.Errorf("empty patch: %w", domain.ErrInvalidInput)
	}

	key := r.key(id)
	m, err := r.store.HSetIfExists(ctx, key, buildPatchFields(p, now))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domart.Article{}, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
		}
		return domart.Article{}, fmt.Errorf("update %s: %w", key, err)
	}
	return parseHashFields(id, m), nil
}

// DeleteByID removes an article and returns the number of removed records.
func (r *Repo) DeleteByID(ctx context.Context, id string) (int64, error) {
	id, err := domart.ParseID(id)
	if err != nil {
		return 0, err
	}

	key := r.key(id)
	n, err := r.store.Del(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("del %s: %w", key, err)
	}
	return n, nil
}

func (r *Repo) key(id string) string {
	return r.docPrefix + id
}
