package vector

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/kailas-cloud/articles/internal/db"
	"github.com/kailas-cloud/articles/internal/domain"
	domvec "github.com/kailas-cloud/articles/internal/domain/vector"
)

const (
	vectorField = "__vector"
	vectorAlias = "vector"
)

// store is the consumer interface for embedding records (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	Del(ctx context.Context, key string) (int64, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Config describes the vector index.
type Config struct {
	KeyPrefix      string // defaults to domain.KeyPrefix
	IndexName      string // defaults to <prefix>vec:idx
	Dimensions     int
	M              int
	EFConstruction int
}

// Repo stores one embedding record per article in an HNSW index.
type Repo struct {
	store     store
	vecPrefix string
	cfg       Config
}

// New creates a vector repository.
func New(s store, cfg Config) *Repo {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = domain.KeyPrefix
	}
	if cfg.IndexName == "" {
		cfg.IndexName = cfg.KeyPrefix + "vec:idx"
	}
	defaults := domain.DefaultVectorConfig()
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = defaults.Dimensions
	}
	if cfg.M <= 0 {
		cfg.M = defaults.HNSWM
	}
	if cfg.EFConstruction <= 0 {
		cfg.EFConstruction = defaults.EFConstruction
	}
	return &Repo{store: s, vecPrefix: cfg.KeyPrefix + "vec:", cfg: cfg}
}

// IndexName returns the FT index name.
func (r *Repo) IndexName() string { return r.cfg.IndexName }

// Dimensions returns the configured vector dimension.
func (r *Repo) Dimensions() int { return r.cfg.Dimensions }

// EnsureIndex creates the index unless it already exists.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.cfg.IndexName)
	if err != nil {
		return fmt.Errorf("check index %s: %w", r.cfg.IndexName, err)
	}
	if exists {
		return nil
	}

	def, err := db.NewIndex(r.cfg.IndexName).
		Prefix(r.vecPrefix).
		Text("title").
		VectorHNSW(vectorField, vectorAlias, r.cfg.Dimensions, db.DistanceCosine, r.cfg.M, r.cfg.EFConstruction).
		Build()
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		// lost a race with another replica
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %s: %w", r.cfg.IndexName, err)
	}
	return nil
}

// IndexExists reports whether the FT index is present.
func (r *Repo) IndexExists(ctx context.Context) (bool, error) {
	exists, err := r.store.IndexExists(ctx, r.cfg.IndexName)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", r.cfg.IndexName, err)
	}
	return exists, nil
}

// Upsert writes the embedding record for id, replacing any previous one.
func (r *Repo) Upsert(ctx context.Context, id string, vec []float32, meta domvec.Metadata) error {
	key := r.key(id)
	fields := map[string]string{
		vectorField:   vectorToBytes(vec),
		"title":       meta.Title,
		"description": meta.Description,
		"summary":     meta.Summary,
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Query returns up to topK nearest records, most similar first.
func (r *Repo) Query(ctx context.Context, vec []float32, topK int) ([]domvec.Match, error) {
	res, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.cfg.IndexName,
		VectorField:  vectorAlias,
		Vector:       vec,
		K:            topK,
		ReturnFields: []string{"title"},
	})
	if err != nil {
		return nil, fmt.Errorf("knn search %s: %w", r.cfg.IndexName, err)
	}
	if res == nil {
		return []domvec.Match{}, nil
	}

	matches := make([]domvec.Match, 0, len(res.Entries))
	for _, e := range res.Entries {
		if !strings.HasPrefix(e.Key, r.vecPrefix) {
			continue
		}
		matches = append(matches, domvec.Match{
			ID:    strings.TrimPrefix(e.Key, r.vecPrefix),
			Score: e.Score,
		})
	}
	return matches, nil
}

// Delete removes the embedding record for id. A missing record is not an error.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.key(id)
	if _, err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func (r *Repo) key(id string) string {
	return r.vecPrefix + id
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
