package hotel

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecagent/internal/db"
	"github.com/kailas-cloud/vecagent/internal/domain"
	"github.com/kailas-cloud/vecagent/internal/domain/batch"
	"github.com/kailas-cloud/vecagent/internal/domain/hotel"
	"github.com/kailas-cloud/vecagent/internal/domain/index"
	"github.com/kailas-cloud/vecagent/internal/domain/search/result"
	"github.com/kailas-cloud/vecagent/internal/logger"
)

// store is the consumer interface for hotel documents (ISP).
type store interface {
	InsertMany(ctx context.Context, docs []any) (*db.InsertResult, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) ([]db.SearchEntry, error)
	CreateVectorIndex(ctx context.Context, def *db.VectorIndexDefinition) error
	DropDatabase(ctx context.Context) error
}

// Repo is the vector store gateway for hotel records.
type Repo struct {
	store      store
	field      string
	similarity index.Similarity
	logger     *zap.Logger
}

// New creates a hotel repository. field is the vector field name;
// similarity decides which direction of score means "better".
// logger is used when the context carries no request or run logger.
func New(s store, field string, similarity index.Similarity, logger *zap.Logger) *Repo {
	return &Repo{store: s, field: field, similarity: similarity, logger: logger}
}

// BulkInsert writes hotels with their vectors using unordered inserts.
// Partial failures are logged and returned in the counts; the call fails only
// when not a single document was written.
func (r *Repo) BulkInsert(ctx context.Context, hotels []hotel.Hotel, vectors [][]float32) (batch.Counts, error) {
	if len(hotels) != len(vectors) {
		return batch.Counts{}, fmt.Errorf("%d hotels, %d vectors: %w", len(hotels), len(vectors), domain.ErrLengthMismatch)
	}
	if len(hotels) == 0 {
		return batch.Counts{}, nil
	}

	docs := make([]any, len(hotels))
	for i := range hotels {
		docs[i] = toDoc(&hotels[i], r.field, vectors[i])
	}

	res, err := r.store.InsertMany(ctx, docs)
	if err != nil {
		return batch.Counts{}, fmt.Errorf("insert hotels: %w", err)
	}

	counts := batch.Counts{Inserted: res.Inserted, Failed: len(res.Failures)}
	for _, f := range res.Failures {
		id := ""
		if f.Index >= 0 && f.Index < len(hotels) {
			id = hotels[f.Index].ID
		}
		counts.Failures = append(counts.Failures, batch.Failure{
			Index: f.Index, ID: id, Code: f.Code, Message: f.Message,
		})
	}

	if counts.Inserted == 0 {
		return counts, fmt.Errorf("%s: %w", counts, domain.ErrNoDocumentsInserted)
	}
	if counts.Failed > 0 {
		log := logger.FromContextOr(ctx, r.logger)
		log.Warn("Bulk insert completed with failures",
			zap.Error(&domain.PartialInsertError{Inserted: counts.Inserted, Failed: counts.Failed}))
		for _, f := range counts.Failures {
			log.Debug("Document rejected",
				zap.Int("index", f.Index), zap.String("hotel_id", f.ID),
				zap.Int("code", f.Code), zap.String("message", f.Message))
		}
	}
	return counts, nil
}

// VectorSearch returns up to k hotels closest to vec, best match first.
// Equal scores come back in store order, which is not guaranteed to be stable.
func (r *Repo) VectorSearch(ctx context.Context, vec []float32, k int) ([]result.Result, error) {
	if k <= 0 {
		return nil, nil
	}

	entries, err := r.store.SearchKNN(ctx, &db.KNNQuery{Field: r.field, Vector: vec, K: k})
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results := make([]result.Result, 0, len(entries))
	for _, e := range entries {
		h, err := fromRaw(e.Document)
		if err != nil {
			return nil, &db.Error{Op: db.OpDecode, Err: err}
		}
		results = append(results, result.New(h, e.Score))
	}

	higher := r.similarity.HigherIsBetter()
	sort.SliceStable(results, func(i, j int) bool {
		if higher {
			return results[i].Score() > results[j].Score()
		}
		return results[i].Score() < results[j].Score()
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// CreateIndex creates the vector index described by cfg.
// Re-creating an identical index is accepted by the store; a conflicting one is an error.
func (r *Repo) CreateIndex(ctx context.Context, cfg index.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	def := &db.VectorIndexDefinition{
		Name:           cfg.Name,
		Field:          cfg.Field,
		Kind:           string(cfg.Algorithm),
		Dimensions:     cfg.Dimensions,
		Similarity:     string(cfg.Similarity),
		NumLists:       cfg.NumLists,
		M:              cfg.M,
		EFConstruction: cfg.EFConstruction,
		MaxDegree:      cfg.MaxDegree,
		LBuild:         cfg.LBuild,
	}
	if err := r.store.CreateVectorIndex(ctx, def); err != nil {
		return fmt.Errorf("create index %s: %w", cfg.Name, err)
	}
	return nil
}

// DropDatabase removes every collection in the configured database.
func (r *Repo) DropDatabase(ctx context.Context) error {
	if err := r.store.DropDatabase(ctx); err != nil {
		return fmt.Errorf("drop database: %w", err)
	}
	return nil
}
