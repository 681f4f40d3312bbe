package ingest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecagent/internal/domain"
	"github.com/kailas-cloud/vecagent/internal/domain/batch"
	"github.com/kailas-cloud/vecagent/internal/domain/hotel"
	"github.com/kailas-cloud/vecagent/internal/domain/index"
	"github.com/kailas-cloud/vecagent/internal/metrics"
)

// Report summarizes one upload.
type Report struct {
	Loaded   int
	Embedded int
	Skipped  int
	Counts   batch.Counts
}

// Service embeds hotels, bulk-inserts them and builds the vector index.
type Service struct {
	repo   Repository
	embed  Embedder
	index  index.Config
	logger *zap.Logger
}

// New creates an upload service.
func New(repo Repository, embed Embedder, idx index.Config, logger *zap.Logger) *Service {
	return &Service{repo: repo, embed: embed, index: idx, logger: logger}
}

// Upload converts sources to stored records, embeds each one and writes them.
// A hotel whose embedding fails is skipped; a quota or rate limit error stops
// embedding the rest. The index is created after a successful insert.
func (s *Service) Upload(ctx context.Context, sources []hotel.Source) (Report, error) {
	rep := Report{Loaded: len(sources)}
	if len(sources) == 0 {
		return rep, nil
	}

	hotels := make([]hotel.Hotel, 0, len(sources))
	vectors := make([][]float32, 0, len(sources))

	for i := range sources {
		h := sources[i].Record()
		vec, cascade, err := s.vectorize(ctx, &h)
		if err != nil {
			s.logger.Warn("Skipping hotel, embedding failed",
				zap.String("hotel_id", h.ID),
				zap.String("hotel", h.Name),
				zap.Error(err),
			)
			if cascade {
				s.logger.Error("Stopping embedding, provider refuses further requests",
					zap.Int("remaining", len(sources)-i-1))
				break
			}
			continue
		}
		hotels = append(hotels, h)
		vectors = append(vectors, vec)
	}
	rep.Embedded = len(hotels)
	rep.Skipped = rep.Loaded - rep.Embedded

	if len(hotels) == 0 {
		return rep, fmt.Errorf("no hotel could be embedded: %w", domain.ErrNoDocumentsInserted)
	}

	counts, err := s.repo.BulkInsert(ctx, hotels, vectors)
	rep.Counts = counts
	metrics.BulkInsertDocumentsTotal.WithLabelValues("inserted").Add(float64(counts.Inserted))
	metrics.BulkInsertDocumentsTotal.WithLabelValues("failed").Add(float64(counts.Failed))
	if err != nil {
		return rep, fmt.Errorf("bulk insert: %w", err)
	}
	s.logger.Info("Hotels inserted",
		zap.Int("inserted", counts.Inserted),
		zap.Int("failed", counts.Failed),
	)

	if err := s.repo.CreateIndex(ctx, s.index); err != nil {
		return rep, fmt.Errorf("create vector index: %w", err)
	}
	s.logger.Info("Vector index ready",
		zap.String("name", s.index.Name),
		zap.String("algorithm", string(s.index.Algorithm)),
		zap.Int("dimensions", s.index.Dimensions),
		zap.String("similarity", string(s.index.Similarity)),
	)
	return rep, nil
}

// vectorize embeds the hotel page content.
// cascade=true means a quota or rate limit error, and the remaining hotels should not be tried.
func (s *Service) vectorize(ctx context.Context, h *hotel.Hotel) ([]float32, bool, error) {
	res, err := s.embed.Embed(ctx, h.PageContent())
	if err != nil {
		cascade := errors.Is(err, domain.ErrEmbeddingQuotaExceeded) ||
			errors.Is(err, domain.ErrRateLimited) ||
			ctx.Err() != nil
		return nil, cascade, fmt.Errorf("vectorize: %w", err)
	}
	if len(res.Embedding) == 0 {
		return nil, false, fmt.Errorf("vectorize: empty vector: %w", domain.ErrEmbeddingProviderError)
	}
	return res.Embedding, false, nil
}
