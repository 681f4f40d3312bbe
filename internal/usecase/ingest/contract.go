package ingest

import (
	"context"

	"github.com/kailas-cloud/vecagent/internal/domain"
	"github.com/kailas-cloud/vecagent/internal/domain/batch"
	"github.com/kailas-cloud/vecagent/internal/domain/hotel"
	"github.com/kailas-cloud/vecagent/internal/domain/index"
)

// Repository stores hotels and builds the vector index.
type Repository interface {
	BulkInsert(ctx context.Context, hotels []hotel.Hotel, vectors [][]float32) (batch.Counts, error)
	CreateIndex(ctx context.Context, cfg index.Config) error
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
