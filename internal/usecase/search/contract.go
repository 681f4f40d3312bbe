package search

import (
	"context"

	"github.com/kailas-cloud/vecagent/internal/domain"
	"github.com/kailas-cloud/vecagent/internal/domain/search/result"
)

// Repository runs k-nearest-neighbor queries against the hotel collection.
type Repository interface {
	VectorSearch(ctx context.Context, vec []float32, k int) ([]result.Result, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
