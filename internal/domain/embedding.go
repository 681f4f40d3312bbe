package domain

import (
	"context"
	"fmt"
)

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// DimensionCheckEmbedder rejects vectors whose length differs from the configured index dimensions.
// A zero dimension disables the check.
type DimensionCheckEmbedder struct {
	inner      Embedder
	dimensions int
}

// NewDimensionCheckEmbedder wraps inner with a dimensionality guard.
func NewDimensionCheckEmbedder(inner Embedder, dimensions int) *DimensionCheckEmbedder {
	return &DimensionCheckEmbedder{inner: inner, dimensions: dimensions}
}

// Embed delegates to the inner embedder and validates the vector length.
func (e *DimensionCheckEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	result, err := e.inner.Embed(ctx, text)
	if err != nil {
		return EmbeddingResult{}, err
	}
	if len(result.Embedding) == 0 {
		return EmbeddingResult{}, fmt.Errorf("empty embedding vector: %w", ErrEmbeddingProviderError)
	}
	if e.dimensions > 0 && len(result.Embedding) != e.dimensions {
		return EmbeddingResult{}, fmt.Errorf("embedding has %d dimensions, index expects %d: %w",
			len(result.Embedding), e.dimensions, ErrEmbeddingProviderError)
	}
	return result, nil
}

// HealthCheck proxies to the inner embedder when it supports health checks.
func (e *DimensionCheckEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := e.inner.(HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
