package ingest

import (
	"context"
	"os"
	"testing"

	"github.com/kailas-cloud/vecagent/internal/domain"
	"github.com/kailas-cloud/vecagent/internal/domain/batch"
	"github.com/kailas-cloud/vecagent/internal/domain/hotel"
	"github.com/kailas-cloud/vecagent/internal/domain/index"
	"github.com/kailas-cloud/vecagent/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

// --- Mocks ---

type mockRepo struct {
	inserted  []hotel.Hotel
	vectors   [][]float32
	counts    *batch.Counts
	insertErr error
	indexErr  error
	index     *index.Config
}

func (m *mockRepo) BulkInsert(_ context.Context, hotels []hotel.Hotel, vectors [][]float32) (batch.Counts, error) {
	m.inserted = hotels
	m.vectors = vectors
	if m.counts != nil {
		return *m.counts, m.insertErr
	}
	return batch.Counts{Inserted: len(hotels)}, m.insertErr
}

func (m *mockRepo) CreateIndex(_ context.Context, cfg index.Config) error {
	m.index = &cfg
	return m.indexErr
}

// mockEmbedder fails for texts listed in failOn.
type mockEmbedder struct {
	failOn map[string]error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	if err, ok := m.failOn[text]; ok {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{Embedding: []float32{float32(len(text)), 1}}, nil
}
