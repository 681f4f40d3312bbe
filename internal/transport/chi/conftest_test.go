package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	healthuc "github.com/kailas-cloud/vecagent/internal/usecase/health"
	"github.com/kailas-cloud/vecagent/internal/usecase/pipeline"
)

type mockPipeline struct {
	answer pipeline.Answer
	err    error
	block  chan struct{}

	gotQuery string
	gotK     int
}

func (m *mockPipeline) Run(ctx context.Context, query string, k int) (pipeline.Answer, error) {
	m.gotQuery = query
	m.gotK = k
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return pipeline.Answer{}, ctx.Err()
		}
	}
	return m.answer, m.err
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report {
	return m.report
}

func newTestRouter(p Pipeline, h HealthChecker) http.Handler {
	r := chi.NewRouter()
	NewServer(p, h, zap.NewNop()).Routes(r)
	return r
}

func postRecommend(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/recommend", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
