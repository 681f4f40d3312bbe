package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecagent/internal/domain"
	healthuc "github.com/kailas-cloud/vecagent/internal/usecase/health"
	"github.com/kailas-cloud/vecagent/internal/usecase/pipeline"
	usageuc "github.com/kailas-cloud/vecagent/internal/usecase/usage"
)

func TestRecommend_Success(t *testing.T) {
	p := &mockPipeline{answer: pipeline.Answer{
		RunID:       "run-1",
		Query:       "quiet spa",
		K:           3,
		SearchQuery: "quiet spa hotel",
		ToolOutput:  "--- RECORD START ---\nHotelName: A\n--- RECORD END ---",
		FinalAnswer: "Stay at A.",
		Usage:       domain.RunUsage{EmbeddingTokens: 4, PlannerTokens: 10, SynthesizerTokens: 20},
		Duration:    1500 * time.Millisecond,
	}}
	h := newTestRouter(p, &mockHealth{})

	rec := postRecommend(t, h, `{"query":"quiet spa","nearestNeighbors":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if p.gotQuery != "quiet spa" || p.gotK != 3 {
		t.Errorf("pipeline got (%q, %d)", p.gotQuery, p.gotK)
	}
	if got := rec.Header().Get("X-Run-ID"); got != "run-1" {
		t.Errorf("X-Run-ID = %q", got)
	}
	if got := rec.Header().Get("X-Total-Tokens"); got != "34" {
		t.Errorf("X-Total-Tokens = %q", got)
	}

	var resp RecommendResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Answer != "Stay at A." || resp.SearchQuery != "quiet spa hotel" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.NearestNeighbors != 3 || resp.DurationMs != 1500 {
		t.Errorf("unexpected k/duration: %+v", resp)
	}
	if resp.Usage.TotalTokens != 34 || resp.Usage.PlannerTokens != 10 {
		t.Errorf("unexpected usage: %+v", resp.Usage)
	}
}

func TestRecommend_EmptyBodyFieldsPassThrough(t *testing.T) {
	p := &mockPipeline{answer: pipeline.Answer{RunID: "r"}}
	h := newTestRouter(p, &mockHealth{})

	rec := postRecommend(t, h, `{}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if p.gotQuery != "" || p.gotK != 0 {
		t.Errorf("defaults are resolved by the pipeline, got (%q, %d)", p.gotQuery, p.gotK)
	}
}

func TestRecommend_InvalidJSON(t *testing.T) {
	h := newTestRouter(&mockPipeline{}, &mockHealth{})

	rec := postRecommend(t, h, `{"query":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var errResp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Code != ErrorCodeBadRequest {
		t.Errorf("expected bad_request, got %s", errResp.Code)
	}
}

func TestRecommend_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   ErrorCode
	}{
		{"invalid query", fmt.Errorf("k=99: %w", domain.ErrInvalidQuery), http.StatusBadRequest, ErrorCodeValidationFailed},
		{"rate limited", fmt.Errorf("%w: %w", domain.ErrRateLimited, domain.ErrChatProviderError), http.StatusTooManyRequests, ErrorCodeRateLimited},
		{"quota", fmt.Errorf("budget check: %w", domain.ErrEmbeddingQuotaExceeded), http.StatusPaymentRequired, ErrorCodeQuotaExceeded},
		{"embedding provider", domain.ErrEmbeddingProviderError, http.StatusBadGateway, ErrorCodeEmbeddingProviderError},
		{"chat provider", fmt.Errorf("planner: %w", domain.ErrChatProviderError), http.StatusBadGateway, ErrorCodeChatProviderError},
		{"tool not invoked", domain.NewToolNotInvoked("I need more details", "stop"), http.StatusBadGateway, ErrorCodePlannerFailed},
		{"unexpected tool", domain.ErrUnexpectedToolInvocation, http.StatusBadGateway, ErrorCodePlannerFailed},
		{"malformed args", domain.ErrMalformedToolArguments, http.StatusBadGateway, ErrorCodePlannerFailed},
		{"truncated", domain.NewTruncatedResponse("length"), http.StatusBadGateway, ErrorCodePlannerFailed},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ErrorCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(&mockPipeline{err: tt.err}, &mockHealth{})
			rec := postRecommend(t, h, `{"query":"x"}`)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			var errResp ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if errResp.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, errResp.Code)
			}
		})
	}
}

func TestRecommend_InternalErrorHidesDetails(t *testing.T) {
	h := newTestRouter(&mockPipeline{err: errors.New("mongo: secret connection string")}, &mockHealth{})
	rec := postRecommend(t, h, `{"query":"x"}`)
	if strings.Contains(rec.Body.String(), "secret") {
		t.Errorf("internal details leaked: %s", rec.Body.String())
	}
}

func TestRecommend_ToolNotInvokedShowsModelText(t *testing.T) {
	h := newTestRouter(&mockPipeline{err: domain.NewToolNotInvoked("which city?", "stop")}, &mockHealth{})
	rec := postRecommend(t, h, `{"query":"x"}`)
	if !strings.Contains(rec.Body.String(), "which city?") {
		t.Errorf("expected model text in body, got %s", rec.Body.String())
	}
}

func TestRecommend_Sequential(t *testing.T) {
	p := &mockPipeline{answer: pipeline.Answer{RunID: "r"}, block: make(chan struct{})}
	srv := NewServer(p, &mockHealth{}, zap.NewNop())

	first := make(chan int, 1)
	go func() {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/recommend", strings.NewReader(`{"query":"a"}`))
		srv.Recommend(rec, req)
		first <- rec.Code
	}()

	// Wait until the first run holds the slot.
	deadline := time.Now().Add(2 * time.Second)
	for len(srv.slot) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first run never acquired the slot")
		}
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/recommend", strings.NewReader(`{"query":"b"}`)).WithContext(ctx)
	srv.Recommend(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 for waiting request, got %d", rec.Code)
	}

	close(p.block)
	if code := <-first; code != http.StatusOK {
		t.Errorf("first run: expected 200, got %d", code)
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name   string
		status healthuc.Status
		want   int
	}{
		{"healthy", healthuc.Healthy, http.StatusOK},
		{"degraded", healthuc.Degraded, http.StatusServiceUnavailable},
		{"unhealthy", healthuc.Unhealthy, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := &mockHealth{report: healthuc.Report{
				Status: tt.status,
				Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
			}}
			h := newTestRouter(&mockPipeline{}, hc)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
			var resp HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != string(tt.status) || resp.Checks["database"] != "ok" {
				t.Errorf("unexpected body: %+v", resp)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(&mockPipeline{}, &mockHealth{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

type mockUsage struct {
	gotPeriod usageuc.Period
}

func (m *mockUsage) GetReport(_ context.Context, period usageuc.Period) usageuc.Report {
	m.gotPeriod = period
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return usageuc.Report{
		Period:      period,
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, 1, 0),
		Limit:       1000,
		Used:        1000,
		Remaining:   0,
		Exhausted:   true,
		ByAgent:     map[string]int64{"embedding": 40, "planner": 560, "synthesizer": 400},
	}
}

func TestUsage(t *testing.T) {
	u := &mockUsage{}
	r := chi.NewRouter()
	NewServer(&mockPipeline{}, &mockHealth{}, zap.NewNop()).WithUsage(u).Routes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/usage?period=month", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if u.gotPeriod != usageuc.PeriodMonth {
		t.Errorf("expected month period, got %q", u.gotPeriod)
	}
	var resp UsageResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Exhausted || resp.TokensLimit != 1000 || resp.Period != "month" {
		t.Errorf("unexpected body: %+v", resp)
	}
	if resp.ByAgent["planner"] != 560 || resp.ByAgent["synthesizer"] != 400 {
		t.Errorf("unexpected breakdown: %v", resp.ByAgent)
	}
}

func TestUsage_BadPeriod(t *testing.T) {
	r := chi.NewRouter()
	NewServer(&mockPipeline{}, &mockHealth{}, zap.NewNop()).WithUsage(&mockUsage{}).Routes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/usage?period=year", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUsage_NotMountedWithoutReporter(t *testing.T) {
	h := newTestRouter(&mockPipeline{}, &mockHealth{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/usage", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
