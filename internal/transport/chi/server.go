package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecagent/internal/domain"
	healthuc "github.com/kailas-cloud/vecagent/internal/usecase/health"
	"github.com/kailas-cloud/vecagent/internal/usecase/pipeline"
	usageuc "github.com/kailas-cloud/vecagent/internal/usecase/usage"
)

// Pipeline runs one recommendation.
type Pipeline interface {
	Run(ctx context.Context, query string, k int) (pipeline.Answer, error)
}

// HealthChecker aggregates dependency checks.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// UsageReporter reports the shared token budget.
type UsageReporter interface {
	GetReport(ctx context.Context, period usageuc.Period) usageuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the recommendation API. Pipeline runs are serialized: one run
// holds the slot at a time and waiting requests give up when their context ends.
type Server struct {
	pipeline      Pipeline
	health        HealthChecker
	usage         UsageReporter
	slot          chan struct{}
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(p Pipeline, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		pipeline: p,
		health:   health,
		slot:     make(chan struct{}, 1),
		logger:   logger,
	}
	// Order matters: rate limit errors also wrap the provider sentinel.
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorCodeRateLimited),
		sentinelHandler(domain.ErrEmbeddingQuotaExceeded, http.StatusPaymentRequired, ErrorCodeQuotaExceeded),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, ErrorCodeEmbeddingProviderError),
		sentinelHandler(domain.ErrChatProviderError, http.StatusBadGateway, ErrorCodeChatProviderError),
		sentinelHandler(domain.ErrToolNotInvoked, http.StatusBadGateway, ErrorCodePlannerFailed),
		sentinelHandler(domain.ErrUnexpectedToolInvocation, http.StatusBadGateway, ErrorCodePlannerFailed),
		sentinelHandler(domain.ErrMalformedToolArguments, http.StatusBadGateway, ErrorCodePlannerFailed),
		sentinelHandler(domain.ErrTruncatedPlannerResponse, http.StatusBadGateway, ErrorCodePlannerFailed),
	}
	return s
}

// WithUsage enables GET /v1/usage.
func (s *Server) WithUsage(u UsageReporter) *Server {
	s.usage = u
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/recommend", s.Recommend)
	if s.usage != nil {
		r.Get("/v1/usage", s.Usage)
	}
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Recommend handles POST /v1/recommend.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	select {
	case s.slot <- struct{}{}:
		defer func() { <-s.slot }()
	case <-r.Context().Done():
		writeError(w, http.StatusServiceUnavailable, ErrorCodeBusy, "request cancelled while waiting for a pipeline slot")
		return
	}

	ans, err := s.pipeline.Run(r.Context(), req.Query, req.NearestNeighbors)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("X-Run-ID", ans.RunID)
	w.Header().Set("X-Total-Tokens", strconv.Itoa(ans.Usage.Total()))
	writeJSON(w, http.StatusOK, RecommendResponse{
		RunID:            ans.RunID,
		Query:            ans.Query,
		NearestNeighbors: ans.K,
		SearchQuery:      ans.SearchQuery,
		ToolOutput:       ans.ToolOutput,
		Answer:           ans.FinalAnswer,
		Usage: UsageInfo{
			EmbeddingTokens:   ans.Usage.EmbeddingTokens,
			PlannerTokens:     ans.Usage.PlannerTokens,
			SynthesizerTokens: ans.Usage.SynthesizerTokens,
			TotalTokens:       ans.Usage.Total(),
		},
		DurationMs: ans.Duration.Milliseconds(),
	})
}

// Usage handles GET /v1/usage?period=day|month.
func (s *Server) Usage(w http.ResponseWriter, r *http.Request) {
	period, err := usageuc.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	rep := s.usage.GetReport(r.Context(), period)
	writeJSON(w, http.StatusOK, UsageResponse{
		Period:      string(rep.Period),
		PeriodStart: rep.PeriodStart.UnixMilli(),
		PeriodEnd:   rep.PeriodEnd.UnixMilli(),
		TokensLimit: rep.Limit,
		TokensUsed:  rep.Used,
		Remaining:   rep.Remaining,
		Exhausted:   rep.Exhausted,
		ByAgent:     rep.ByAgent,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
// ToolNotInvokedError is the exception: the model's text is useful to the caller.
func safeDomainMessage(err error) string {
	var tni *domain.ToolNotInvokedError
	if errors.As(err, &tni) {
		return tni.Error()
	}
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrRateLimited,
		domain.ErrEmbeddingQuotaExceeded,
		domain.ErrEmbeddingProviderError,
		domain.ErrChatProviderError,
		domain.ErrUnexpectedToolInvocation,
		domain.ErrMalformedToolArguments,
		domain.ErrTruncatedPlannerResponse,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
