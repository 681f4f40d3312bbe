package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecagent/internal/domain"
	"github.com/kailas-cloud/vecagent/internal/logger"
	"github.com/kailas-cloud/vecagent/internal/metrics"
)

// Answer is the outcome of one pipeline run.
type Answer struct {
	RunID       string
	Query       string
	K           int
	SearchQuery string
	ToolOutput  string
	FinalAnswer string
	Usage       domain.RunUsage
	Duration    time.Duration
}

// Service drives planner then synthesizer for one request at a time.
type Service struct {
	planner      Planner
	synthesizer  Synthesizer
	defaultQuery string
	defaultK     int
	logger       *zap.Logger
}

// New creates a pipeline service. defaultQuery and defaultK fill in empty requests.
func New(planner Planner, synthesizer Synthesizer, defaultQuery string, defaultK int, logger *zap.Logger) *Service {
	return &Service{
		planner:      planner,
		synthesizer:  synthesizer,
		defaultQuery: defaultQuery,
		defaultK:     defaultK,
		logger:       logger,
	}
}

// Resolve applies defaults to a request and validates the neighbor count.
func (s *Service) Resolve(query string, k int) (string, int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		query = s.defaultQuery
	}
	if k == 0 {
		k = s.defaultK
	}
	if query == "" {
		return "", 0, fmt.Errorf("empty query: %w", domain.ErrInvalidQuery)
	}
	if k < domain.MinNearestNeighbors || k > domain.MaxNearestNeighbors {
		return "", 0, fmt.Errorf("nearest neighbors %d outside [%d, %d]: %w",
			k, domain.MinNearestNeighbors, domain.MaxNearestNeighbors, domain.ErrInvalidQuery)
	}
	return query, k, nil
}

// Run resolves the request, plans and executes the search, then synthesizes the answer.
func (s *Service) Run(ctx context.Context, query string, k int) (Answer, error) {
	query, k, err := s.Resolve(query, k)
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues("invalid").Inc()
		return Answer{}, err
	}

	runID := uuid.NewString()
	ctx, log := logger.WithRun(ctx, logger.FromContextOr(ctx, s.logger), runID)
	ctx, usage := domain.NewContextWithUsage(ctx)
	start := time.Now()

	log.Info("Pipeline started", zap.String("query", query), zap.Int("k", k))

	plan, err := s.planner.Run(ctx, query, k)
	if err != nil {
		s.finish(log, "planner_error", start, usage, err)
		return Answer{}, fmt.Errorf("planner: %w", err)
	}

	final, err := s.synthesizer.Run(ctx, query, plan.ToolOutput)
	if err != nil {
		s.finish(log, "synthesizer_error", start, usage, err)
		return Answer{}, fmt.Errorf("synthesizer: %w", err)
	}

	duration := s.finish(log, "success", start, usage, nil)
	return Answer{
		RunID:       runID,
		Query:       query,
		K:           k,
		SearchQuery: plan.Query,
		ToolOutput:  plan.ToolOutput,
		FinalAnswer: final,
		Usage:       *usage,
		Duration:    duration,
	}, nil
}

func (s *Service) finish(log *zap.Logger, status string, start time.Time, usage *domain.RunUsage, err error) time.Duration {
	duration := time.Since(start)
	metrics.PipelineRunsTotal.WithLabelValues(status).Inc()
	metrics.PipelineRunDuration.Observe(duration.Seconds())

	fields := []zap.Field{
		zap.String("status", status),
		zap.Duration("duration", duration),
		zap.Int("embedding_tokens", usage.EmbeddingTokens),
		zap.Int("planner_tokens", usage.PlannerTokens),
		zap.Int("synthesizer_tokens", usage.SynthesizerTokens),
		zap.Int("total_tokens", usage.Total()),
	}
	if err != nil {
		log.Error("Pipeline failed", append(fields, zap.Error(err))...)
		return duration
	}
	log.Info("Pipeline finished", fields...)
	return duration
}
