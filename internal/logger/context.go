package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ContextWithLogger stores a logger in the context.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext extracts a logger from the context.
// Returns zap.NewNop() if no logger is found.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// WithRun derives a child logger tagged with the pipeline run id and stores it in the context.
// The parent is taken from ctx when present, otherwise base is used.
func WithRun(ctx context.Context, base *zap.Logger, runID string) (context.Context, *zap.Logger) {
	parent := base
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		parent = l
	}
	if parent == nil {
		parent = zap.NewNop()
	}
	l := parent.With(zap.String("run_id", runID))
	return ContextWithLogger(ctx, l), l
}

// FromContextOr extracts a logger from the context, falling back to fallback.
func FromContextOr(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	if fallback == nil {
		return zap.NewNop()
	}
	return fallback
}
