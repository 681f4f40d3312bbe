package pipeline

import (
	"context"

	"github.com/kailas-cloud/vecagent/internal/usecase/agent"
)

// Planner runs the tool-calling stage.
type Planner interface {
	Run(ctx context.Context, userQuery string, requestedK int) (agent.Plan, error)
}

// Synthesizer runs the recommendation stage.
type Synthesizer interface {
	Run(ctx context.Context, userQuery, toolOutput string) (string, error)
}
