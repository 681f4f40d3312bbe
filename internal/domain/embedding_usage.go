package domain

import "context"

// Agent names. They label token usage in the shared budget and in metrics.
const (
	AgentEmbedding   = "embedding"
	AgentPlanner     = "planner"
	AgentSynthesizer = "synthesizer"
)

type runUsageKey struct{}

// RunUsage collects token usage for a single pipeline run.
// The driver puts a mutable pointer into the context before the run;
// the search tool and the agents write into it; the driver reads it for the final log line.
type RunUsage struct {
	EmbeddingTokens   int
	PlannerTokens     int
	SynthesizerTokens int
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *RunUsage) {
	u := &RunUsage{}
	return context.WithValue(ctx, runUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *RunUsage {
	u, _ := ctx.Value(runUsageKey{}).(*RunUsage)
	return u
}

// AddEmbedding records embedding tokens.
func (u *RunUsage) AddEmbedding(n int) {
	if u != nil {
		u.EmbeddingTokens += n
	}
}

// AddPlanner records planner chat tokens.
func (u *RunUsage) AddPlanner(n int) {
	if u != nil {
		u.PlannerTokens += n
	}
}

// AddSynthesizer records synthesizer chat tokens.
func (u *RunUsage) AddSynthesizer(n int) {
	if u != nil {
		u.SynthesizerTokens += n
	}
}

// Total returns all tokens consumed by the run.
func (u *RunUsage) Total() int {
	if u == nil {
		return 0
	}
	return u.EmbeddingTokens + u.PlannerTokens + u.SynthesizerTokens
}
