package budget

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/vecagent/internal/domain/chat"
)

// GuardedCompleter charges chat completions against the shared token budget.
// Tokens are charged to agent (planner or synthesizer).
type GuardedCompleter struct {
	inner   chat.Completer
	agent   string
	tracker *Tracker
}

// NewGuardedCompleter wraps inner. A nil tracker disables the guard.
func NewGuardedCompleter(inner chat.Completer, agent string, tracker *Tracker) *GuardedCompleter {
	return &GuardedCompleter{inner: inner, agent: agent, tracker: tracker}
}

// Complete checks the budget, delegates, and records total tokens.
func (g *GuardedCompleter) Complete(ctx context.Context, req chat.Request) (chat.Response, error) {
	if g.tracker == nil {
		return g.inner.Complete(ctx, req) //nolint:wrapcheck // transparent decorator
	}
	if err := g.tracker.Check(ctx); err != nil {
		return chat.Response{}, fmt.Errorf("budget check: %w", err)
	}
	resp, err := g.inner.Complete(ctx, req)
	if err != nil {
		return chat.Response{}, err //nolint:wrapcheck // transparent decorator
	}
	g.tracker.Record(g.agent, int64(resp.Usage.TotalTokens))
	return resp, nil
}
