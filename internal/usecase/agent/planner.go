package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecagent/internal/domain"
	"github.com/kailas-cloud/vecagent/internal/domain/chat"
	"github.com/kailas-cloud/vecagent/internal/logger"
)

// Planner call shape.
const (
	plannerTemperature = 0
	plannerTopP        = 1
	plannerMaxTokens   = 1000
)

// Plan is what the planner decided and what the search tool returned for it.
type Plan struct {
	Query      string
	K          int
	ToolOutput string
}

// Planner turns a free-text request into exactly one search tool invocation.
type Planner struct {
	llm        chat.Completer
	tool       SearchTool
	deployment string
	logger     *zap.Logger
}

// NewPlanner creates a planner agent.
func NewPlanner(llm chat.Completer, tool SearchTool, deployment string, logger *zap.Logger) *Planner {
	return &Planner{llm: llm, tool: tool, deployment: deployment, logger: logger}
}

// Run asks the model for a refined search and executes it. requestedK fills in
// a neighbor count the model left out. The tool output is returned unmodified.
func (p *Planner) Run(ctx context.Context, userQuery string, requestedK int) (Plan, error) {
	log := logger.FromContextOr(ctx, p.logger)

	resp, err := p.llm.Complete(ctx, chat.Request{
		Deployment: p.deployment,
		Messages: []chat.Message{
			{Role: chat.RoleSystem, Content: plannerSystemPrompt},
			{Role: chat.RoleUser, Content: plannerUserPrompt(userQuery, requestedK)},
		},
		Tools:       []chat.ToolDefinition{p.tool.Definition()},
		Temperature: plannerTemperature,
		TopP:        plannerTopP,
		MaxTokens:   plannerMaxTokens,
	})
	if err != nil {
		return Plan{}, fmt.Errorf("planner completion: %w", err)
	}
	domain.UsageFromContext(ctx).AddPlanner(resp.Usage.TotalTokens)

	args, err := extractSearchCall(resp)
	if err != nil {
		log.Error("Planner did not produce a usable tool call",
			zap.String("finish_reason", string(resp.FinishReason)),
			zap.Int("tool_calls", len(resp.ToolCalls)),
			zap.Error(err),
		)
		return Plan{}, err
	}
	if len(resp.ToolCalls) > 1 {
		log.Warn("Planner requested several tool calls, running the first only",
			zap.Int("tool_calls", len(resp.ToolCalls)))
	}

	args.NearestNeighbors = args.ResolveK(requestedK)
	log.Info("Planner selected search",
		zap.String("query", args.Query),
		zap.Int("k", args.NearestNeighbors),
	)

	input, err := args.Encode()
	if err != nil {
		return Plan{}, err
	}
	out, err := p.tool.Call(ctx, input)
	if err != nil {
		return Plan{}, fmt.Errorf("tool %s: %w", p.tool.Name(), err)
	}

	return Plan{
		Query:      args.Query,
		K:          args.NearestNeighbors,
		ToolOutput: out,
	}, nil
}
