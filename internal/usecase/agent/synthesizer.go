package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecagent/internal/domain"
	"github.com/kailas-cloud/vecagent/internal/domain/chat"
	"github.com/kailas-cloud/vecagent/internal/logger"
	"github.com/kailas-cloud/vecagent/internal/usecase/search"
)

const (
	synthesizerTemperature = 0.3
	// synthesizerTopRecords is how many record blocks the synthesizer is allowed to see.
	synthesizerTopRecords = 3
)

// Synthesizer turns a search tool output into a short comparative recommendation.
type Synthesizer struct {
	llm        chat.Completer
	deployment string
	logger     *zap.Logger
}

// NewSynthesizer creates a synthesizer agent.
func NewSynthesizer(llm chat.Completer, deployment string, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{llm: llm, deployment: deployment, logger: logger}
}

// Run makes one tool-free model call over the top records of toolOutput.
func (s *Synthesizer) Run(ctx context.Context, userQuery, toolOutput string) (string, error) {
	summary := search.TopBlocks(toolOutput, synthesizerTopRecords)
	logger.FromContextOr(ctx, s.logger).Debug("Synthesizer context",
		zap.Int("chars", len(summary)),
		zap.Int("records", search.CountBlocks(summary)),
	)

	resp, err := s.llm.Complete(ctx, chat.Request{
		Deployment: s.deployment,
		Messages: []chat.Message{
			{Role: chat.RoleSystem, Content: synthesizerSystemPrompt},
			{Role: chat.RoleUser, Content: synthesizerUserPrompt(userQuery, summary)},
		},
		Temperature: synthesizerTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("synthesizer completion: %w", err)
	}
	domain.UsageFromContext(ctx).AddSynthesizer(resp.Usage.TotalTokens)

	if resp.Choices == 0 {
		return "", fmt.Errorf("synthesizer returned no choices: %w", domain.ErrChatProviderError)
	}
	answer := strings.TrimSpace(resp.Content)
	if answer == "" {
		return "", fmt.Errorf("synthesizer returned empty content (finish_reason %q): %w",
			resp.FinishReason, domain.ErrChatProviderError)
	}
	return answer, nil
}
