package agent

import (
	"fmt"

	"github.com/kailas-cloud/vecagent/internal/domain"
	"github.com/kailas-cloud/vecagent/internal/domain/chat"
	"github.com/kailas-cloud/vecagent/internal/domain/toolcall"
)

const functionToolType = "function"

// extractSearchCall validates the planner response and decodes the search tool arguments.
// Checks run in order: choices, finish reason, tool presence, tool type, tool name, arguments.
func extractSearchCall(resp chat.Response) (toolcall.SearchArgs, error) {
	if resp.Choices == 0 {
		return toolcall.SearchArgs{}, fmt.Errorf("planner returned no choices: %w", domain.ErrChatProviderError)
	}

	switch resp.FinishReason {
	case chat.FinishToolCalls, chat.FinishStop:
	default:
		return toolcall.SearchArgs{}, domain.NewTruncatedResponse(string(resp.FinishReason))
	}

	if len(resp.ToolCalls) == 0 {
		return toolcall.SearchArgs{}, domain.NewToolNotInvoked(resp.Content, string(resp.FinishReason))
	}

	call := resp.ToolCalls[0]
	if call.Type != functionToolType {
		return toolcall.SearchArgs{}, fmt.Errorf("tool call type %q: %w", call.Type, domain.ErrUnexpectedToolInvocation)
	}
	if call.Name != toolcall.SearchToolName {
		return toolcall.SearchArgs{}, fmt.Errorf("tool %q: %w", call.Name, domain.ErrUnexpectedToolInvocation)
	}

	args, err := toolcall.Decode(call.Arguments)
	if err != nil {
		return toolcall.SearchArgs{}, fmt.Errorf("tool %s: %w", call.Name, err)
	}
	return args, nil
}
