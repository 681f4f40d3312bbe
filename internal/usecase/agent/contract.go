package agent

import (
	"github.com/tmc/langchaingo/tools"

	"github.com/kailas-cloud/vecagent/internal/domain/chat"
)

// SearchTool is the single tool the planner exposes to the model.
// The planner dispatches the model's call through tools.Tool.Call.
type SearchTool interface {
	tools.Tool
	Definition() chat.ToolDefinition
}
