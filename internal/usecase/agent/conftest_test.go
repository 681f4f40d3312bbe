package agent

import (
	"context"

	"github.com/kailas-cloud/vecagent/internal/domain/chat"
	"github.com/kailas-cloud/vecagent/internal/domain/toolcall"
)

// --- Mocks ---

type mockCompleter struct {
	resp  chat.Response
	err   error
	calls int
	last  chat.Request
}

func (m *mockCompleter) Complete(_ context.Context, req chat.Request) (chat.Response, error) {
	m.calls++
	m.last = req
	return m.resp, m.err
}

type mockTool struct {
	output   string
	err      error
	calls    int
	gotInput string
	gotQuery string
	gotK     int
}

func (m *mockTool) Name() string        { return toolcall.SearchToolName }
func (m *mockTool) Description() string { return "search hotels" }

func (m *mockTool) Definition() chat.ToolDefinition {
	return chat.ToolDefinition{Name: toolcall.SearchToolName, Parameters: map[string]any{"type": "object"}}
}

func (m *mockTool) Call(_ context.Context, input string) (string, error) {
	m.calls++
	m.gotInput = input
	args, err := toolcall.Decode(input)
	if err != nil {
		return "", err
	}
	m.gotQuery = args.Query
	m.gotK = args.NearestNeighbors
	return m.output, m.err
}

func toolCallResponse(name, args string) chat.Response {
	return chat.Response{
		Choices:      1,
		FinishReason: chat.FinishToolCalls,
		ToolCalls:    []chat.ToolCall{{ID: "call_1", Type: "function", Name: name, Arguments: args}},
		Usage:        chat.Usage{TotalTokens: 100},
	}
}
