package chat

import "context"

// Role of a chat message.
type Role string

// Message roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// FinishReason is why the model stopped generating.
type FinishReason string

// Finish reasons the agents distinguish.
const (
	FinishStop          FinishReason = "stop"
	FinishToolCalls     FinishReason = "tool_calls"
	FinishLength        FinishReason = "length"
	FinishContentFilter FinishReason = "content_filter"
)

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// ToolDefinition is a function the model may call. Parameters is a JSON schema.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolCall is a function invocation requested by the model.
type ToolCall struct {
	ID        string
	Type      string
	Name      string
	Arguments string
}

// Request is a single chat completion call.
// A zero Temperature means deterministic sampling, not the provider default.
type Request struct {
	Deployment  string
	Messages    []Message
	Tools       []ToolDefinition
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// Usage is the token accounting of one completion.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Response is the first choice of a chat completion.
// Choices is how many choices the provider returned; zero leaves the rest empty.
type Response struct {
	Choices      int
	Content      string
	ToolCalls    []ToolCall
	FinishReason FinishReason
	Usage        Usage
}

// Completer sends chat completion requests to a model provider.
type Completer interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
