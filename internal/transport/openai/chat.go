package openai

import (
	"context"
	"math"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecagent/internal/domain"
	"github.com/kailas-cloud/vecagent/internal/domain/chat"
	"github.com/kailas-cloud/vecagent/internal/metrics"
)

// ChatCompleter implements chat.Completer for one agent over Azure OpenAI chat completions.
type ChatCompleter struct {
	client *openai.Client
	agent  string
	logger *zap.Logger
}

// NewChatCompleter creates a completer. agent labels metrics and logs (planner, synthesizer).
func NewChatCompleter(client *openai.Client, agent string, logger *zap.Logger) *ChatCompleter {
	return &ChatCompleter{client: client, agent: agent, logger: logger}
}

// Complete sends one chat completion request and maps the first choice back to the domain.
func (c *ChatCompleter) Complete(ctx context.Context, req chat.Request) (chat.Response, error) {
	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, toOpenAIRequest(req))
	duration := time.Since(start)

	if err != nil {
		metrics.ObserveModelError(c.agent, req.Deployment, "api_error")
		return chat.Response{}, parseAPIError("chat", err, domain.ErrChatProviderError)
	}

	metrics.ObserveModelCall(c.agent, req.Deployment, duration.Seconds(),
		resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	out := fromOpenAIResponse(resp)

	c.logger.Debug("Chat completion finished",
		zap.String("agent", c.agent),
		zap.String("deployment", req.Deployment),
		zap.Duration("duration", duration),
		zap.String("finish_reason", string(out.FinishReason)),
		zap.Int("tool_calls", len(out.ToolCalls)),
		zap.Int("total_tokens", out.Usage.TotalTokens),
	)
	return out, nil
}

func toOpenAIRequest(req chat.Request) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}

	out := openai.ChatCompletionRequest{
		Model:       req.Deployment,
		Messages:    msgs,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
	}
	// temperature is omitempty on the wire; a true zero would fall back to the server default of 1.
	if out.Temperature == 0 {
		out.Temperature = math.SmallestNonzeroFloat32
	}

	for _, t := range req.Tools {
		out.Tools = append(out.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return out
}

func fromOpenAIResponse(resp openai.ChatCompletionResponse) chat.Response {
	out := chat.Response{
		Usage: chat.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	if len(resp.Choices) == 0 {
		return out
	}

	choice := resp.Choices[0]
	out.Content = choice.Message.Content
	out.FinishReason = chat.FinishReason(choice.FinishReason)
	out.Choices = len(resp.Choices)
	for _, tc := range choice.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, chat.ToolCall{
			ID:        tc.ID,
			Type:      string(tc.Type),
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return out
}
