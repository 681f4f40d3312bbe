package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmbeddingProviderError signals an embedding provider failure or an empty embedding response.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrChatProviderError signals a chat completion provider failure.
	ErrChatProviderError = errors.New("chat provider error")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingQuotaExceeded signals an exhausted token budget (embeddings and chat share it).
	ErrEmbeddingQuotaExceeded = errors.New("token quota exceeded")

	// ErrUnexpectedToolInvocation signals that the planner model called a tool other than the search tool.
	ErrUnexpectedToolInvocation = errors.New("unexpected tool invocation")
	// ErrMalformedToolArguments signals tool call arguments that failed to decode or validate.
	ErrMalformedToolArguments = errors.New("malformed tool arguments")
	// ErrToolNotInvoked signals that the planner model answered without calling any tool.
	ErrToolNotInvoked = errors.New("tool not invoked")
	// ErrTruncatedPlannerResponse signals a planner response that finished for a reason
	// other than a tool call or a normal stop.
	ErrTruncatedPlannerResponse = errors.New("truncated planner response")

	// ErrInvalidQuery signals a pipeline request with a neighbor count outside [1, 20].
	ErrInvalidQuery = errors.New("invalid query")

	// ErrLengthMismatch signals parallel record/vector slices of different length.
	ErrLengthMismatch = errors.New("records and vectors length mismatch")
	// ErrNoDocumentsInserted signals a bulk insert where not a single document was written.
	ErrNoDocumentsInserted = errors.New("no documents inserted")
	// ErrInvalidIndexConfig signals an unsupported vector index configuration.
	ErrInvalidIndexConfig = errors.New("invalid index config")
)

// ToolNotInvokedError wraps ErrToolNotInvoked with whatever the model said instead.
type ToolNotInvokedError struct {
	Content      string
	FinishReason string
}

func (e *ToolNotInvokedError) Error() string {
	if e.Content != "" {
		return fmt.Sprintf("%s: model returned: %s", ErrToolNotInvoked.Error(), e.Content)
	}
	return fmt.Sprintf("%s: no text content, finish_reason: %s", ErrToolNotInvoked.Error(), e.FinishReason)
}

func (e *ToolNotInvokedError) Unwrap() error { return ErrToolNotInvoked }

// NewToolNotInvoked creates a tool-not-invoked error carrying the model's text content.
func NewToolNotInvoked(content, finishReason string) error {
	return &ToolNotInvokedError{Content: content, FinishReason: finishReason}
}

// TruncatedResponseError wraps ErrTruncatedPlannerResponse with the offending finish reason.
type TruncatedResponseError struct {
	FinishReason string
}

func (e *TruncatedResponseError) Error() string {
	if e.FinishReason == "length" {
		return ErrTruncatedPlannerResponse.Error() + ": response was cut off (length limit exceeded)"
	}
	return fmt.Sprintf("%s: unexpected finish reason %q (expected \"tool_calls\" or \"stop\")",
		ErrTruncatedPlannerResponse.Error(), e.FinishReason)
}

func (e *TruncatedResponseError) Unwrap() error { return ErrTruncatedPlannerResponse }

// NewTruncatedResponse creates a truncated planner response error.
func NewTruncatedResponse(finishReason string) error {
	return &TruncatedResponseError{FinishReason: finishReason}
}

// PartialInsertError reports a bulk insert where some documents were rejected.
// It is logged rather than returned when at least one document made it in.
type PartialInsertError struct {
	Inserted int
	Failed   int
}

func (e *PartialInsertError) Error() string {
	return fmt.Sprintf("partial insert: %d inserted, %d failed", e.Inserted, e.Failed)
}
