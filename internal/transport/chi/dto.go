package chi

// ErrorCode is a machine-readable error identifier returned to HTTP clients.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest             ErrorCode = "bad_request"
	ErrorCodeUnauthorized           ErrorCode = "unauthorized"
	ErrorCodeValidationFailed       ErrorCode = "validation_failed"
	ErrorCodeRateLimited            ErrorCode = "rate_limited"
	ErrorCodeQuotaExceeded          ErrorCode = "quota_exceeded"
	ErrorCodeEmbeddingProviderError ErrorCode = "embedding_provider_error"
	ErrorCodeChatProviderError      ErrorCode = "chat_provider_error"
	ErrorCodePlannerFailed          ErrorCode = "planner_failed"
	ErrorCodeBusy                   ErrorCode = "busy"
	ErrorCodeInternalError          ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// RecommendRequest is the body of POST /v1/recommend.
// Empty query and zero nearestNeighbors fall back to the configured defaults.
type RecommendRequest struct {
	Query            string `json:"query"`
	NearestNeighbors int    `json:"nearestNeighbors"`
}

// RecommendResponse is the result of one pipeline run.
type RecommendResponse struct {
	RunID            string    `json:"run_id"`
	Query            string    `json:"query"`
	NearestNeighbors int       `json:"nearest_neighbors"`
	SearchQuery      string    `json:"search_query"`
	ToolOutput       string    `json:"tool_output"`
	Answer           string    `json:"answer"`
	Usage            UsageInfo `json:"usage"`
	DurationMs       int64     `json:"duration_ms"`
}

// UsageInfo reports the tokens a run consumed.
type UsageInfo struct {
	EmbeddingTokens   int `json:"embedding_tokens"`
	PlannerTokens     int `json:"planner_tokens"`
	SynthesizerTokens int `json:"synthesizer_tokens"`
	TotalTokens       int `json:"total_tokens"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// UsageResponse is the body of GET /v1/usage.
type UsageResponse struct {
	Period      string `json:"period"`
	PeriodStart int64  `json:"period_start_ms"`
	PeriodEnd   int64  `json:"period_end_ms"`
	TokensLimit int64  `json:"tokens_limit"`
	TokensUsed  int64  `json:"tokens_used"`
	Remaining   int64  `json:"tokens_remaining"`
	Exhausted   bool   `json:"is_exhausted"`
	// ByAgent maps embedding, planner and synthesizer to their share of TokensUsed.
	ByAgent map[string]int64 `json:"tokens_by_agent,omitempty"`
}
