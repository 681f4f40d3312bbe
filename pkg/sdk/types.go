package vecagent

import "time"

// Recommendation is the result of one pipeline run.
type Recommendation struct {
	RunID            string `json:"run_id"`
	Query            string `json:"query"`
	NearestNeighbors int    `json:"nearest_neighbors"`
	SearchQuery      string `json:"search_query"`
	ToolOutput       string `json:"tool_output"`
	Answer           string `json:"answer"`
	Usage            Usage  `json:"usage"`
	DurationMs       int64  `json:"duration_ms"`
}

// Duration returns the server-side run time.
func (r Recommendation) Duration() time.Duration {
	return time.Duration(r.DurationMs) * time.Millisecond
}

// Usage is the token consumption of one run.
type Usage struct {
	EmbeddingTokens   int `json:"embedding_tokens"`
	PlannerTokens     int `json:"planner_tokens"`
	SynthesizerTokens int `json:"synthesizer_tokens"`
	TotalTokens       int `json:"total_tokens"`
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            `json:"status"` // "ok", "degraded", "error"
	Checks map[string]string `json:"checks"` // component → "ok"/"error"
}

// BudgetReport is the token budget for one window. Limit and Remaining are -1 when unlimited.
type BudgetReport struct {
	Period      string `json:"period"`
	PeriodStart int64  `json:"period_start_ms"`
	PeriodEnd   int64  `json:"period_end_ms"`
	TokensLimit int64  `json:"tokens_limit"`
	TokensUsed  int64  `json:"tokens_used"`
	Remaining   int64  `json:"tokens_remaining"`
	Exhausted   bool   `json:"is_exhausted"`
	// ByAgent splits TokensUsed between embedding, planner and synthesizer.
	ByAgent map[string]int64 `json:"tokens_by_agent,omitempty"`
}
