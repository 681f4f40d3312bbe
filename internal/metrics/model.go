package metrics

import "github.com/prometheus/client_golang/prometheus"

// Model call metrics. Every call to the model provider carries an agent label:
// embedding for the search tool, planner and synthesizer for the two chat agents.
var (
	ModelRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vecagent",
			Name:      "model_requests_total",
			Help:      "Model provider requests by agent and outcome",
		},
		[]string{"agent", "deployment", "status"},
	)

	ModelRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vecagent",
			Name:      "model_request_duration_seconds",
			Help:      "Model provider request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"agent", "deployment"},
	)

	ModelTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vecagent",
			Name:      "model_tokens_total",
			Help:      "Tokens reported by the model provider",
		},
		[]string{"agent", "type"}, // prompt / completion
	)

	ModelErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vecagent",
			Name:      "model_errors_total",
			Help:      "Model provider failures by agent and kind",
		},
		[]string{"agent", "error_type"},
	)

	// BudgetTokensUsed is each agent's share of the shared token budget in the current window.
	BudgetTokensUsed = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "vecagent",
			Name:      "budget_tokens_used",
			Help:      "Tokens charged to the shared budget in the current window",
		},
		[]string{"period", "agent"},
	)

	// BudgetTokensRemaining is -1 when the window is unlimited.
	BudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "vecagent",
			Name:      "budget_tokens_remaining",
			Help:      "Tokens left in the shared budget window",
		},
		[]string{"period"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vecagent",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"},
	)
)

var modelMetricsRegistered bool

// RegisterModelMetrics registers model call and budget metrics.
func RegisterModelMetrics() {
	if modelMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		ModelRequestsTotal,
		ModelRequestDuration,
		ModelTokensTotal,
		ModelErrorsTotal,
		BudgetTokensUsed,
		BudgetTokensRemaining,
		EmbeddingCacheTotal,
	)
	modelMetricsRegistered = true
}

// ObserveModelCall records one successful provider call.
func ObserveModelCall(agent, deployment string, seconds float64, promptTokens, completionTokens int) {
	ModelRequestsTotal.WithLabelValues(agent, deployment, "success").Inc()
	ModelRequestDuration.WithLabelValues(agent, deployment).Observe(seconds)
	if promptTokens > 0 {
		ModelTokensTotal.WithLabelValues(agent, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		ModelTokensTotal.WithLabelValues(agent, "completion").Add(float64(completionTokens))
	}
}

// ObserveModelError records one failed provider call.
func ObserveModelError(agent, deployment, errorType string) {
	ModelRequestsTotal.WithLabelValues(agent, deployment, "error").Inc()
	ModelErrorsTotal.WithLabelValues(agent, errorType).Inc()
}
