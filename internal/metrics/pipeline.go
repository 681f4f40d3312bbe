package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline and store Prometheus metrics.
var (
	PipelineRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vecagent",
			Name:      "pipeline_runs_total",
			Help:      "Pipeline runs by outcome",
		},
		[]string{"status"},
	)

	PipelineRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "vecagent",
			Name:      "pipeline_run_duration_seconds",
			Help:      "End-to-end pipeline run duration in seconds",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 80},
		},
	)

	BulkInsertDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vecagent",
			Name:      "bulk_insert_documents_total",
			Help:      "Documents written by bulk insert, by result",
		},
		[]string{"result"}, // inserted / failed
	)

	VectorSearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "vecagent",
			Name:      "vector_search_results",
			Help:      "Number of results returned per vector search",
			Buckets:   []float64{0, 1, 3, 5, 10, 20},
		},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers pipeline and store metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(PipelineRunsTotal)
	prometheus.MustRegister(PipelineRunDuration)
	prometheus.MustRegister(BulkInsertDocumentsTotal)
	prometheus.MustRegister(VectorSearchResults)
	pipelineMetricsRegistered = true
}
