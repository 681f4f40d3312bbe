package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPipelineMetrics_Labels(t *testing.T) {
	PipelineRunsTotal.WithLabelValues("ok").Inc()
	BulkInsertDocumentsTotal.WithLabelValues("failed").Add(2)

	if v := testutil.ToFloat64(PipelineRunsTotal.WithLabelValues("ok")); v < 1 {
		t.Errorf("pipeline_runs_total = %f, want >= 1", v)
	}
	if v := testutil.ToFloat64(BulkInsertDocumentsTotal.WithLabelValues("failed")); v < 2 {
		t.Errorf("bulk_insert_documents_total = %f, want >= 2", v)
	}
}

func TestRegisterPipelineMetrics_Idempotent(t *testing.T) {
	RegisterPipelineMetrics()
	RegisterPipelineMetrics()
	if !pipelineMetricsRegistered {
		t.Error("expected metrics registered")
	}
}
