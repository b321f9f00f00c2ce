package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voicejournal/promptlab/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestOTel_OneSpanPerRecord(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	o, err := NewOTel(context.Background(), OTelOptions{Exporter: exporter})
	require.NoError(t, err)

	rec := models.TraceRecord{
		Name: "task_experiment",
		Input: map[string]any{
			"sample_id":      "sample_03",
			"prompt_version": "v3_examples",
			"transcript":     "today i shipped the release.",
		},
		Output: map[string]any{
			"prediction": []models.Task{{TaskText: "shipped the release", Category: models.CategoryCreating}},
			"scores":     models.TaskScores{Recall: 1, Precision: 0.5, F1: 2.0 / 3, CategoryAccuracy: 1},
		},
		Metadata: map[string]any{"model": "gemini-2.5-flash-lite", "experiment": "tasks"},
	}
	require.NoError(t, o.Trace(context.Background(), rec))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "task_experiment", spans[0].Name)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "sample_03", attrs["promptlab.sample_id"].AsString())
	assert.Equal(t, "v3_examples", attrs["promptlab.prompt_version"].AsString())
	assert.Equal(t, "tasks", attrs["promptlab.experiment"].AsString())
	assert.InDelta(t, 0.5, attrs["promptlab.score.precision"].AsFloat64(), 1e-9)
	assert.InDelta(t, 1.0, attrs["promptlab.score.category_accuracy"].AsFloat64(), 1e-9)
	assert.Contains(t, attrs["promptlab.output"].AsString(), "shipped the release")

	require.NoError(t, o.Flush(context.Background()))
}

func TestNumericScores(t *testing.T) {
	assert.Empty(t, numericScores(nil))
	assert.Equal(t, map[string]float64{"overall": 0.25}, numericScores(map[string]any{"overall": 0.25, "note": "x"}))
	assert.Equal(t,
		map[string]float64{"wins": 1, "drains": 0, "future_focus": 0.5, "overall": 0.5},
		numericScores(models.SummaryScores{Wins: 1, FutureFocus: 0.5, Overall: 0.5}))
}
