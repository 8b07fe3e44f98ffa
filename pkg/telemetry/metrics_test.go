package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRecorderCountsEvents(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	rec, err := NewRecorder(provider)
	require.NoError(t, err)

	ctx := context.Background()
	rec.Record(ctx, "dashboard.widget.table_action", map[string]any{"widget_id": "orders", "action": "sort"})
	rec.Record(ctx, "dashboard.widget.table_action", map[string]any{"widget_id": "orders", "action": "sort"})
	rec.Record(ctx, "dashboard.select.stale", map[string]any{"seq": 3, "ignored": 1.5})

	assert.EqualValues(t, 2, rec.Count("dashboard.widget.table_action"))
	assert.EqualValues(t, 1, rec.Count("dashboard.select.stale"))

	var data metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &data))
	require.Len(t, data.ScopeMetrics, 1)
	require.Len(t, data.ScopeMetrics[0].Metrics, 1)
	m := data.ScopeMetrics[0].Metrics[0]
	assert.Equal(t, EventCounterName, m.Name)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	totals := map[string]int64{}
	for _, point := range sum.DataPoints {
		event, _ := point.Attributes.Value(attribute.Key("event"))
		totals[event.AsString()] += point.Value
		_, hasFloat := point.Attributes.Value(attribute.Key("ignored"))
		assert.False(t, hasFloat)
	}
	assert.Equal(t, map[string]int64{
		"dashboard.widget.table_action": 2,
		"dashboard.select.stale":        1,
	}, totals)
}

func TestRecorderWithoutProvider(t *testing.T) {
	rec, err := NewRecorder(nil)
	require.NoError(t, err)
	rec.Record(context.Background(), "dashboard.seed", nil)
	rec.Record(context.Background(), "", nil)
	assert.EqualValues(t, 1, rec.Count("dashboard.seed"))

	var nilRec *Recorder
	nilRec.Record(context.Background(), "noop", nil)
}
