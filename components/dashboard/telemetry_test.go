package dashboard

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiTelemetryFansOut(t *testing.T) {
	first := &recordingTelemetry{}
	var seen []string
	sink := MultiTelemetry{first, nil, TelemetryFunc(func(_ context.Context, event string, _ map[string]any) {
		seen = append(seen, event)
	})}

	sink.Record(context.Background(), "dashboard.table.action", map[string]any{"action": "sort"})

	assert.Equal(t, []string{"dashboard.table.action"}, first.events)
	assert.Equal(t, []string{"dashboard.table.action"}, seen)
}

func TestLogTelemetryWritesDebugRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	LogTelemetry(logger).Record(context.Background(), "dashboard.select.action", map[string]any{"widget_id": "picker"})
	assert.Contains(t, buf.String(), "event=dashboard.select.action")
	assert.Contains(t, buf.String(), "widget_id=picker")

	buf.Reset()
	quiet := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	LogTelemetry(quiet).Record(context.Background(), "dashboard.select.action", nil)
	assert.Empty(t, buf.String())

	NormalizeTelemetry(nil).Record(context.Background(), "ignored", nil)
}
