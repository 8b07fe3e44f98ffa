package dashboard

import (
	"context"
	"log/slog"
)

// Telemetry records dashboard events for observability. pkg/telemetry backs
// it with OpenTelemetry counters.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// TelemetryFunc adapts a plain function to Telemetry.
type TelemetryFunc func(ctx context.Context, event string, payload map[string]any)

// Record calls f.
func (f TelemetryFunc) Record(ctx context.Context, event string, payload map[string]any) {
	f(ctx, event, payload)
}

// MultiTelemetry fans every event out to each sink in order.
type MultiTelemetry []Telemetry

// Record implements Telemetry.
func (m MultiTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	for _, sink := range m {
		if sink != nil {
			sink.Record(ctx, event, payload)
		}
	}
}

// LogTelemetry writes each event to logger at debug level.
func LogTelemetry(logger *slog.Logger) Telemetry {
	if logger == nil {
		logger = slog.Default()
	}
	return TelemetryFunc(func(ctx context.Context, event string, payload map[string]any) {
		if !logger.Enabled(ctx, slog.LevelDebug) {
			return
		}
		attrs := make([]any, 0, len(payload)*2+2)
		attrs = append(attrs, "event", event)
		for k, v := range payload {
			attrs = append(attrs, k, v)
		}
		logger.DebugContext(ctx, "telemetry", attrs...)
	})
}

// NormalizeTelemetry returns t, or a sink that drops events when t is nil.
func NormalizeTelemetry(t Telemetry) Telemetry {
	return normalizeTelemetry(t)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}
