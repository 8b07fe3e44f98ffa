// Package telemetry records dashboard events as OpenTelemetry metrics.
package telemetry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MeterName is the instrumentation scope of every dashboard instrument.
const MeterName = "github.com/goliatone/go-admin-dashboard"

// EventCounterName is the counter incremented once per recorded event.
const EventCounterName = "dashboard.events"

// Recorder implements dashboard.Telemetry and commands.Telemetry. Each event
// increments the dashboard.events counter with an "event" attribute plus the
// payload's string, bool and integer values.
type Recorder struct {
	events metric.Int64Counter

	mu     sync.Mutex
	counts map[string]int64
}

// NewRecorder builds a Recorder on mp. A nil provider records to a no-op meter
// while still keeping in-process counts.
func NewRecorder(mp metric.MeterProvider) (*Recorder, error) {
	if mp == nil {
		mp = noop.NewMeterProvider()
	}
	counter, err := mp.Meter(MeterName).Int64Counter(
		EventCounterName,
		metric.WithDescription("Dashboard widget and command events"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create counter: %w", err)
	}
	return &Recorder{events: counter, counts: map[string]int64{}}, nil
}

// Record increments the event counter.
func (r *Recorder) Record(ctx context.Context, event string, payload map[string]any) {
	if r == nil || event == "" {
		return
	}
	r.events.Add(ctx, 1, metric.WithAttributes(attributes(event, payload)...))
	r.mu.Lock()
	r.counts[event]++
	r.mu.Unlock()
}

// Count reports how many times event was recorded by this process.
func (r *Recorder) Count(event string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[event]
}

func attributes(event string, payload map[string]any) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("event", event)}
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		switch v := payload[key].(type) {
		case string:
			attrs = append(attrs, attribute.String(key, v))
		case bool:
			attrs = append(attrs, attribute.Bool(key, v))
		case int:
			attrs = append(attrs, attribute.Int(key, v))
		case int64:
			attrs = append(attrs, attribute.Int64(key, v))
		}
	}
	return attrs
}
