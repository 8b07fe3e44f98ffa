package httpapi

import (
	"context"
	"net/http"

	servertiming "github.com/mitchellh/go-server-timing"
)

// WithServerTiming wraps next so every response carries a Server-Timing
// header with the metrics recorded by the handlers.
func WithServerTiming(next http.Handler) http.Handler {
	return servertiming.Middleware(next, nil)
}

type timingMetric struct {
	metric *servertiming.Metric
}

func (m timingMetric) Stop() {
	if m.metric != nil {
		m.metric.Stop()
	}
}

// startTiming is a no-op when the request did not pass through
// WithServerTiming.
func startTiming(ctx context.Context, name string) timingMetric {
	timing := servertiming.FromContext(ctx)
	if timing == nil {
		return timingMetric{}
	}
	return timingMetric{metric: timing.NewMetric(name).Start()}
}
