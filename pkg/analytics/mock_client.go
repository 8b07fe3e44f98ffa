package analytics

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	dashboard "github.com/goliatone/go-admin-dashboard/components/dashboard"
)

// MockData seeds deterministic analytics responses for tests or local demos.
type MockData struct {
	KPIs    []dashboard.KPI
	Revenue []dashboard.RevenueSeries
}

// DefaultMockData returns the demo dashboard figures.
func DefaultMockData() MockData {
	return MockData{
		KPIs:    dashboard.DefaultKPIs(),
		Revenue: dashboard.DefaultRevenueSeries(),
	}
}

// MockClient implements Client using in-memory fixtures.
type MockClient struct {
	data MockData
	mu   sync.RWMutex
}

// NewMockClient builds a mock analytics client from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	return &MockClient{data: data}
}

// SetKPIs replaces the KPI fixtures, e.g. to simulate a refresh.
func (c *MockClient) SetKPIs(kpis []dashboard.KPI) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.KPIs = append([]dashboard.KPI(nil), kpis...)
}

// FetchKPIs returns the fixtures matching codes, or all of them when codes is
// empty.
func (c *MockClient) FetchKPIs(_ context.Context, codes []string) ([]dashboard.KPI, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]dashboard.KPI, 0, len(c.data.KPIs))
	for _, kpi := range c.data.KPIs {
		if len(codes) == 0 || slices.Contains(codes, kpi.Code) {
			out = append(out, kpi)
		}
	}
	return out, nil
}

// FetchRevenue returns a copy of the fixture for metric. The locale is ignored.
func (c *MockClient) FetchRevenue(_ context.Context, metric, _ string) (dashboard.RevenueSeries, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, series := range c.data.Revenue {
		if strings.EqualFold(series.Metric, metric) {
			return cloneSeries(series), nil
		}
	}
	return dashboard.RevenueSeries{}, fmt.Errorf("analytics: unknown revenue metric %q", metric)
}

func cloneSeries(s dashboard.RevenueSeries) dashboard.RevenueSeries {
	out := dashboard.RevenueSeries{
		Metric:     s.Metric,
		Categories: append([]string(nil), s.Categories...),
		Series:     make([]dashboard.ChartSeries, len(s.Series)),
	}
	for i, series := range s.Series {
		out.Series[i] = dashboard.ChartSeries{Name: series.Name, Values: append([]float64(nil), series.Values...)}
	}
	if len(s.Totals) > 0 {
		out.Totals = make(map[string]float64, len(s.Totals))
		for k, v := range s.Totals {
			out.Totals[k] = v
		}
	}
	return out
}
