package dashboard

import (
	"context"
	"fmt"
	"strings"
)

// Revenue metrics served by a RevenueRepository.
const (
	RevenueProjections = "projections"
	RevenueTrend       = "trend"
	RevenueLocations   = "locations"
	RevenueChannels    = "channels"
)

// RevenueQuery selects a revenue metric for the viewer.
type RevenueQuery struct {
	Metric string
	Viewer ViewerContext
}

// RevenueSeries is a categorical data set. Totals carries headline numbers
// shown next to the chart, such as the current and previous week.
type RevenueSeries struct {
	Metric     string             `json:"metric"`
	Categories []string           `json:"categories"`
	Series     []ChartSeries      `json:"series"`
	Totals     map[string]float64 `json:"totals,omitempty"`
}

// RevenueRepository fetches revenue data for the chart widgets.
type RevenueRepository interface {
	FetchRevenue(ctx context.Context, query RevenueQuery) (RevenueSeries, error)
}

// RevenueChartProvider renders one revenue metric as a chart widget.
type RevenueChartProvider struct {
	repo     RevenueRepository
	metric   string
	kind     string
	title    string
	renderer *EChartsRenderer
}

// NewRevenueChartProvider builds a provider drawing metric as a chart of kind.
func NewRevenueChartProvider(repo RevenueRepository, metric, kind, title string, renderer *EChartsRenderer) *RevenueChartProvider {
	if renderer == nil {
		renderer = NewEChartsRenderer()
	}
	return &RevenueChartProvider{
		repo:     repo,
		metric:   metric,
		kind:     kind,
		title:    title,
		renderer: renderer,
	}
}

// Fetch loads the metric and renders it.
func (p *RevenueChartProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	if p.repo == nil {
		return nil, fmt.Errorf("dashboard: revenue chart %s: repository is required", p.metric)
	}
	cfg := meta.Instance.Configuration
	if cfg == nil {
		cfg = map[string]any{}
	}

	data, err := p.repo.FetchRevenue(ctx, RevenueQuery{Metric: p.metric, Viewer: meta.Viewer})
	if err != nil {
		return nil, fmt.Errorf("dashboard: revenue chart %s: %w", p.metric, err)
	}

	locale := meta.Viewer.Locale
	title := stringValue(cfg["title"], p.title)
	key := fmt.Sprintf("dashboard.widget.%s.title", meta.Instance.DefinitionID)
	title = translateOrFallback(ctx, meta.Translator, key, locale, title, nil)

	categories := make([]string, len(data.Categories))
	for i, c := range data.Categories {
		categories[i] = translateOrFallback(ctx, meta.Translator, c, locale, c, nil)
	}
	series := make([]ChartSeries, len(data.Series))
	for i, s := range data.Series {
		series[i] = ChartSeries{
			Name:   translateOrFallback(ctx, meta.Translator, s.Name, locale, s.Name, nil),
			Values: append([]float64(nil), s.Values...),
		}
	}

	spec := ChartSpec{
		Kind:       p.kind,
		Title:      title,
		Subtitle:   stringValue(cfg["subtitle"], ""),
		Theme:      stringValue(cfg["theme"], ""),
		Categories: categories,
		Series:     series,
	}
	if !boolValue(cfg["show_chart_title"]) {
		spec.Title = ""
	}
	html, err := p.renderer.Render(spec)
	if err != nil {
		return nil, err
	}

	out := WidgetData{
		"chart_html": html,
		"chart_type": p.kind,
		"metric":     p.metric,
		"title":      title,
		"categories": categories,
		"series":     series,
	}
	if len(data.Totals) > 0 {
		totals := make(map[string]float64, len(data.Totals))
		for k, v := range data.Totals {
			totals[k] = v
		}
		out["totals"] = totals
	}
	if p.kind == ChartPie && len(series) > 0 {
		out["legend"] = pieLegend(categories, series[0].Values)
	}
	return out, nil
}

// pieLegend lists each slice with its share of the total, in percent.
func pieLegend(categories []string, values []float64) []map[string]any {
	var sum float64
	for _, v := range values {
		sum += v
	}
	legend := make([]map[string]any, len(values))
	for i, v := range values {
		share := 0.0
		if sum > 0 {
			share = v / sum * 100
		}
		legend[i] = map[string]any{
			"name":  categoryAt(categories, i),
			"value": v,
			"share": share,
		}
	}
	return legend
}

// StaticRevenueRepository serves fixed revenue series keyed by metric.
type StaticRevenueRepository struct {
	series map[string]RevenueSeries
}

// NewStaticRevenueRepository builds a repository over the given series.
func NewStaticRevenueRepository(series ...RevenueSeries) *StaticRevenueRepository {
	repo := &StaticRevenueRepository{series: make(map[string]RevenueSeries, len(series))}
	for _, s := range series {
		repo.series[strings.ToLower(s.Metric)] = s
	}
	return repo
}

// FetchRevenue returns a copy of the series stored for the metric.
func (r *StaticRevenueRepository) FetchRevenue(_ context.Context, query RevenueQuery) (RevenueSeries, error) {
	s, ok := r.series[strings.ToLower(query.Metric)]
	if !ok {
		return RevenueSeries{}, fmt.Errorf("dashboard: unknown revenue metric %q", query.Metric)
	}
	out := RevenueSeries{
		Metric:     s.Metric,
		Categories: append([]string(nil), s.Categories...),
		Series:     make([]ChartSeries, len(s.Series)),
	}
	for i, series := range s.Series {
		out.Series[i] = ChartSeries{Name: series.Name, Values: append([]float64(nil), series.Values...)}
	}
	if len(s.Totals) > 0 {
		out.Totals = make(map[string]float64, len(s.Totals))
		for k, v := range s.Totals {
			out.Totals[k] = v
		}
	}
	return out, nil
}

// DefaultRevenueSeries returns the demo revenue data.
func DefaultRevenueSeries() []RevenueSeries {
	months := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}
	return []RevenueSeries{
		{
			Metric:     RevenueProjections,
			Categories: months,
			Series: []ChartSeries{
				{Name: "Projections", Values: []float64{30, 32, 28, 35, 38, 40}},
				{Name: "Actuals", Values: []float64{28, 31, 25, 34, 37, 39}},
			},
		},
		{
			Metric:     RevenueTrend,
			Categories: months,
			Series: []ChartSeries{
				{Name: "Current Week", Values: []float64{8, 12, 10, 15, 18, 20}},
				{Name: "Previous Week", Values: []float64{7, 9, 8, 12, 15, 18}},
			},
			Totals: map[string]float64{"current_week": 58211, "previous_week": 58768},
		},
		{
			Metric:     RevenueLocations,
			Categories: []string{"New York", "San Francisco", "Sydney", "Singapore"},
			Series: []ChartSeries{
				{Name: "Revenue", Values: []float64{72, 39, 25, 61}},
			},
		},
		{
			Metric:     RevenueChannels,
			Categories: []string{"Direct", "Affiliate", "Sponsored", "E-mail"},
			Series: []ChartSeries{
				{Name: "Total Sales", Values: []float64{300.56, 135.18, 154.02, 48.96}},
			},
		},
	}
}
