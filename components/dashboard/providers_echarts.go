package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Chart kinds supported by EChartsRenderer.
const (
	ChartBar  = "bar"
	ChartLine = "line"
	ChartPie  = "pie"
)

const defaultChartHeight = "320px"

var sharedChartCache = NewChartCache(5 * time.Minute)

// ChartSeries is one legend entry. Values line up with ChartSpec.Categories.
type ChartSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// ChartSpec is everything needed to draw a chart. Pie charts use Categories as
// slice names and only the first series.
type ChartSpec struct {
	Kind       string        `json:"kind"`
	Title      string        `json:"title"`
	Subtitle   string        `json:"subtitle,omitempty"`
	Theme      string        `json:"theme,omitempty"`
	Categories []string      `json:"categories"`
	Series     []ChartSeries `json:"series"`
}

// EChartsRenderer turns chart specs into go-echarts HTML snippets.
type EChartsRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
	height     string
}

// EChartsRendererOption customizes renderer behavior.
type EChartsRendererOption func(*EChartsRenderer)

// WithChartCache injects a render cache. A nil cache renders every time.
func WithChartCache(cache RenderCache) EChartsRendererOption {
	return func(r *EChartsRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the default theme (Westeros when unset).
func WithChartTheme(theme string) EChartsRendererOption {
	return func(r *EChartsRenderer) {
		r.theme = theme
	}
}

// WithChartAssetsHost rewrites the host the ECharts runtime loads from.
func WithChartAssetsHost(host string) EChartsRendererOption {
	return func(r *EChartsRenderer) {
		r.assetsHost = host
	}
}

// WithChartHeight overrides the CSS height of rendered charts.
func WithChartHeight(height string) EChartsRendererOption {
	return func(r *EChartsRenderer) {
		r.height = height
	}
}

// NewEChartsRenderer builds a renderer backed by the shared chart cache.
func NewEChartsRenderer(options ...EChartsRendererOption) *EChartsRenderer {
	r := &EChartsRenderer{
		cache:  sharedChartCache,
		theme:  types.ThemeWesteros,
		height: defaultChartHeight,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Render returns the chart HTML, served from the cache when the same spec was
// rendered recently.
func (r *EChartsRenderer) Render(spec ChartSpec) (string, error) {
	spec.Kind = strings.ToLower(spec.Kind)
	if strings.TrimSpace(spec.Theme) == "" {
		spec.Theme = r.theme
	}
	if len(spec.Series) == 0 {
		return "", fmt.Errorf("dashboard: chart %q has no series", spec.Title)
	}
	render := func() (string, error) { return r.render(spec) }
	if r.cache == nil {
		return render()
	}
	return r.cache.GetOrRender(specKey(spec), render)
}

func (r *EChartsRenderer) render(spec ChartSpec) (string, error) {
	switch spec.Kind {
	case ChartBar:
		bar := charts.NewBar()
		bar.SetGlobalOptions(r.globalOptions(spec)...)
		bar.SetXAxis(spec.Categories)
		for _, s := range spec.Series {
			bar.AddSeries(s.Name, barData(spec.Categories, s.Values))
		}
		return renderChart(bar)
	case ChartLine:
		line := charts.NewLine()
		line.SetGlobalOptions(r.globalOptions(spec)...)
		line.SetXAxis(spec.Categories)
		for _, s := range spec.Series {
			line.AddSeries(s.Name, lineData(spec.Categories, s.Values))
		}
		line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		return renderChart(line)
	case ChartPie:
		pie := charts.NewPie()
		pie.SetGlobalOptions(r.globalOptions(spec)...)
		first := spec.Series[0]
		pie.AddSeries(first.Name, pieData(spec.Categories, first.Values))
		pie.SetSeriesOptions(charts.WithPieChartOpts(opts.PieChart{Radius: []string{"45%", "70%"}}))
		return renderChart(pie)
	default:
		return "", fmt.Errorf("dashboard: unsupported chart type: %s", spec.Kind)
	}
}

func (r *EChartsRenderer) globalOptions(spec ChartSpec) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  spec.Theme,
		Width:  "100%",
		Height: r.height,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: spec.Title, Subtitle: spec.Subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(len(spec.Series) > 1 || spec.Kind == ChartPie)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func categoryAt(categories []string, i int) string {
	if i < len(categories) {
		return categories[i]
	}
	return fmt.Sprintf("Item %d", i+1)
}

func barData(categories []string, values []float64) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Name: categoryAt(categories, i), Value: v}
	}
	return data
}

func lineData(categories []string, values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Name: categoryAt(categories, i), Value: v}
	}
	return data
}

func pieData(categories []string, values []float64) []opts.PieData {
	data := make([]opts.PieData, len(values))
	for i, v := range values {
		data[i] = opts.PieData{Name: categoryAt(categories, i), Value: v}
	}
	return data
}
