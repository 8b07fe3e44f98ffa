package dashboard

import (
	"context"
)

const (
	kpiCardsCode         = "admin.widget.kpi_cards"
	projectionsChartCode = "admin.widget.projections_chart"
	revenueChartCode     = "admin.widget.revenue_chart"
	revenueLocationCode  = "admin.widget.revenue_location"
	totalSalesCode       = "admin.widget.total_sales"
	recentActivityCode   = "admin.widget.recent_activity"
)

// DataSources backs the built-in providers. Nil fields fall back to the demo
// data sets.
type DataSources struct {
	KPIs     KPIRepository
	Revenue  RevenueRepository
	Activity ActivityFeed
	Charts   *EChartsRenderer
}

func (d DataSources) withDefaults() DataSources {
	if d.KPIs == nil {
		d.KPIs = StaticKPIRepository{KPIs: DefaultKPIs()}
	}
	if d.Revenue == nil {
		d.Revenue = NewStaticRevenueRepository(DefaultRevenueSeries()...)
	}
	if d.Activity == nil {
		d.Activity = DefaultActivityFeed()
	}
	if d.Charts == nil {
		d.Charts = NewEChartsRenderer()
	}
	return d
}

// DefaultProviders returns the providers of the non-interactive widgets.
func DefaultProviders(sources DataSources) map[string]Provider {
	sources = sources.withDefaults()
	return map[string]Provider{
		kpiCardsCode:         NewKPIProvider(sources.KPIs),
		projectionsChartCode: NewRevenueChartProvider(sources.Revenue, RevenueProjections, ChartBar, "Projections vs Actuals", sources.Charts),
		revenueChartCode:     NewRevenueChartProvider(sources.Revenue, RevenueTrend, ChartLine, "Revenue", sources.Charts),
		revenueLocationCode:  NewRevenueChartProvider(sources.Revenue, RevenueLocations, ChartBar, "Revenue by Location", sources.Charts),
		totalSalesCode:       NewRevenueChartProvider(sources.Revenue, RevenueChannels, ChartPie, "Total Sales", sources.Charts),
		recentActivityCode:   newRecentActivityProvider(sources.Activity),
	}
}

// RegisterProviders replaces the built-in providers with ones backed by
// sources.
func RegisterProviders(reg ProviderRegistry, sources DataSources) error {
	for code, provider := range DefaultProviders(sources) {
		if err := reg.RegisterProvider(code, provider); err != nil {
			return err
		}
	}
	return nil
}

func newRecentActivityProvider(feed ActivityFeed) Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		if feed == nil {
			feed = DefaultActivityFeed()
		}
		limit := configInt(meta.Instance.Configuration, "limit", 10)
		items, err := feed.Recent(ctx, meta.Viewer, limit)
		if err != nil {
			return nil, err
		}
		payload := make([]map[string]any, 0, len(items))
		for _, item := range items {
			payload = append(payload, map[string]any{
				"user":    item.User,
				"action":  item.Action,
				"details": item.Details,
				"ago":     item.Ago,
			})
		}
		title := translateOrFallback(ctx, meta.Translator, "dashboard.widget.recent_activity.title", meta.Viewer.Locale, "Recent Activity", nil)
		return WidgetData{"title": title, "items": payload}, nil
	})
}
