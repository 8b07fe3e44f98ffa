package analytics

import (
	"context"

	dashboard "github.com/goliatone/go-admin-dashboard/components/dashboard"
)

// NewKPIRepository adapts an analytics client into the KPI cards repository.
func NewKPIRepository(client KPIClient) dashboard.KPIRepository {
	return &kpiRepository{client: client}
}

type kpiRepository struct {
	client KPIClient
}

// ListKPIs asks for every metric; the provider narrows them per instance.
func (r *kpiRepository) ListKPIs(ctx context.Context) ([]dashboard.KPI, error) {
	return r.client.FetchKPIs(ctx, nil)
}

// NewRevenueRepository adapts the analytics client for the chart widgets.
func NewRevenueRepository(client RevenueClient) dashboard.RevenueRepository {
	return &revenueRepository{client: client}
}

type revenueRepository struct {
	client RevenueClient
}

func (r *revenueRepository) FetchRevenue(ctx context.Context, query dashboard.RevenueQuery) (dashboard.RevenueSeries, error) {
	return r.client.FetchRevenue(ctx, query.Metric, query.Viewer.Locale)
}
