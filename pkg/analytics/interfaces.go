package analytics

import (
	"context"

	dashboard "github.com/goliatone/go-admin-dashboard/components/dashboard"
)

// KPIClient fetches headline metrics from an upstream BI service.
type KPIClient interface {
	FetchKPIs(ctx context.Context, codes []string) ([]dashboard.KPI, error)
}

// RevenueClient fetches categorical revenue series (projections, trend,
// locations, channels).
type RevenueClient interface {
	FetchRevenue(ctx context.Context, metric, locale string) (dashboard.RevenueSeries, error)
}

// Client is a convenience union for services that implement all analytics calls.
type Client interface {
	KPIClient
	RevenueClient
}
