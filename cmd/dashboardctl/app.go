package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"go.opentelemetry.io/otel"

	core "github.com/goliatone/go-admin-dashboard/components/dashboard"
	"github.com/goliatone/go-admin-dashboard/internal/config"
	"github.com/goliatone/go-admin-dashboard/pkg/analytics"
	"github.com/goliatone/go-admin-dashboard/pkg/catalog"
	"github.com/goliatone/go-admin-dashboard/pkg/dashboard"
	"github.com/goliatone/go-admin-dashboard/pkg/telemetry"
)

// runtime bundles the assembled dashboard with the resources it owns.
type runtime struct {
	app     *dashboard.App
	catalog *catalog.Store
	metrics *telemetry.Recorder
}

func (r *runtime) Close() error {
	if r.catalog == nil {
		return nil
	}
	return r.catalog.Close()
}

// buildRuntime opens the catalog, picks the analytics source and assembles
// the dashboard described by cfg.
func buildRuntime(ctx context.Context, cfg config.Config, logger *slog.Logger) (*runtime, error) {
	store, err := catalog.Open(ctx, cfg.Catalog.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.Catalog.Seed {
		if err := store.Seed(ctx, core.DefaultOrders(), core.DefaultProducts()); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	metrics, err := telemetry.NewRecorder(otel.GetMeterProvider())
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	client, err := analyticsClient(cfg.Analytics)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	var templates fs.FS
	if cfg.Server.Templates != "" {
		templates = os.DirFS(cfg.Server.Templates)
	}

	app, err := dashboard.New(dashboard.Config{
		Orders:         store,
		Products:       store,
		KPIs:           analytics.NewKPIRepository(client),
		Revenue:        analytics.NewRevenueRepository(client),
		Telemetry:      core.MultiTelemetry{metrics, core.LogTelemetry(logger)},
		Logger:         logger,
		Templates:      templates,
		TablePageSize:  cfg.Widgets.TablePageSize,
		SelectPageSize: cfg.Widgets.SelectPageSize,
		DebounceDelay:  cfg.Widgets.DebounceDelay,
		ChartCacheTTL:  cfg.Widgets.ChartCacheTTL,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if err := app.Bootstrap(ctx, true); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("dashboardctl: bootstrap: %w", err)
	}
	logger.Info("dashboard ready",
		"catalog", cfg.Catalog.DSN,
		"analytics", cfg.Analytics.Mode,
	)
	return &runtime{app: app, catalog: store, metrics: metrics}, nil
}

func analyticsClient(cfg config.AnalyticsConfig) (analytics.Client, error) {
	if cfg.Mode != "http" {
		return analytics.NewMockClient(analytics.DefaultMockData()), nil
	}
	return analytics.NewHTTPClient(analytics.HTTPConfig{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	})
}
