package commands

import (
	"context"
	"errors"

	dashboard "github.com/goliatone/go-admin-dashboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// SeedDashboardInput controls bootstrap behavior.
type SeedDashboardInput struct {
	SeedLayout bool `json:"seed_layout"`
}

// SeedDashboardCommand registers the dashboard areas and widget definitions
// and, when asked, places the starter widgets (KPI cards, charts, order list,
// product picker) in areas that are still empty. Running it twice is safe.
type SeedDashboardCommand struct {
	store     dashboard.WidgetStore
	registry  dashboard.ProviderRegistry
	service   *dashboard.Service
	telemetry Telemetry
}

// NewSeedDashboardCommand wires dependencies.
func NewSeedDashboardCommand(store dashboard.WidgetStore, registry dashboard.ProviderRegistry, service *dashboard.Service, telemetry Telemetry) *SeedDashboardCommand {
	return &SeedDashboardCommand{
		store:     store,
		registry:  registry,
		service:   service,
		telemetry: normalizeTelemetry(telemetry),
	}
}

var _ gocommand.Commander[SeedDashboardInput] = (*SeedDashboardCommand)(nil)

// Execute runs the bootstrap pipeline.
func (c *SeedDashboardCommand) Execute(ctx context.Context, msg SeedDashboardInput) error {
	if c.store == nil {
		return errors.New("seed command requires widget store")
	}
	if err := dashboard.RegisterAreas(ctx, c.store); err != nil {
		return err
	}
	if err := dashboard.RegisterDefinitions(ctx, c.store, c.registry); err != nil {
		return err
	}
	if msg.SeedLayout {
		if c.service == nil {
			return errors.New("seed command requires service to place widgets")
		}
		if err := dashboard.SeedLayout(ctx, c.service); err != nil {
			return err
		}
	}
	c.telemetry.Record(ctx, "dashboard.seed", map[string]any{
		"seed_layout": msg.SeedLayout,
		"widgets":     c.placed(ctx),
	})
	return nil
}

// placed counts the widgets across the default areas after seeding.
func (c *SeedDashboardCommand) placed(ctx context.Context) int {
	if c.service == nil {
		return 0
	}
	total := 0
	for _, area := range dashboard.DefaultAreaDefinitions() {
		resolved, err := c.service.ResolveArea(ctx, dashboard.ViewerContext{}, area.Code)
		if err == nil {
			total += len(resolved.Widgets)
		}
	}
	return total
}
