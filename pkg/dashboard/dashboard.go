// Package dashboard assembles the dashboard service, widget sessions,
// transports and refresh hooks into a ready to mount application.
package dashboard

import (
	"context"
	"io/fs"
	"log/slog"
	"time"

	core "github.com/goliatone/go-admin-dashboard/components/dashboard"
	"github.com/goliatone/go-admin-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-admin-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-admin-dashboard/components/dashboard/queries"
	"github.com/goliatone/go-admin-dashboard/pkg/activity"
)

// Config selects the data sources and tuning of an App. Nil sources fall back
// to the demo data sets.
type Config struct {
	Store         core.WidgetStore
	Preferences   core.PreferenceStore
	Orders        core.OrderRepository
	Products      core.ProductOptionSource
	KPIs          core.KPIRepository
	Revenue       core.RevenueRepository
	Translator    core.TranslationService
	// Messages is used as the translator when Translator is nil.
	Messages      core.MessageCatalog
	Telemetry     core.Telemetry
	Notifications core.NotificationsClient
	Logger        *slog.Logger
	// Templates shadows embedded page and widget templates by name.
	Templates     fs.FS
	// ActivityHooks receive every dashboard activity event alongside the
	// recent activity capture.
	ActivityHooks activity.Hooks

	Title          string
	TablePageSize  int
	SelectPageSize int
	DebounceDelay  time.Duration
	ChartCacheTTL  time.Duration
	ChartTheme     string
	// ActivityLimit caps the events kept for the recent activity widget.
	ActivityLimit int
}

// App is a fully wired dashboard.
type App struct {
	Service    *core.Service
	Registry   *core.Registry
	Store      core.WidgetStore
	Tables     *core.TableSessions
	Selects    *core.SelectSessions
	Broadcast  *core.BroadcastHook
	Activity   *activity.CaptureHook
	Controller *core.Controller
	Handlers   *httpapi.Handlers
	Executor   *httpapi.CommandExecutor
	Seed       *commands.SeedDashboardCommand
	Layout     *queries.LayoutQuery
	Areas      *queries.WidgetAreaQuery
}

// New builds an App from cfg.
func New(cfg Config) (*App, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ActivityLimit <= 0 {
		cfg.ActivityLimit = 50
	}
	if cfg.Translator == nil && cfg.Messages != nil {
		cfg.Translator = cfg.Messages
	}
	store := cfg.Store
	if store == nil {
		store = core.NewMemoryWidgetStore(nil)
	}
	preferences := cfg.Preferences
	if preferences == nil {
		preferences = core.NewInMemoryPreferenceStore()
	}
	orders := cfg.Orders
	if orders == nil {
		orders = core.StaticOrderRepository{Orders: core.DefaultOrders()}
	}
	products := cfg.Products
	if products == nil {
		products = core.NewStaticProductCatalog(core.DefaultProducts())
	}

	captured := &activity.CaptureHook{Limit: cfg.ActivityLimit}
	broadcast := core.NewBroadcastHook().WithLogger(cfg.Logger)
	hooks := core.RefreshHooks{broadcast}
	if cfg.Notifications != nil {
		hooks = append(hooks, &core.NotificationsHook{Client: cfg.Notifications})
	}

	registry := core.NewRegistry()
	service := core.NewService(core.Options{
		WidgetStore:     store,
		PreferenceStore: preferences,
		Providers:       registry,
		RefreshHook:     hooks,
		Telemetry:       cfg.Telemetry,
		Translator:      cfg.Translator,
		Logger:          cfg.Logger,
		ActivityHooks:   append(activity.Hooks{captured}, cfg.ActivityHooks...),
		ActivityConfig:  activity.Config{Enabled: true},
	})

	chartOpts := []core.EChartsRendererOption{}
	if cfg.ChartCacheTTL > 0 {
		chartOpts = append(chartOpts, core.WithChartCache(core.NewChartCache(cfg.ChartCacheTTL)))
	}
	if cfg.ChartTheme != "" {
		chartOpts = append(chartOpts, core.WithChartTheme(cfg.ChartTheme))
	}
	if err := core.RegisterProviders(registry, core.DataSources{
		KPIs:     cfg.KPIs,
		Revenue:  cfg.Revenue,
		Activity: core.CapturedActivityFeed{Hook: captured},
		Charts:   core.NewEChartsRenderer(chartOpts...),
	}); err != nil {
		return nil, err
	}

	sessionOpts := core.SessionOptions{
		Resolver:    service,
		RefreshHook: hooks,
		Telemetry:   cfg.Telemetry,
		Logger:      cfg.Logger,
		Translator:  cfg.Translator,
		Preferences: preferences,
		Activity:    service,
	}
	tables := core.NewTableSessions(sessionOpts, core.DefaultTableFactories(orders, products, cfg.TablePageSize))
	selects := core.NewSelectSessions(sessionOpts, core.SelectSessionsConfig{
		Source:        products,
		PageSize:      cfg.SelectPageSize,
		DebounceDelay: cfg.DebounceDelay,
	})
	if err := core.RegisterInteractiveWidgets(registry, tables, selects); err != nil {
		return nil, err
	}

	telemetry := cfg.Telemetry
	handlers := &httpapi.Handlers{
		Assign:       commands.NewAssignWidgetCommand(service, telemetry),
		Update:       commands.NewUpdateWidgetCommand(service, telemetry, tables, selects),
		Remove:       commands.NewRemoveWidgetCommand(service, telemetry, tables, selects),
		Reorder:      commands.NewReorderWidgetsCommand(service, telemetry),
		Refresh:      commands.NewRefreshWidgetCommand(service, telemetry, tables),
		Preferences:  commands.NewSaveLayoutPreferencesCommand(service, telemetry),
		TableAction:  commands.NewTableActionCommand(tables, telemetry),
		TableView:    queries.NewTableViewQuery(tables),
		SelectAction: commands.NewSelectActionCommand(selects, telemetry),
		SelectView:   queries.NewSelectViewQuery(selects),
	}

	renderer, err := core.NewTemplateRenderer(cfg.Templates)
	if err != nil {
		return nil, err
	}
	controller := core.NewController(core.ControllerOptions{
		Service:  service,
		Renderer: renderer,
		Title:    cfg.Title,
	})

	return &App{
		Service:    service,
		Registry:   registry,
		Store:      store,
		Tables:     tables,
		Selects:    selects,
		Broadcast:  broadcast,
		Activity:   captured,
		Controller: controller,
		Handlers:   handlers,
		Executor:   httpapi.NewExecutor(handlers),
		Seed:       commands.NewSeedDashboardCommand(store, registry, service, telemetry),
		Layout:     queries.NewLayoutQuery(service),
		Areas:      queries.NewWidgetAreaQuery(service),
	}, nil
}

// Bootstrap registers the dashboard areas and widget definitions and, when
// seed is set, places the starter widgets in empty areas.
func (a *App) Bootstrap(ctx context.Context, seed bool) error {
	return a.Seed.Execute(ctx, commands.SeedDashboardInput{SeedLayout: seed})
}

// FindWidget returns the id of the first widget built from definitionCode in
// the viewer's layout.
func (a *App) FindWidget(ctx context.Context, viewer core.ViewerContext, definitionCode string) (string, error) {
	return a.Layout.Locate(ctx, viewer, definitionCode)
}
