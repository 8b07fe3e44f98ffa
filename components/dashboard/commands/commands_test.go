package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	dashboard "github.com/goliatone/go-admin-dashboard/components/dashboard"
	"github.com/goliatone/go-admin-dashboard/components/datatable"
)

func TestSeedDashboardCommand(t *testing.T) {
	store := newStubStore()
	reg := &stubRegistry{}
	service := dashboard.NewService(dashboard.Options{WidgetStore: store})
	telemetry := &stubTelemetry{}
	cmd := NewSeedDashboardCommand(store, reg, service, telemetry)
	if err := cmd.Execute(context.Background(), SeedDashboardInput{SeedLayout: true}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if store.ensureAreaCalls != len(dashboard.DefaultAreaDefinitions()) {
		t.Fatalf("expected %d areas, got %d", len(dashboard.DefaultAreaDefinitions()), store.ensureAreaCalls)
	}
	if reg.count != len(dashboard.DefaultWidgetDefinitions()) {
		t.Fatalf("expected registry count %d, got %d", len(dashboard.DefaultWidgetDefinitions()), reg.count)
	}
	if store.assignCalls != len(dashboard.DefaultSeedWidgets()) {
		t.Fatalf("expected %d assign calls, got %d", len(dashboard.DefaultSeedWidgets()), store.assignCalls)
	}
	if telemetry.calls == 0 {
		t.Fatalf("expected telemetry to record events")
	}
}

func TestAssignWidgetCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewAssignWidgetCommand(service, nil)
	req := dashboard.AddWidgetRequest{DefinitionID: "admin.widget.kpi_cards", AreaCode: "admin.dashboard.main"}
	if err := cmd.Execute(context.Background(), req); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.addCalls != 1 {
		t.Fatalf("expected add call")
	}
}

func TestRemoveWidgetCommandForgetsSessions(t *testing.T) {
	service := &stubService{}
	tables, selects := &stubForgetter{n: 2}, &stubForgetter{n: 1}
	telemetry := &stubTelemetry{}
	cmd := NewRemoveWidgetCommand(service, telemetry, tables, nil, selects)
	if err := cmd.Execute(context.Background(), RemoveWidgetInput{WidgetID: "orders-1"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.removeCalls != 1 {
		t.Fatalf("expected remove call")
	}
	if tables.last != "orders-1" || selects.last != "orders-1" {
		t.Fatalf("expected sessions forgotten for orders-1, got %q/%q", tables.last, selects.last)
	}
	if telemetry.calls != 1 {
		t.Fatalf("expected one telemetry event, got %d", telemetry.calls)
	}
}

func TestRemoveWidgetCommandKeepsSessionsOnFailure(t *testing.T) {
	service := &stubService{removeErr: errors.New("store down")}
	tables := &stubForgetter{}
	cmd := NewRemoveWidgetCommand(service, nil, tables)
	if err := cmd.Execute(context.Background(), RemoveWidgetInput{WidgetID: "orders-1"}); err == nil {
		t.Fatalf("expected error")
	}
	if tables.last != "" {
		t.Fatalf("sessions must survive a failed delete")
	}
}

func TestReorderWidgetsCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewReorderWidgetsCommand(service, nil)
	if err := cmd.Execute(context.Background(), ReorderWidgetsInput{
		AreaCode:  "admin.dashboard.main",
		WidgetIDs: []string{"w1", "w2"},
	}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.reorderCalls != 1 {
		t.Fatalf("expected reorder call")
	}
}

func TestReorderWidgetsCommandValidates(t *testing.T) {
	cases := map[string]ReorderWidgetsInput{
		"missing area": {WidgetIDs: []string{"w1"}},
		"blank id":     {AreaCode: "admin.dashboard.main", WidgetIDs: []string{"w1", " "}},
		"duplicate id": {AreaCode: "admin.dashboard.main", WidgetIDs: []string{"w1", "w1"}},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			service := &stubService{}
			err := NewReorderWidgetsCommand(service, nil).Execute(context.Background(), input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if service.reorderCalls != 0 {
				t.Fatalf("service must not be called")
			}
		})
	}
}

func TestRefreshWidgetCommandReloadsSessions(t *testing.T) {
	service := &stubService{}
	tables := &stubReloader{n: 3}
	telemetry := &stubTelemetry{}
	cmd := NewRefreshWidgetCommand(service, telemetry, tables)
	input := RefreshWidgetInput{WidgetID: " orders-1 ", AreaCode: "admin.dashboard.main"}
	if err := cmd.Execute(context.Background(), input); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if tables.last != "orders-1" {
		t.Fatalf("expected orders-1 reloaded, got %q", tables.last)
	}
	if service.refreshCalls != 1 || service.lastEvent.Reason != "refresh" || service.lastEvent.Instance.ID != "orders-1" {
		t.Fatalf("unexpected refresh event %+v", service.lastEvent)
	}

	if err := cmd.Execute(context.Background(), RefreshWidgetInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	tables.err = errors.New("orders unavailable")
	if err := cmd.Execute(context.Background(), RefreshWidgetInput{WidgetID: "orders-1"}); err == nil {
		t.Fatalf("expected reload error")
	}
	if service.refreshCalls != 1 {
		t.Fatalf("hooks must not run when reload fails")
	}
}

func TestUpdateWidgetCommandDropsStaleSessions(t *testing.T) {
	service := &stubService{}
	tables := &stubForgetter{n: 2}
	cmd := NewUpdateWidgetCommand(service, nil, tables)

	err := cmd.Execute(context.Background(), UpdateWidgetInput{WidgetID: "orders-1", Metadata: map[string]any{"pinned": true}})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if tables.last != "" {
		t.Fatalf("metadata updates keep sessions")
	}

	err = cmd.Execute(context.Background(), UpdateWidgetInput{WidgetID: "orders-1", Configuration: map[string]any{"page_size": 10}})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if tables.last != "orders-1" || service.updateCalls != 2 {
		t.Fatalf("expected sessions dropped after configuration update")
	}

	service.updateErr = dashboard.ErrInvalidConfiguration
	tables.last = ""
	err = cmd.Execute(context.Background(), UpdateWidgetInput{WidgetID: "orders-1", Configuration: map[string]any{"page_size": -1}})
	if !errors.Is(err, dashboard.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
	if tables.last != "" {
		t.Fatalf("failed updates keep sessions")
	}
	if err := cmd.Execute(context.Background(), UpdateWidgetInput{WidgetID: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAssignWidgetCommandValidates(t *testing.T) {
	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	cases := map[string]dashboard.AddWidgetRequest{
		"blank definition": {AreaCode: "admin.dashboard.main"},
		"blank area":       {DefinitionID: dashboard.OrderListCode, AreaCode: " "},
		"inverted window":  {DefinitionID: dashboard.OrderListCode, AreaCode: "admin.dashboard.main", StartAt: &start, EndAt: &end},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			service := &stubService{}
			err := NewAssignWidgetCommand(service, nil).Execute(context.Background(), req)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if service.addCalls != 0 {
				t.Fatalf("service must not be called")
			}
		})
	}
}

func TestSaveLayoutPreferencesCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewSaveLayoutPreferencesCommand(service, nil)
	viewer := dashboard.ViewerContext{UserID: "ada", Locale: "es"}

	err := cmd.Execute(context.Background(), SaveLayoutPreferencesInput{
		Viewer:        viewer,
		AreaOrder:     map[string][]string{"admin.dashboard.main": {"orders-1"}},
		HiddenWidgets: []string{"kpis-1"},
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !service.lastOverrides.HiddenWidgets["kpis-1"] || service.lastOverrides.Locale != "es" {
		t.Fatalf("unexpected overrides %+v", service.lastOverrides)
	}
	if service.lastOverrides.TableSorts != nil {
		t.Fatalf("omitted sorts must stay nil so stored sorts survive")
	}

	bad := []SaveLayoutPreferencesInput{
		{},
		{Viewer: viewer, TableSorts: map[string]datatable.SortState{"orders-1": {Direction: datatable.Ascending}}},
		{Viewer: viewer, TableSorts: map[string]datatable.SortState{"orders-1": {Key: "id", Direction: "up"}}},
	}
	for _, input := range bad {
		if err := cmd.Execute(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", input, err)
		}
	}
}

type stubService struct {
	addCalls     int
	removeCalls  int
	reorderCalls int
	refreshCalls int
	updateCalls  int
	removeErr    error
	updateErr    error

	lastEvent     dashboard.WidgetEvent
	lastOverrides dashboard.LayoutOverrides
}

type stubReloader struct {
	n    int
	last string
	err  error
}

func (r *stubReloader) ReloadWidget(_ context.Context, widgetID string) (int, error) {
	r.last = widgetID
	return r.n, r.err
}

type stubForgetter struct {
	n    int
	last string
}

func (f *stubForgetter) Forget(widgetID string) int {
	f.last = widgetID
	return f.n
}

func (s *stubService) AddWidget(context.Context, dashboard.AddWidgetRequest) error {
	s.addCalls++
	return nil
}

func (s *stubService) RemoveWidget(context.Context, string) error {
	s.removeCalls++
	return s.removeErr
}

func (s *stubService) ReorderWidgets(context.Context, string, []string) error {
	s.reorderCalls++
	return nil
}

func (s *stubService) NotifyWidgetUpdated(_ context.Context, event dashboard.WidgetEvent) error {
	s.refreshCalls++
	s.lastEvent = event
	return nil
}

func (s *stubService) UpdateWidget(context.Context, string, dashboard.UpdateWidgetRequest) error {
	s.updateCalls++
	return s.updateErr
}

func (s *stubService) SavePreferences(_ context.Context, _ dashboard.ViewerContext, overrides dashboard.LayoutOverrides) error {
	s.lastOverrides = overrides
	return nil
}

type stubRegistry struct {
	count int
}

func (s *stubRegistry) RegisterDefinition(def dashboard.WidgetDefinition) error {
	s.count++
	return nil
}

func (s *stubRegistry) RegisterProvider(string, dashboard.Provider) error { return nil }
func (s *stubRegistry) Definition(string) (dashboard.WidgetDefinition, bool) {
	return dashboard.WidgetDefinition{}, false
}
func (s *stubRegistry) Provider(string) (dashboard.Provider, bool) { return nil, false }
func (s *stubRegistry) Definitions() []dashboard.WidgetDefinition  { return nil }

type stubStore struct {
	ensureAreaCalls int
	assignCalls     int
}

func newStubStore() *stubStore { return &stubStore{} }

func (s *stubStore) EnsureArea(context.Context, dashboard.WidgetAreaDefinition) (bool, error) {
	s.ensureAreaCalls++
	return true, nil
}

func (s *stubStore) EnsureDefinition(context.Context, dashboard.WidgetDefinition) (bool, error) {
	return true, nil
}

func (s *stubStore) CreateInstance(ctx context.Context, input dashboard.CreateWidgetInstanceInput) (dashboard.WidgetInstance, error) {
	return dashboard.WidgetInstance{ID: input.DefinitionID + "-instance", DefinitionID: input.DefinitionID}, nil
}

func (s *stubStore) GetInstance(context.Context, string) (dashboard.WidgetInstance, error) {
	return dashboard.WidgetInstance{}, dashboard.ErrWidgetNotFound
}

func (s *stubStore) UpdateInstance(context.Context, dashboard.UpdateWidgetInstanceInput) (dashboard.WidgetInstance, error) {
	return dashboard.WidgetInstance{}, dashboard.ErrWidgetNotFound
}

func (s *stubStore) DeleteInstance(context.Context, string) error { return nil }

func (s *stubStore) AssignInstance(context.Context, dashboard.AssignWidgetInput) error {
	s.assignCalls++
	return nil
}

func (s *stubStore) ReorderArea(context.Context, dashboard.ReorderAreaInput) error { return nil }

func (s *stubStore) ResolveArea(context.Context, dashboard.ResolveAreaInput) (dashboard.ResolvedArea, error) {
	return dashboard.ResolvedArea{}, nil
}

type stubTelemetry struct {
	calls int
}

func (s *stubTelemetry) Record(context.Context, string, map[string]any) {
	s.calls++
}
