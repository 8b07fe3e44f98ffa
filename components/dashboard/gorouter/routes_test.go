package gorouter

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-admin-dashboard/components/dashboard"
	"github.com/goliatone/go-admin-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-admin-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-admin-dashboard/components/dashboard/queries"
)

func TestRegisterValidatesConfig(t *testing.T) {
	err := Register(Config[struct{}]{})
	if err == nil {
		t.Fatalf("expected error when router/controller missing")
	}
}

func TestRegisterHTMLRoute(t *testing.T) {
	mock := newMockRouter()
	layout := dashboard.Layout{
		Areas: map[string][]dashboard.WidgetInstance{
			"admin.dashboard.main": {
				{ID: "w1", DefinitionID: "admin.widget.kpi_cards"},
			},
		},
	}
	service := &stubLayoutResolver{layout: layout}
	renderer := &stubRenderer{}
	controller := dashboard.NewController(dashboard.ControllerOptions{
		Service:  service,
		Renderer: renderer,
	})

	cfg := Config[struct{}]{
		Router:     mock,
		Controller: controller,
		API:        noopExecutor{},
	}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	handlerKey := "GET:/admin/dashboard"
	h, ok := mock.routes[handlerKey]
	if !ok {
		t.Fatalf("expected dashboard route to be registered")
	}

	ctx := newMockContext()
	if err := h(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if len(ctx.body) == 0 {
		t.Fatalf("expected response body")
	}
	if renderer.calls == 0 {
		t.Fatalf("renderer not invoked")
	}
}

func registerWith(t *testing.T, api httpapi.Executor) *mockRouter {
	t.Helper()
	mock := newMockRouter()
	controller := dashboard.NewController(dashboard.ControllerOptions{
		Service: &stubLayoutResolver{},
	})
	if err := Register(Config[struct{}]{Router: mock, Controller: controller, API: api}); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	return mock
}

func TestRegisterTableActionRoute(t *testing.T) {
	exec := &recordingExecutor{}
	mock := registerWith(t, exec)

	h, ok := mock.routes["POST:/admin/dashboard/widgets/:id/table/:action"]
	if !ok {
		t.Fatalf("expected table action route")
	}
	ctx := newMockContext()
	ctx.params["id"] = "orders"
	ctx.params["action"] = dashboard.TableActionSearch
	ctx.body = []byte(`{"term":"drew"}`)
	ctx.locals["user_id"] = "u1"
	ctx.headers["Accept-Language"] = "es-ES,es;q=0.8"
	if err := h(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != 200 {
		t.Fatalf("expected 200, got %d", ctx.status)
	}
	if exec.table.WidgetID != "orders" || exec.table.Action.Action != "search" || exec.table.Action.Term != "drew" {
		t.Fatalf("unexpected table input %+v", exec.table)
	}
	if exec.table.Viewer.UserID != "u1" || exec.table.Viewer.Locale != "es-es" {
		t.Fatalf("unexpected viewer %+v", exec.table.Viewer)
	}
}

func TestRegisterSelectRoutes(t *testing.T) {
	exec := &recordingExecutor{viewErr: dashboard.ErrWidgetNotFound}
	mock := registerWith(t, exec)

	h := mock.routes["POST:/admin/dashboard/widgets/:id/select/:action"]
	ctx := newMockContext()
	ctx.params["id"] = "picker"
	ctx.params["action"] = dashboard.SelectActionOpen
	if err := h(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if exec.sel.Action.Action != "open" || exec.sel.WidgetID != "picker" {
		t.Fatalf("unexpected select input %+v", exec.sel)
	}

	view := mock.routes["GET:/admin/dashboard/widgets/:id/select"]
	ctx = newMockContext()
	ctx.params["id"] = "missing"
	if err := view(ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != 404 {
		t.Fatalf("expected 404 for unknown widget, got %d", ctx.status)
	}
}

func TestParseAcceptLanguage(t *testing.T) {
	if got := parseAcceptLanguage(" en-GB;q=0.9, en"); got != "en-gb" {
		t.Fatalf("unexpected locale %q", got)
	}
	if got := parseAcceptLanguage(""); got != "" {
		t.Fatalf("expected empty locale, got %q", got)
	}
}

// --- Test helpers ---

// mockRouter and mockContext embed the go-router interfaces so only the
// methods the adapter calls need implementing.
type mockRouter struct {
	router.Router[struct{}]
	prefix string
	routes map[string]router.HandlerFunc
	ws     map[string]func(router.WebSocketContext) error
}

func newMockRouter() *mockRouter {
	return &mockRouter{
		routes: map[string]router.HandlerFunc{},
		ws:     map[string]func(router.WebSocketContext) error{},
	}
}

func (m *mockRouter) Group(prefix string) router.Router[struct{}] {
	return &mockRouter{
		prefix: m.prefix + prefix,
		routes: m.routes,
		ws:     m.ws,
	}
}

func (m *mockRouter) record(method, path string, handler router.HandlerFunc) {
	full := m.prefix + path
	m.routes[method+":"+full] = handler
}

func (m *mockRouter) Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.GET), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.POST), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Patch(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.PATCH), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.DELETE), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) WebSocket(path string, cfg router.WebSocketConfig, handler func(router.WebSocketContext) error) router.RouteInfo {
	full := m.prefix + path
	m.ws[full] = handler
	return mockRouteInfo{}
}

type mockRouteInfo struct{ router.RouteInfo }

func (mockRouteInfo) SetName(string) router.RouteInfo { return mockRouteInfo{} }

// routerContext aliases router.Context so the embedded field name does not
// collide with the Context() method below.
type routerContext = router.Context

type mockContext struct {
	routerContext
	ctx     context.Context
	query   map[string]string
	headers map[string]string
	body    []byte
	locals  map[any]any
	params  map[string]string
	status  int
}

func newMockContext() *mockContext {
	return &mockContext{
		ctx:     context.Background(),
		headers: map[string]string{},
		locals:  map[any]any{},
		params:  map[string]string{},
		query:   map[string]string{},
	}
}

func (m *mockContext) Context() context.Context {
	return m.ctx
}

func (m *mockContext) SetHeader(k, v string) router.Context {
	m.headers[k] = v
	return m
}

func (m *mockContext) Send(b []byte) error {
	m.body = append([]byte{}, b...)
	return nil
}

func (m *mockContext) JSON(code int, v any) error {
	m.status = code
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.body = data
	return nil
}

func (m *mockContext) Body() []byte { return m.body }

func (m *mockContext) Param(name string, defaultValue ...string) string {
	if v, ok := m.params[name]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (m *mockContext) Query(name string, defaultValue ...string) string {
	if v, ok := m.query[name]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (m *mockContext) Header(key string) string {
	return m.headers[key]
}

func (m *mockContext) Locals(key any, value ...any) any {
	if len(value) == 0 {
		return m.locals[key]
	}
	m.locals[key] = value[0]
	return value[0]
}

type stubLayoutResolver struct {
	layout dashboard.Layout
	err    error
}

func (s *stubLayoutResolver) ConfigureLayout(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.Layout, error) {
	return s.layout, s.err
}

type stubRenderer struct {
	calls int
}

func (s *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	s.calls++
	if len(out) > 0 && out[0] != nil {
		out[0].Write([]byte("ok"))
	}
	return "ok", nil
}

type noopExecutor struct{}

func (noopExecutor) Assign(context.Context, dashboard.AddWidgetRequest) error     { return nil }
func (noopExecutor) Update(context.Context, commands.UpdateWidgetInput) error    { return nil }
func (noopExecutor) Remove(context.Context, commands.RemoveWidgetInput) error    { return nil }
func (noopExecutor) Reorder(context.Context, commands.ReorderWidgetsInput) error { return nil }
func (noopExecutor) Refresh(context.Context, commands.RefreshWidgetInput) error  { return nil }
func (noopExecutor) Preferences(context.Context, commands.SaveLayoutPreferencesInput) error {
	return nil
}
func (noopExecutor) TableView(context.Context, queries.SessionViewInput) (dashboard.TableView, error) {
	return dashboard.TableView{}, nil
}
func (noopExecutor) TableAction(context.Context, commands.TableActionInput) (dashboard.TableView, error) {
	return dashboard.TableView{}, nil
}
func (noopExecutor) SelectView(context.Context, queries.SessionViewInput) (dashboard.SelectView, error) {
	return dashboard.SelectView{}, nil
}
func (noopExecutor) SelectAction(context.Context, commands.SelectActionInput) (dashboard.SelectView, error) {
	return dashboard.SelectView{}, nil
}

// recordingExecutor captures table and select calls.
type recordingExecutor struct {
	noopExecutor
	table   commands.TableActionInput
	sel     commands.SelectActionInput
	viewErr error
}

func (e *recordingExecutor) TableAction(_ context.Context, input commands.TableActionInput) (dashboard.TableView, error) {
	e.table = input
	return dashboard.TableView{WidgetID: input.WidgetID, Search: input.Action.Term}, nil
}

func (e *recordingExecutor) SelectAction(_ context.Context, input commands.SelectActionInput) (dashboard.SelectView, error) {
	e.sel = input
	return dashboard.SelectView{WidgetID: input.WidgetID}, nil
}

func (e *recordingExecutor) SelectView(context.Context, queries.SessionViewInput) (dashboard.SelectView, error) {
	return dashboard.SelectView{}, e.viewErr
}
