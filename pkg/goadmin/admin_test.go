package goadmin_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "github.com/goliatone/go-admin-dashboard/components/dashboard"
	"github.com/goliatone/go-admin-dashboard/pkg/activity"
	dashboardpkg "github.com/goliatone/go-admin-dashboard/pkg/dashboard"
	"github.com/goliatone/go-admin-dashboard/pkg/goadmin"
)

type stubMenuBuilder struct {
	calls int
	menu  string
	item  goadmin.MenuItem
}

func (s *stubMenuBuilder) EnsureMenuItem(_ context.Context, menu string, item goadmin.MenuItem) error {
	s.calls++
	s.menu = menu
	s.item = item
	return nil
}

func TestAdminBootstrapSeedsMenuAndLayout(t *testing.T) {
	builder := &stubMenuBuilder{}
	admin, err := goadmin.New(goadmin.Config{
		EnableDashboard: true,
		MenuBuilder:     builder,
		SeedLayout:      true,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if builder.calls != 1 {
		t.Fatalf("expected 1 call, got %d", builder.calls)
	}
	assert.Equal(t, "admin.main", builder.menu)
	assert.Equal(t, "Dashboard", builder.item.Label)

	app := admin.Dashboard()
	require.NotNil(t, app)
	_, err = app.FindWidget(context.Background(), core.ViewerContext{UserID: "ada"}, core.OrderListCode)
	require.NoError(t, err)
}

func TestAdminDisabledSkipsBootstrap(t *testing.T) {
	builder := &stubMenuBuilder{}
	admin, err := goadmin.New(goadmin.Config{
		EnableDashboard: false,
		MenuBuilder:     builder,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if builder.calls != 0 {
		t.Fatalf("expected 0 calls, got %d", builder.calls)
	}
	if admin.Dashboard() != nil {
		t.Fatalf("expected nil dashboard when disabled")
	}

	rec := httptest.NewRecorder()
	admin.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminForwardsActivityHooks(t *testing.T) {
	hook := &activity.CaptureHook{}
	admin, err := goadmin.New(goadmin.Config{
		EnableDashboard: true,
		SeedLayout:      true,
		BasePath:        "/ops",
		Dashboard: dashboardpkg.Config{
			ActivityHooks: activity.Hooks{hook},
		},
	})
	require.NoError(t, err)
	require.NoError(t, admin.Bootstrap(context.Background()))

	orders, err := admin.Dashboard().FindWidget(context.Background(), core.ViewerContext{UserID: "ada"}, core.OrderListCode)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/ops/dashboard/widgets/"+orders+"/table/click", nil)
	req.Header.Set("X-User-ID", "ada")
	rec := httptest.NewRecorder()
	admin.Handler().ServeHTTP(rec, req)
	// An empty row id is not visible.
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, err = admin.Dashboard().Tables.Apply(context.Background(), core.ViewerContext{UserID: "ada"}, orders,
		core.TableAction{Action: core.TableActionClick, RowID: "CMB801"})
	require.NoError(t, err)
	events := hook.Snapshot()
	require.NotEmpty(t, events)
	assert.Equal(t, "dashboard.table.row_click", events[len(events)-1].Verb)
}
