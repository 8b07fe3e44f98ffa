package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-admin-dashboard/pkg/activity"
)

func newActivityService(store *fakeWidgetStore, enabled bool) (*Service, *activity.CaptureHook) {
	capture := &activity.CaptureHook{}
	return NewService(Options{
		WidgetStore:    store,
		ActivityHooks:  activity.Hooks{capture},
		ActivityConfig: activity.Config{Enabled: enabled, Channel: "dashboard"},
	}), capture
}

func TestServiceEmitsWidgetActivity(t *testing.T) {
	cases := []struct {
		name       string
		run        func(ctx context.Context, s *Service) error
		verb       string
		objectType string
		objectID   string
		meta       map[string]any
	}{
		{
			name: "add picker",
			run: func(ctx context.Context, s *Service) error {
				return s.AddWidget(ctx, AddWidgetRequest{DefinitionID: productPickerCode, AreaCode: "admin.dashboard.sidebar"})
			},
			verb:       "dashboard.widget.add",
			objectType: "widget_instance",
			objectID:   productPickerCode + "-instance",
			meta:       map[string]any{"area_code": "admin.dashboard.sidebar", "definition_id": productPickerCode},
		},
		{
			name:       "remove order list",
			run:        func(ctx context.Context, s *Service) error { return s.RemoveWidget(ctx, "orders-1") },
			verb:       "dashboard.widget.remove",
			objectType: "widget_instance",
			objectID:   "orders-1",
			meta:       map[string]any{"area_code": "admin.dashboard.main", "definition_id": orderListCode},
		},
		{
			name: "reorder main",
			run: func(ctx context.Context, s *Service) error {
				return s.ReorderWidgets(ctx, "admin.dashboard.main", []string{"orders-1", "kpis-1"})
			},
			verb:       "dashboard.widget.reorder",
			objectType: "widget_area",
			objectID:   "admin.dashboard.main",
			meta:       map[string]any{"area_code": "admin.dashboard.main", "count": 2},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeWidgetStore{instances: map[string]WidgetInstance{
				"orders-1": {ID: "orders-1", DefinitionID: orderListCode, AreaCode: "admin.dashboard.main"},
			}}
			service, capture := newActivityService(store, true)
			ctx := ContextWithActivity(context.Background(), ActivityContext{UserID: "ada", TenantID: "acme"})

			require.NoError(t, tc.run(ctx, service))

			events := capture.Snapshot()
			require.Len(t, events, 1)
			assert.Equal(t, tc.verb, events[0].Verb)
			assert.Equal(t, tc.objectType, events[0].ObjectType)
			assert.Equal(t, tc.objectID, events[0].ObjectID)
			assert.Equal(t, "dashboard", events[0].Channel)
			assert.Equal(t, "ada", events[0].UserID)
			assert.Equal(t, "acme", events[0].TenantID)
			assert.Equal(t, tc.meta, events[0].Metadata)
		})
	}
}

func TestAddWidgetPrefersRequestActor(t *testing.T) {
	service, capture := newActivityService(&fakeWidgetStore{}, true)
	ctx := ContextWithActivity(context.Background(), ActivityContext{ActorID: "ctx-actor", UserID: "ctx-user"})

	err := service.AddWidget(ctx, AddWidgetRequest{DefinitionID: orderListCode, AreaCode: "admin.dashboard.main", UserID: "grace"})
	require.NoError(t, err)

	events := capture.Snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, "ctx-actor", events[0].ActorID)
	assert.Equal(t, "grace", events[0].UserID)
}

func TestRecordActivityForSessions(t *testing.T) {
	service, capture := newActivityService(&fakeWidgetStore{}, true)
	ctx := ContextWithActivity(context.Background(), ActivityContext{UserID: "ada"})

	service.RecordActivity(ctx, "dashboard.table.row_click", "orders-1", orderListCode, map[string]any{"row_id": "CMB803"})

	events := capture.Snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, orderListCode, events[0].DefinitionCode)
	assert.Equal(t, "ada", events[0].UserID)
	assert.Equal(t, "CMB803", events[0].Metadata["row_id"])
}

func TestDisabledActivityEmitsNothing(t *testing.T) {
	service, capture := newActivityService(&fakeWidgetStore{}, false)
	require.NoError(t, service.ReorderWidgets(context.Background(), "admin.dashboard.main", []string{"orders-1"}))
	service.RecordActivity(context.Background(), "dashboard.select.choose", "picker-1", productPickerCode, nil)
	assert.Empty(t, capture.Snapshot())
}
