package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-admin-dashboard/internal/clock"
)

func newSeededMemoryStore(t *testing.T, c clock.Clock) *MemoryWidgetStore {
	t.Helper()
	store := NewMemoryWidgetStore(c)
	ctx := context.Background()
	for _, area := range DefaultAreaDefinitions() {
		_, err := store.EnsureArea(ctx, area)
		require.NoError(t, err)
	}
	for _, def := range DefaultWidgetDefinitions() {
		_, err := store.EnsureDefinition(ctx, def)
		require.NoError(t, err)
	}
	return store
}

func createAssigned(t *testing.T, store *MemoryWidgetStore, code, area string, visibility WidgetVisibility) WidgetInstance {
	t.Helper()
	ctx := context.Background()
	inst, err := store.CreateInstance(ctx, CreateWidgetInstanceInput{DefinitionID: code, Visibility: visibility})
	require.NoError(t, err)
	require.NoError(t, store.AssignInstance(ctx, AssignWidgetInput{AreaCode: area, InstanceID: inst.ID}))
	return inst
}

func resolvedIDs(t *testing.T, store *MemoryWidgetStore, area string, audience ...string) []string {
	t.Helper()
	resolved, err := store.ResolveArea(context.Background(), ResolveAreaInput{AreaCode: area, Audience: audience})
	require.NoError(t, err)
	ids := make([]string, len(resolved.Widgets))
	for i, w := range resolved.Widgets {
		ids[i] = w.ID
	}
	return ids
}

func TestMemoryWidgetStoreEnsureReportsNew(t *testing.T) {
	store := NewMemoryWidgetStore(nil)
	created, err := store.EnsureArea(context.Background(), WidgetAreaDefinition{Code: "admin.dashboard.main"})
	require.NoError(t, err)
	assert.True(t, created)
	created, err = store.EnsureArea(context.Background(), WidgetAreaDefinition{Code: "admin.dashboard.main"})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestMemoryWidgetStoreCreateRequiresDefinition(t *testing.T) {
	store := newSeededMemoryStore(t, nil)
	_, err := store.CreateInstance(context.Background(), CreateWidgetInstanceInput{DefinitionID: "admin.widget.unknown"})
	assert.True(t, errors.Is(err, ErrWidgetNotFound))
}

func TestMemoryWidgetStoreAssignMovesAndInserts(t *testing.T) {
	store := newSeededMemoryStore(t, nil)
	ctx := context.Background()
	a := createAssigned(t, store, kpiCardsCode, "admin.dashboard.main", WidgetVisibility{})
	b := createAssigned(t, store, orderListCode, "admin.dashboard.main", WidgetVisibility{})

	c, err := store.CreateInstance(ctx, CreateWidgetInstanceInput{DefinitionID: topProductsCode})
	require.NoError(t, err)
	pos := 0
	require.NoError(t, store.AssignInstance(ctx, AssignWidgetInput{AreaCode: "admin.dashboard.main", InstanceID: c.ID, Position: &pos}))
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, resolvedIDs(t, store, "admin.dashboard.main"))

	require.NoError(t, store.AssignInstance(ctx, AssignWidgetInput{AreaCode: "admin.dashboard.sidebar", InstanceID: a.ID}))
	assert.Equal(t, []string{c.ID, b.ID}, resolvedIDs(t, store, "admin.dashboard.main"))
	assert.Equal(t, []string{a.ID}, resolvedIDs(t, store, "admin.dashboard.sidebar"))

	moved, err := store.GetInstance(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin.dashboard.sidebar", moved.AreaCode)

	err = store.AssignInstance(ctx, AssignWidgetInput{AreaCode: "admin.dashboard.nowhere", InstanceID: a.ID})
	assert.Error(t, err)
}

func TestMemoryWidgetStoreReorderArea(t *testing.T) {
	store := newSeededMemoryStore(t, nil)
	a := createAssigned(t, store, kpiCardsCode, "admin.dashboard.main", WidgetVisibility{})
	b := createAssigned(t, store, orderListCode, "admin.dashboard.main", WidgetVisibility{})
	c := createAssigned(t, store, topProductsCode, "admin.dashboard.main", WidgetVisibility{})

	require.NoError(t, store.ReorderArea(context.Background(), ReorderAreaInput{
		AreaCode:  "admin.dashboard.main",
		WidgetIDs: []string{c.ID, "ghost", a.ID},
	}))
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, resolvedIDs(t, store, "admin.dashboard.main"))
}

func TestMemoryWidgetStoreUpdateMergesMetadata(t *testing.T) {
	store := newSeededMemoryStore(t, nil)
	ctx := context.Background()
	inst, err := store.CreateInstance(ctx, CreateWidgetInstanceInput{
		DefinitionID:  orderListCode,
		Configuration: map[string]any{"page_size": 5},
		Metadata:      map[string]any{"layout": map[string]any{"width": 12}},
	})
	require.NoError(t, err)

	updated, err := store.UpdateInstance(ctx, UpdateWidgetInstanceInput{
		InstanceID:    inst.ID,
		Configuration: map[string]any{"page_size": 10},
		Metadata:      map[string]any{"pinned": true},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Configuration["page_size"])
	assert.Equal(t, true, updated.Metadata["pinned"])
	assert.Contains(t, updated.Metadata, "layout")

	updated.Configuration["page_size"] = 99
	stored, err := store.GetInstance(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Configuration["page_size"], "returned instances are copies")
}

func TestMemoryWidgetStoreDelete(t *testing.T) {
	store := newSeededMemoryStore(t, nil)
	ctx := context.Background()
	a := createAssigned(t, store, kpiCardsCode, "admin.dashboard.main", WidgetVisibility{})

	require.NoError(t, store.DeleteInstance(ctx, a.ID))
	assert.Empty(t, resolvedIDs(t, store, "admin.dashboard.main"))
	assert.True(t, errors.Is(store.DeleteInstance(ctx, a.ID), ErrWidgetNotFound))
	_, err := store.GetInstance(ctx, a.ID)
	assert.True(t, errors.Is(err, ErrWidgetNotFound))
}

func TestMemoryWidgetStoreVisibility(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	fake := clock.Fake(now)
	store := newSeededMemoryStore(t, fake)

	later := now.Add(time.Hour)
	always := createAssigned(t, store, kpiCardsCode, "admin.dashboard.main", WidgetVisibility{})
	scheduled := createAssigned(t, store, orderListCode, "admin.dashboard.main", WidgetVisibility{StartAt: &later})
	admins := createAssigned(t, store, topProductsCode, "admin.dashboard.main", WidgetVisibility{Roles: []string{"admin"}})

	assert.Equal(t, []string{always.ID}, resolvedIDs(t, store, "admin.dashboard.main", "editor"))
	assert.Equal(t, []string{always.ID, admins.ID}, resolvedIDs(t, store, "admin.dashboard.main", "admin"))

	fake.Advance(2 * time.Hour)
	assert.Equal(t, []string{always.ID, scheduled.ID}, resolvedIDs(t, store, "admin.dashboard.main"))
}
