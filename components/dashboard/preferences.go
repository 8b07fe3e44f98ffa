package dashboard

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/goliatone/go-admin-dashboard/components/datatable"
)

var errPreferencesNeedViewer = errors.New("dashboard: preference store requires viewer user id")

// InMemoryPreferenceStore keeps layout overrides and table sorts per viewer
// and locale. Reads and writes copy the maps, so callers may mutate what
// they get back.
type InMemoryPreferenceStore struct {
	mu   sync.RWMutex
	data map[string]LayoutOverrides
}

// NewInMemoryPreferenceStore creates an empty preference store.
func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{data: make(map[string]LayoutOverrides)}
}

// LayoutOverrides returns stored overrides or empty defaults.
func (s *InMemoryPreferenceStore) LayoutOverrides(_ context.Context, viewer ViewerContext) (LayoutOverrides, error) {
	if viewer.UserID == "" {
		return emptyOverrides(viewer.Locale), nil
	}
	s.mu.RLock()
	overrides, ok := s.data[preferenceKey(viewer)]
	s.mu.RUnlock()
	if !ok {
		return emptyOverrides(viewer.Locale), nil
	}
	out := cloneOverrides(overrides)
	if out.Locale == "" {
		out.Locale = viewer.Locale
	}
	return out, nil
}

// SaveLayoutOverrides persists overrides for a viewer.
func (s *InMemoryPreferenceStore) SaveLayoutOverrides(_ context.Context, viewer ViewerContext, overrides LayoutOverrides) error {
	if viewer.UserID == "" {
		return errPreferencesNeedViewer
	}
	stored := cloneOverrides(overrides)
	if stored.Locale == "" {
		stored.Locale = viewer.Locale
	}
	clampAreaRows(stored.AreaRows)
	s.mu.Lock()
	s.data[preferenceKey(viewer)] = stored
	s.mu.Unlock()
	return nil
}

func preferenceKey(viewer ViewerContext) string {
	if viewer.Locale == "" {
		return viewer.UserID
	}
	return viewer.UserID + "::" + viewer.Locale
}

func emptyOverrides(locale string) LayoutOverrides {
	return LayoutOverrides{
		Locale:        locale,
		AreaOrder:     map[string][]string{},
		AreaRows:      map[string][]LayoutRow{},
		HiddenWidgets: map[string]bool{},
		TableSorts:    map[string]datatable.SortState{},
	}
}

func cloneOverrides(in LayoutOverrides) LayoutOverrides {
	out := emptyOverrides(in.Locale)
	for area, ids := range in.AreaOrder {
		out.AreaOrder[area] = slices.Clone(ids)
	}
	for area, rows := range in.AreaRows {
		copied := make([]LayoutRow, len(rows))
		for i, row := range rows {
			copied[i] = LayoutRow{Widgets: slices.Clone(row.Widgets)}
		}
		out.AreaRows[area] = copied
	}
	maps.Copy(out.HiddenWidgets, in.HiddenWidgets)
	maps.Copy(out.TableSorts, in.TableSorts)
	return out
}

func clampAreaRows(rows map[string][]LayoutRow) {
	for area, list := range rows {
		for rowIdx, row := range list {
			for slotIdx, slot := range row.Widgets {
				rows[area][rowIdx].Widgets[slotIdx].Width = clampWidth(slot.Width)
			}
		}
	}
}
