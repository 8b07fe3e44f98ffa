package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-admin-dashboard/components/searchselect"
	"github.com/goliatone/go-admin-dashboard/internal/clock"
)

// queuedRunner holds fetches until the test runs them, in any order.
type queuedRunner struct {
	mu    sync.Mutex
	queue []func()
}

func (r *queuedRunner) run(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queue = append(r.queue, fn)
}

func (r *queuedRunner) flush(t *testing.T, order ...int) {
	t.Helper()
	r.mu.Lock()
	queue := r.queue
	r.queue = nil
	r.mu.Unlock()
	if len(order) == 0 {
		for i := range queue {
			order = append(order, i)
		}
	}
	require.Len(t, order, len(queue), "every queued fetch must run")
	for _, i := range order {
		queue[i]()
	}
}

type failingProductSource struct{ err error }

func (f failingProductSource) SearchProducts(context.Context, ProductQuery) (ProductPage, error) {
	return ProductPage{}, f.err
}

func (f failingProductSource) TopProducts(context.Context, int) ([]Product, error) {
	return nil, f.err
}

type selectFixture struct {
	sessions  *SelectSessions
	runner    *queuedRunner
	clock     *clock.FakeClock
	hook      *recordingRefreshHook
	telemetry *recordingTelemetry
	activity  *recordingActivity
	viewer    ViewerContext
}

func newSelectFixture(t *testing.T, source ProductOptionSource, debounce time.Duration) *selectFixture {
	t.Helper()
	f := &selectFixture{
		runner:    &queuedRunner{},
		clock:     clock.Fake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		hook:      &recordingRefreshHook{},
		telemetry: &recordingTelemetry{},
		activity:  &recordingActivity{},
		viewer:    ViewerContext{UserID: "alice"},
	}
	resolver := stubInstanceResolver{instances: map[string]WidgetInstance{
		"picker":  {ID: "picker", DefinitionID: productPickerCode, Configuration: map[string]any{"page_size": 5}},
		"picker2": {ID: "picker2", DefinitionID: productPickerCode},
		"orders":  {ID: "orders", DefinitionID: orderListCode},
	}}
	f.sessions = NewSelectSessions(SessionOptions{
		Resolver:    resolver,
		RefreshHook: f.hook,
		Telemetry:   f.telemetry,
		Activity:    f.activity,
	}, SelectSessionsConfig{
		Source:        source,
		DebounceDelay: debounce,
		Clock:         f.clock,
		Runner:        f.runner.run,
	})
	return f
}

func (f *selectFixture) apply(t *testing.T, widgetID string, action SelectAction) SelectView {
	t.Helper()
	view, err := f.sessions.Apply(context.Background(), f.viewer, widgetID, action)
	require.NoError(t, err)
	return view
}

func optionValues(view SelectView) []string {
	out := make([]string, len(view.Select.Items))
	for i, item := range view.Select.Items {
		out[i] = item.Value
	}
	return out
}

func TestSelectSessionsOpenLoadsFirstPage(t *testing.T) {
	f := newSelectFixture(t, NewStaticProductCatalog(DefaultProducts()), -1)

	view := f.apply(t, "picker", SelectAction{Action: SelectActionOpen})
	assert.True(t, view.Select.Open)
	assert.Empty(t, view.Select.Items)

	f.runner.flush(t)
	view, err := f.sessions.View(context.Background(), f.viewer, "picker")
	require.NoError(t, err)
	assert.Equal(t, 5, view.Select.OptionCount)
	assert.Equal(t, "ASOS Ridley High Waist ($75.49)", view.Select.Items[0].Label)
	require.NotNil(t, view.Select.LoadMore)
	assert.Equal(t, 12, view.Select.LoadMore.Total)
	assert.Contains(t, f.hook.reasons(), "select_options")
}

func TestSelectSessionsLoadMoreAppends(t *testing.T) {
	f := newSelectFixture(t, NewStaticProductCatalog(DefaultProducts()), -1)
	f.apply(t, "picker", SelectAction{Action: SelectActionOpen})
	f.runner.flush(t)

	f.apply(t, "picker", SelectAction{Action: SelectActionLoadMore})
	f.runner.flush(t)
	view, err := f.sessions.View(context.Background(), f.viewer, "picker")
	require.NoError(t, err)
	assert.Equal(t, 10, view.Select.OptionCount)
}

func TestSelectSessionsDropsStalePages(t *testing.T) {
	f := newSelectFixture(t, NewStaticProductCatalog(DefaultProducts()), -1)
	f.apply(t, "picker", SelectAction{Action: SelectActionOpen})
	f.apply(t, "picker", SelectAction{Action: SelectActionType, Term: "jacket"})

	// The newer search answers first; the empty-term page arrives late.
	f.runner.flush(t, 1, 0)

	view, err := f.sessions.View(context.Background(), f.viewer, "picker")
	require.NoError(t, err)
	assert.Equal(t, []string{"P-1004", "P-1006"}, optionValues(view))
	assert.Contains(t, f.telemetry.events, "dashboard.select.stale")
}

func TestSelectSessionsLoadMoreWaitsForSearch(t *testing.T) {
	products := make([]Product, 40)
	for i := range products {
		products[i] = newProduct(fmt.Sprintf("p%02d", i), fmt.Sprintf("Item %02d", i), "10.00", 1)
	}
	f := newSelectFixture(t, NewStaticProductCatalog(products), -1)
	f.apply(t, "picker", SelectAction{Action: SelectActionOpen})
	f.runner.flush(t)
	f.apply(t, "picker", SelectAction{Action: SelectActionLoadMore})
	f.runner.flush(t)
	view, err := f.sessions.View(context.Background(), f.viewer, "picker")
	require.NoError(t, err)
	require.Equal(t, 10, view.Select.OptionCount)

	// The page after the old ten options must not land on the new term.
	f.apply(t, "picker", SelectAction{Action: SelectActionType, Term: "item"})
	f.apply(t, "picker", SelectAction{Action: SelectActionLoadMore})
	f.runner.flush(t)

	view, err = f.sessions.View(context.Background(), f.viewer, "picker")
	require.NoError(t, err)
	assert.Equal(t, []string{"p00", "p01", "p02", "p03", "p04"}, optionValues(view))
	require.NotNil(t, view.Select.LoadMore)
	assert.False(t, view.Select.LoadMore.Loading)
	assert.Contains(t, f.telemetry.events, "dashboard.select.load_more_skipped")

	f.apply(t, "picker", SelectAction{Action: SelectActionLoadMore})
	f.runner.flush(t)
	view, err = f.sessions.View(context.Background(), f.viewer, "picker")
	require.NoError(t, err)
	assert.Equal(t, []string{"p00", "p01", "p02", "p03", "p04", "p05", "p06", "p07", "p08", "p09"}, optionValues(view))
}

func TestSelectSessionsDebouncesTyping(t *testing.T) {
	f := newSelectFixture(t, NewStaticProductCatalog(DefaultProducts()), 300*time.Millisecond)
	f.apply(t, "picker", SelectAction{Action: SelectActionOpen})
	f.runner.flush(t)

	f.apply(t, "picker", SelectAction{Action: SelectActionType, Term: "sh"})
	f.apply(t, "picker", SelectAction{Action: SelectActionType, Term: "shirt"})
	f.clock.Advance(299 * time.Millisecond)
	f.runner.flush(t)

	f.clock.Advance(time.Millisecond)
	f.runner.flush(t)
	view, err := f.sessions.View(context.Background(), f.viewer, "picker")
	require.NoError(t, err)
	assert.Equal(t, []string{"P-1002", "P-1003", "P-1011"}, optionValues(view))
}

func TestSelectSessionsChooseRecordsSelection(t *testing.T) {
	f := newSelectFixture(t, NewStaticProductCatalog(DefaultProducts()), -1)
	f.apply(t, "picker", SelectAction{Action: SelectActionOpen})
	f.runner.flush(t)

	view := f.apply(t, "picker", SelectAction{Action: SelectActionChoose, Value: "P-1003"})
	assert.False(t, view.Select.Open)
	require.NotNil(t, view.Select.Selected)
	assert.Equal(t, "P-1003", view.Select.Selected.Value)
	assert.Equal(t, []string{"dashboard.select.choose"}, f.activity.verbs)
	assert.Contains(t, f.hook.reasons(), "select_change")

	_, err := f.sessions.Apply(context.Background(), f.viewer, "picker", SelectAction{Action: SelectActionChoose, Value: "P-1003"})
	assert.True(t, errors.Is(err, ErrOptionUnavailable), "closed select cannot choose")
	assert.False(t, errors.Is(err, ErrWidgetNotFound))
}

func TestSelectSessionsSearchErrorKeepsOptions(t *testing.T) {
	f := newSelectFixture(t, failingProductSource{err: errors.New("catalog down")}, -1)
	f.apply(t, "picker", SelectAction{Action: SelectActionOpen})
	f.runner.flush(t)

	view, err := f.sessions.View(context.Background(), f.viewer, "picker")
	require.NoError(t, err)
	assert.True(t, view.Select.Open)
	assert.False(t, view.Select.TriggerLoading)
	assert.Contains(t, f.telemetry.events, "dashboard.select.error")
}

func TestSelectSessionsOneOpenPerViewer(t *testing.T) {
	f := newSelectFixture(t, NewStaticProductCatalog(DefaultProducts()), -1)
	f.apply(t, "picker", SelectAction{Action: SelectActionOpen})
	f.apply(t, "picker2", SelectAction{Action: SelectActionOpen})
	f.runner.flush(t)

	first, err := f.sessions.View(context.Background(), f.viewer, "picker")
	require.NoError(t, err)
	assert.False(t, first.Select.Open)

	view := f.apply(t, "picker2", SelectAction{Action: SelectActionOutside})
	assert.False(t, view.Select.Open)
}

func TestSelectSessionsRejectsOtherWidgets(t *testing.T) {
	f := newSelectFixture(t, NewStaticProductCatalog(DefaultProducts()), -1)
	_, err := f.sessions.View(context.Background(), f.viewer, "orders")
	assert.True(t, errors.Is(err, ErrWidgetNotFound))

	_, err = f.sessions.Apply(context.Background(), f.viewer, "picker", SelectAction{Action: "explode"})
	assert.True(t, errors.Is(err, ErrUnknownAction))
}

func TestSelectSessionsKeyboard(t *testing.T) {
	f := newSelectFixture(t, NewStaticProductCatalog(DefaultProducts()), -1)
	view := f.apply(t, "picker", SelectAction{Action: SelectActionKey, Key: string(searchselect.KeyArrowDown)})
	assert.True(t, view.Select.Open)
	f.runner.flush(t)

	f.apply(t, "picker", SelectAction{Action: SelectActionKey, Key: string(searchselect.KeyArrowDown)})
	view = f.apply(t, "picker", SelectAction{Action: SelectActionKey, Key: string(searchselect.KeyEnter)})
	assert.False(t, view.Select.Open)
	assert.True(t, slices.Contains(f.activity.verbs, "dashboard.select.choose"))
}

func TestSelectSessionsLocalizeMessages(t *testing.T) {
	resolver := stubInstanceResolver{instances: map[string]WidgetInstance{
		"picker":     {ID: "picker", DefinitionID: productPickerCode},
		"configured": {ID: "configured", DefinitionID: productPickerCode, Configuration: map[string]any{"placeholder": "Pick one"}},
	}}
	sessions := NewSelectSessions(SessionOptions{
		Resolver: resolver,
		Translator: MessageCatalog{"es": {
			"dashboard.widget.product_picker.label":              "Producto",
			"dashboard.widget.product_picker.placeholder":        "Elige un producto",
			"dashboard.widget.product_picker.search_placeholder": "Buscar...",
		}},
	}, SelectSessionsConfig{Source: NewStaticProductCatalog(DefaultProducts()), Runner: func(func()) {}})
	viewer := ViewerContext{UserID: "lucia", Locale: "es-MX"}

	view, err := sessions.View(context.Background(), viewer, "picker")
	require.NoError(t, err)
	assert.Equal(t, "Producto", view.Label)
	assert.Equal(t, "Elige un producto", view.Select.Placeholder)
	assert.Equal(t, "Buscar...", view.Select.SearchPlaceholder)

	view, err = sessions.View(context.Background(), viewer, "configured")
	require.NoError(t, err)
	assert.Equal(t, "Pick one", view.Select.Placeholder, "instance configuration wins over translations")

	view, err = sessions.View(context.Background(), ViewerContext{UserID: "lucia", Locale: "fr"}, "picker")
	require.NoError(t, err)
	assert.Equal(t, "Product", view.Label)
	assert.Equal(t, "Select a product", view.Select.Placeholder)
}

func TestSelectSessionsForgetClosesAndReleases(t *testing.T) {
	f := newSelectFixture(t, NewStaticProductCatalog(DefaultProducts()), -1)
	view := f.apply(t, "picker", SelectAction{Action: SelectActionOpen})
	require.True(t, view.Select.Open)
	f.runner.flush(t)

	assert.Equal(t, 1, f.sessions.Forget("picker"))
	assert.Nil(t, f.sessions.group(f.viewer).Open())

	view, err := f.sessions.View(context.Background(), f.viewer, "picker")
	require.NoError(t, err)
	assert.False(t, view.Select.Open)
}
