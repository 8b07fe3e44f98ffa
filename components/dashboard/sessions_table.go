package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-admin-dashboard/components/datatable"
)

// ErrUnknownAction is returned for table or select actions the session does
// not understand.
var ErrUnknownAction = errors.New("dashboard: unknown widget action")

// ErrOptionUnavailable is returned when a viewer chooses an option the select
// does not list, or chooses while it is closed.
var ErrOptionUnavailable = errors.New("dashboard: option not available")

// Table actions accepted by TableSessions.Apply.
const (
	TableActionSort   = "sort"
	TableActionPage   = "page"
	TableActionNext   = "next"
	TableActionPrev   = "prev"
	TableActionSearch = "search"
	TableActionClick  = "click"
	TableActionReload = "reload"
)

// TableAction is a viewer interaction with a table widget.
type TableAction struct {
	Action string `json:"action"`
	Key    string `json:"key,omitempty"`
	Page   int    `json:"page,omitempty"`
	Term   string `json:"term,omitempty"`
	RowID  string `json:"row_id,omitempty"`
}

// TableView is the table derivation plus the session's own filter state.
type TableView struct {
	WidgetID   string                       `json:"widget_id"`
	Title      string                       `json:"title,omitempty"`
	Searchable bool                         `json:"searchable"`
	Search     string                       `json:"search"`
	Matched    int                          `json:"matched"`
	Total      int                          `json:"total"`
	Table      datatable.View               `json:"table"`
	Attributes map[string]map[string]string `json:"attributes,omitempty"`
	Clicked    string                       `json:"clicked,omitempty"`
}

// TableSession is the server-side state of one table widget for one viewer.
type TableSession interface {
	View() TableView
	Apply(ctx context.Context, action TableAction) (TableView, error)
	Reload(ctx context.Context) error
	// Restore applies a remembered sort. It reports false for columns that
	// are no longer sortable.
	Restore(sort datatable.SortState) bool
}

// TableSessionConfig configures a TableSession over rows of type R.
type TableSessionConfig[R datatable.Row] struct {
	WidgetID     string
	Title        string
	Columns      []datatable.Column[R]
	ItemsPerPage int
	// SearchKeys enables the free-text filter over these column keys.
	SearchKeys []string
	Load       func(ctx context.Context) ([]R, error)
	// Attributes adds per-row render hints such as a status tone.
	Attributes func(R) map[string]string
	OnRowClick func(R)
}

type tableSession[R datatable.Row] struct {
	cfg   TableSessionConfig[R]
	table *datatable.Table[R]

	mu      sync.Mutex
	all     []R
	search  string
	clicked string
}

// NewTableSession builds a session and loads its rows.
func NewTableSession[R datatable.Row](ctx context.Context, cfg TableSessionConfig[R]) (TableSession, error) {
	s := &tableSession[R]{cfg: cfg}
	s.table = datatable.New(datatable.Config[R]{
		Columns:      cfg.Columns,
		ItemsPerPage: cfg.ItemsPerPage,
		OnRowClick:   cfg.OnRowClick,
	})
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *tableSession[R]) Reload(ctx context.Context) error {
	if s.cfg.Load == nil {
		return nil
	}
	rows, err := s.cfg.Load(ctx)
	if err != nil {
		return fmt.Errorf("dashboard: load table %s: %w", s.cfg.WidgetID, err)
	}
	s.mu.Lock()
	s.all = rows
	s.table.SetData(datatable.FilterRows(rows, s.search, s.cfg.SearchKeys...))
	s.mu.Unlock()
	return nil
}

func (s *tableSession[R]) Apply(ctx context.Context, action TableAction) (TableView, error) {
	switch action.Action {
	case TableActionSort:
		s.table.ToggleSort(action.Key)
	case TableActionPage:
		s.table.GoToPage(action.Page)
	case TableActionNext:
		s.table.NextPage()
	case TableActionPrev:
		s.table.PrevPage()
	case TableActionSearch:
		s.mu.Lock()
		s.search = action.Term
		s.table.SetData(datatable.FilterRows(s.all, s.search, s.cfg.SearchKeys...))
		s.mu.Unlock()
		s.table.GoToPage(1)
	case TableActionClick:
		if _, ok := s.table.ClickRow(action.RowID); !ok {
			return TableView{}, fmt.Errorf("%w: row %q is not visible", ErrWidgetNotFound, action.RowID)
		}
		s.mu.Lock()
		s.clicked = action.RowID
		s.mu.Unlock()
	case TableActionReload:
		if err := s.Reload(ctx); err != nil {
			return TableView{}, err
		}
	default:
		return TableView{}, fmt.Errorf("%w: %q", ErrUnknownAction, action.Action)
	}
	return s.View(), nil
}

func (s *tableSession[R]) Restore(sort datatable.SortState) bool {
	return s.table.SetSort(&sort)
}

func (s *tableSession[R]) View() TableView {
	s.mu.Lock()
	search, clicked, total := s.search, s.clicked, len(s.all)
	s.mu.Unlock()

	view := TableView{
		WidgetID:   s.cfg.WidgetID,
		Title:      s.cfg.Title,
		Searchable: len(s.cfg.SearchKeys) > 0,
		Search:     search,
		Matched:    len(s.table.Data()),
		Total:      total,
		Table:      s.table.View(),
		Clicked:    clicked,
	}
	if s.cfg.Attributes != nil {
		visible := s.table.VisibleRows()
		view.Attributes = make(map[string]map[string]string, len(visible))
		for _, row := range visible {
			view.Attributes[row.RowID()] = s.cfg.Attributes(row)
		}
	}
	return view
}

// TableFactory builds a session for a widget instance.
type TableFactory func(ctx context.Context, instance WidgetInstance) (TableSession, error)

// InstanceResolver loads a widget instance the viewer is allowed to see.
type InstanceResolver interface {
	Instance(ctx context.Context, viewer ViewerContext, widgetID string) (WidgetInstance, error)
}

// SessionOptions are shared by TableSessions and SelectSessions.
type SessionOptions struct {
	Resolver    InstanceResolver
	RefreshHook RefreshHook
	Telemetry   Telemetry
	Logger      *slog.Logger
	// Translator localizes control messages for the viewer's locale.
	Translator  TranslationService
	// Preferences persists each viewer's table sorts across sessions.
	Preferences PreferenceStore
	// Activity records viewer interactions such as row clicks and selections.
	Activity interface {
		RecordActivity(ctx context.Context, verb, objectID, definitionCode string, meta map[string]any)
	}
}

func (o SessionOptions) normalize(component string) SessionOptions {
	if o.RefreshHook == nil {
		o.RefreshHook = noopRefreshHook{}
	}
	o.Telemetry = normalizeTelemetry(o.Telemetry)
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	o.Logger = o.Logger.With("component", component)
	return o
}

// TableSessions keeps one TableSession per viewer and widget.
type TableSessions struct {
	opts      SessionOptions
	factories map[string]TableFactory

	mu       sync.Mutex
	sessions map[string]TableSession
}

// NewTableSessions builds the manager. Factories are keyed by widget
// definition code.
func NewTableSessions(opts SessionOptions, factories map[string]TableFactory) *TableSessions {
	f := make(map[string]TableFactory, len(factories))
	for code, factory := range factories {
		f[code] = factory
	}
	return &TableSessions{
		opts:      opts.normalize("dashboard.tables"),
		factories: f,
		sessions:  map[string]TableSession{},
	}
}

// Register adds or replaces the factory for a definition code.
func (m *TableSessions) Register(code string, factory TableFactory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factories[code] = factory
}

// Handles reports whether the manager has a factory for the definition.
func (m *TableSessions) Handles(code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.factories[code]
	return ok
}

// View returns the table view of a widget for the viewer.
func (m *TableSessions) View(ctx context.Context, viewer ViewerContext, widgetID string) (TableView, error) {
	instance, err := m.resolve(ctx, viewer, widgetID)
	if err != nil {
		return TableView{}, err
	}
	session, err := m.session(ctx, viewer, instance)
	if err != nil {
		return TableView{}, err
	}
	return session.View(), nil
}

// Apply runs a viewer action against the widget's table session.
func (m *TableSessions) Apply(ctx context.Context, viewer ViewerContext, widgetID string, action TableAction) (TableView, error) {
	instance, err := m.resolve(ctx, viewer, widgetID)
	if err != nil {
		return TableView{}, err
	}
	session, err := m.session(ctx, viewer, instance)
	if err != nil {
		return TableView{}, err
	}
	view, err := session.Apply(ctx, action)
	if err != nil {
		m.opts.Logger.DebugContext(ctx, "table action rejected", "widget_id", widgetID, "action", action.Action, "error", err)
		return TableView{}, err
	}
	page := 1
	if view.Table.Pagination != nil {
		page = view.Table.Pagination.CurrentPage
	}
	payload := map[string]any{
		"widget_id": widgetID,
		"action":    action.Action,
		"page":      page,
	}
	m.opts.Telemetry.Record(ctx, "dashboard.table.action", payload)
	if action.Action == TableActionSort {
		m.rememberSort(ctx, viewer, widgetID, view.Table.Sort)
	}
	if action.Action == TableActionClick && m.opts.Activity != nil {
		m.opts.Activity.RecordActivity(ctx, "dashboard.table.row_click", widgetID, instance.DefinitionID, map[string]any{
			"row_id": action.RowID,
		})
	}
	if err := m.opts.RefreshHook.WidgetUpdated(ctx, WidgetEvent{
		AreaCode: instance.AreaCode,
		Instance: WidgetInstance{ID: widgetID, DefinitionID: instance.DefinitionID},
		Reason:   "table_" + action.Action,
		Payload:  map[string]any{"viewer": viewer.UserID},
	}); err != nil {
		m.opts.Logger.WarnContext(ctx, "refresh hook failed", "widget_id", widgetID, "error", err)
	}
	return view, nil
}

// Provider renders the table view as widget data for dashboard pages.
func (m *TableSessions) Provider() Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		session, err := m.session(ctx, meta.Viewer, meta.Instance)
		if err != nil {
			return nil, err
		}
		return WidgetData{"table": session.View()}, nil
	})
}

// Forget drops every viewer's session of a removed widget and reports how
// many were dropped.
func (m *TableSessions) Forget(widgetID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	dropped := 0
	for key := range m.sessions {
		if strings.HasSuffix(key, "/"+widgetID) {
			delete(m.sessions, key)
			dropped++
		}
	}
	return dropped
}

// ReloadWidget reloads the rows of every open session of the widget while
// keeping each viewer's page, sort and search.
func (m *TableSessions) ReloadWidget(ctx context.Context, widgetID string) (int, error) {
	m.mu.Lock()
	var open []TableSession
	for key, session := range m.sessions {
		if strings.HasSuffix(key, "/"+widgetID) {
			open = append(open, session)
		}
	}
	m.mu.Unlock()
	var errs []error
	for _, session := range open {
		if err := session.Reload(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return len(open), errors.Join(errs...)
}

// Reset drops every session of the viewer, e.g. on logout.
func (m *TableSessions) Reset(viewer ViewerContext) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := viewer.UserID + "/"
	for key := range m.sessions {
		if strings.HasPrefix(key, prefix) {
			delete(m.sessions, key)
		}
	}
}

func (m *TableSessions) resolve(ctx context.Context, viewer ViewerContext, widgetID string) (WidgetInstance, error) {
	if m.opts.Resolver == nil {
		return WidgetInstance{}, errMissingWidgetStore
	}
	return m.opts.Resolver.Instance(ctx, viewer, widgetID)
}

func (m *TableSessions) session(ctx context.Context, viewer ViewerContext, instance WidgetInstance) (TableSession, error) {
	key := sessionKey(viewer, instance.ID)
	m.mu.Lock()
	if session, ok := m.sessions[key]; ok {
		m.mu.Unlock()
		return session, nil
	}
	factory, ok := m.factories[instance.DefinitionID]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s has no table", ErrWidgetNotFound, instance.ID)
	}

	session, err := factory(ctx, instance)
	if err != nil {
		return nil, err
	}
	m.restoreSort(ctx, viewer, instance.ID, session)

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[key]; ok {
		return existing, nil
	}
	m.sessions[key] = session
	m.opts.Logger.DebugContext(ctx, "table session created", "widget_id", instance.ID, "viewer", viewer.UserID)
	return session, nil
}

func (m *TableSessions) restoreSort(ctx context.Context, viewer ViewerContext, widgetID string, session TableSession) {
	if m.opts.Preferences == nil || viewer.UserID == "" {
		return
	}
	overrides, err := m.opts.Preferences.LayoutOverrides(ctx, viewer)
	if err != nil {
		m.opts.Logger.WarnContext(ctx, "load table sort failed", "widget_id", widgetID, "error", err)
		return
	}
	if sort, ok := overrides.TableSorts[widgetID]; ok && !session.Restore(sort) {
		m.opts.Logger.DebugContext(ctx, "stored sort ignored", "widget_id", widgetID, "key", sort.Key)
	}
}

// rememberSort stores the sort, or forgets it once the viewer cleared it.
func (m *TableSessions) rememberSort(ctx context.Context, viewer ViewerContext, widgetID string, sort *datatable.SortState) {
	if m.opts.Preferences == nil || viewer.UserID == "" {
		return
	}
	overrides, err := m.opts.Preferences.LayoutOverrides(ctx, viewer)
	if err == nil {
		if overrides.TableSorts == nil {
			overrides.TableSorts = map[string]datatable.SortState{}
		}
		if sort == nil {
			delete(overrides.TableSorts, widgetID)
		} else {
			overrides.TableSorts[widgetID] = *sort
		}
		err = m.opts.Preferences.SaveLayoutOverrides(ctx, viewer, overrides)
	}
	if err != nil {
		m.opts.Logger.WarnContext(ctx, "save table sort failed", "widget_id", widgetID, "error", err)
	}
}

func sessionKey(viewer ViewerContext, widgetID string) string {
	return viewer.UserID + "/" + widgetID
}

func configInt(cfg map[string]any, key string, fallback int) int {
	switch v := cfg[key].(type) {
	case int:
		if v > 0 {
			return v
		}
	case int64:
		if v > 0 {
			return int(v)
		}
	case float64:
		if v > 0 {
			return int(v)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
