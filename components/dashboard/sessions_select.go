package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-admin-dashboard/components/searchselect"
	"github.com/goliatone/go-admin-dashboard/internal/clock"
)

// Select actions accepted by SelectSessions.Apply.
const (
	SelectActionOpen     = "open"
	SelectActionClose    = "close"
	SelectActionToggle   = "toggle"
	SelectActionKey      = "key"
	SelectActionType     = "type"
	SelectActionClear    = "clear"
	SelectActionScroll   = "scroll"
	SelectActionLoadMore = "load_more"
	SelectActionChoose   = "choose"
	SelectActionOutside  = "outside"
)

// DefaultSelectPageSize is the number of products fetched per remote page.
const DefaultSelectPageSize = 20

// SelectAction is a viewer interaction with a select widget.
type SelectAction struct {
	Action string `json:"action"`
	Key    string `json:"key,omitempty"`
	Term   string `json:"term,omitempty"`
	Offset int    `json:"offset,omitempty"`
	Value  string `json:"value,omitempty"`
}

// SelectView wraps the select derivation with the widget id.
type SelectView struct {
	WidgetID string            `json:"widget_id"`
	Label    string            `json:"label,omitempty"`
	Select   searchselect.View `json:"select"`
}

// SelectSessionsConfig configures how select sessions talk to the catalog.
type SelectSessionsConfig struct {
	Source        ProductOptionSource
	PageSize      int
	DebounceDelay time.Duration
	Clock         clock.Clock
	// Runner executes remote fetches. Defaults to a new goroutine per fetch;
	// tests pass a synchronous runner.
	Runner func(func())
}

// SelectSessions keeps one remote-search select per viewer and widget. Each
// viewer's selects share a searchselect.Group so only one is open at a time.
type SelectSessions struct {
	opts SessionOptions
	cfg  SelectSessionsConfig

	mu       sync.Mutex
	sessions map[string]*selectSession
	groups   map[string]*searchselect.Group
}

// NewSelectSessions builds the manager.
func NewSelectSessions(opts SessionOptions, cfg SelectSessionsConfig) *SelectSessions {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultSelectPageSize
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Runner == nil {
		cfg.Runner = func(fn func()) { go fn() }
	}
	return &SelectSessions{
		opts:     opts.normalize("dashboard.selects"),
		cfg:      cfg,
		sessions: map[string]*selectSession{},
		groups:   map[string]*searchselect.Group{},
	}
}

// View returns the select view of a widget for the viewer.
func (m *SelectSessions) View(ctx context.Context, viewer ViewerContext, widgetID string) (SelectView, error) {
	instance, err := m.resolve(ctx, viewer, widgetID)
	if err != nil {
		return SelectView{}, err
	}
	return m.session(ctx, viewer, instance).view(), nil
}

// Apply runs a viewer action against the widget's select.
func (m *SelectSessions) Apply(ctx context.Context, viewer ViewerContext, widgetID string, action SelectAction) (SelectView, error) {
	instance, err := m.resolve(ctx, viewer, widgetID)
	if err != nil {
		return SelectView{}, err
	}
	session := m.session(ctx, viewer, instance)
	session.bind(ctx)

	sel := session.sel
	switch action.Action {
	case SelectActionOpen:
		sel.Open()
	case SelectActionClose:
		sel.Close()
	case SelectActionToggle:
		sel.Toggle()
	case SelectActionKey:
		sel.KeyDown(searchselect.Key(action.Key))
	case SelectActionType:
		sel.Type(action.Term)
	case SelectActionClear:
		sel.ClearSearch()
	case SelectActionScroll:
		sel.Scroll(action.Offset)
	case SelectActionLoadMore:
		sel.LoadMore()
	case SelectActionChoose:
		if !sel.Choose(action.Value) {
			return SelectView{}, fmt.Errorf("%w: %q", ErrOptionUnavailable, action.Value)
		}
	case SelectActionOutside:
		m.group(viewer).ClickOutside(nil)
	default:
		return SelectView{}, fmt.Errorf("%w: %q", ErrUnknownAction, action.Action)
	}
	m.opts.Telemetry.Record(ctx, "dashboard.select.action", map[string]any{
		"widget_id": widgetID,
		"action":    action.Action,
	})
	return session.view(), nil
}

// Provider renders the select view as widget data for dashboard pages.
func (m *SelectSessions) Provider() Provider {
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		return WidgetData{"select": m.session(ctx, meta.Viewer, meta.Instance).view()}, nil
	})
}

// Forget closes and drops every viewer's select of a removed widget and
// reports how many were dropped.
func (m *SelectSessions) Forget(widgetID string) int {
	m.mu.Lock()
	var dropped []*selectSession
	for key, session := range m.sessions {
		if session.instance.ID == widgetID {
			dropped = append(dropped, session)
			delete(m.sessions, key)
		}
	}
	m.mu.Unlock()

	for _, session := range dropped {
		session.sel.Close()
		m.group(session.viewer).Remove(session.sel)
	}
	return len(dropped)
}

func (m *SelectSessions) resolve(ctx context.Context, viewer ViewerContext, widgetID string) (WidgetInstance, error) {
	if m.opts.Resolver == nil {
		return WidgetInstance{}, errMissingWidgetStore
	}
	instance, err := m.opts.Resolver.Instance(ctx, viewer, widgetID)
	if err != nil {
		return WidgetInstance{}, err
	}
	if instance.DefinitionID != productPickerCode {
		return WidgetInstance{}, fmt.Errorf("%w: %s has no select", ErrWidgetNotFound, widgetID)
	}
	return instance, nil
}

func (m *SelectSessions) group(viewer ViewerContext) *searchselect.Group {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[viewer.UserID]
	if !ok {
		g = searchselect.NewGroup()
		m.groups[viewer.UserID] = g
	}
	return g
}

func (m *SelectSessions) session(ctx context.Context, viewer ViewerContext, instance WidgetInstance) *selectSession {
	key := sessionKey(viewer, instance.ID)
	m.mu.Lock()
	if s, ok := m.sessions[key]; ok {
		m.mu.Unlock()
		return s
	}
	m.mu.Unlock()

	s := newSelectSession(ctx, m, viewer, instance)
	s.bind(ctx)

	m.mu.Lock()
	if existing, ok := m.sessions[key]; ok {
		m.mu.Unlock()
		return existing
	}
	m.sessions[key] = s
	m.mu.Unlock()

	m.group(viewer).Add(s.sel)
	m.opts.Logger.DebugContext(ctx, "select session created", "widget_id", instance.ID, "viewer", viewer.UserID)
	return s
}

type selectSession struct {
	manager  *SelectSessions
	viewer   ViewerContext
	instance WidgetInstance
	label    string
	sel      *searchselect.Select

	mu      sync.Mutex
	ctx     context.Context
	seq     uint64
	term    string
	// loaded is the seq the current options were fetched for.
	loaded  uint64
	options []searchselect.Option
	total   int
	hasMore bool
	value   string
	details *searchselect.Option
}

func newSelectSession(ctx context.Context, m *SelectSessions, viewer ViewerContext, instance WidgetInstance) *selectSession {
	cfg := instance.Configuration
	message := func(key, configKey string) string {
		return localizedMessage(ctx, m.opts.Translator, "dashboard.widget.product_picker."+key, viewer.Locale, stringValue(cfg[configKey], ""), nil)
	}
	s := &selectSession{
		manager:  m,
		viewer:   viewer,
		instance: instance,
		label:    message("label", "label"),
		ctx:      context.Background(),
	}
	if s.label == "" {
		s.label = "Product"
	}
	placeholder := message("placeholder", "placeholder")
	if placeholder == "" {
		placeholder = "Select a product"
	}
	s.sel = searchselect.New(searchselect.Config{
		ID:                instance.ID,
		Placeholder:       placeholder,
		SearchPlaceholder: message("search_placeholder", "search_placeholder"),
		NoOptionsMessage:  message("no_options", "no_options_message"),
		Required:          boolValue(cfg["required"]),
		DebounceDelay:     m.cfg.DebounceDelay,
		Clock:             m.cfg.Clock,
		Logger:            m.opts.Logger,
		OnChange:          s.onChange,
	}, s.props(false))
	return s
}

// bind stores a context detached from request cancellation for async fetches
// started by this request.
func (s *selectSession) bind(ctx context.Context) {
	s.mu.Lock()
	s.ctx = context.WithoutCancel(ctx)
	s.mu.Unlock()
}

func (s *selectSession) pageSize() int {
	return configInt(s.instance.Configuration, "page_size", s.manager.cfg.PageSize)
}

// props builds the select props from the session state.
func (s *selectSession) props(locked bool) searchselect.Props {
	if !locked {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	var details *searchselect.Option
	if s.details != nil {
		copied := *s.details
		details = &copied
	}
	return searchselect.Props{
		Options:         append([]searchselect.Option(nil), s.options...),
		Value:           s.value,
		SelectedDetails: details,
		Search: searchselect.RemoteSearch{
			OnSearchChange: s.search,
			OnLoadMore:     s.loadMore,
			HasMore:        s.hasMore,
			TotalCount:     s.total,
		},
	}
}

func (s *selectSession) search(term string) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.term = term
	ctx := s.ctx
	s.mu.Unlock()

	s.manager.cfg.Runner(func() {
		s.fetch(ctx, seq, term, 0)
	})
}

// loadMore fetches the next page of the current term. While a search is in
// flight the options belong to the previous term, so the request is skipped
// and the props re-applied to clear the engine's loading flag.
func (s *selectSession) loadMore() {
	s.mu.Lock()
	seq, term, offset, ctx := s.seq, s.term, len(s.options), s.ctx
	pending := s.loaded != seq
	s.mu.Unlock()

	if pending {
		s.manager.opts.Telemetry.Record(ctx, "dashboard.select.load_more_skipped", map[string]any{"widget_id": s.instance.ID})
		s.manager.cfg.Runner(func() {
			s.sel.SetProps(s.props(false))
		})
		return
	}
	s.manager.cfg.Runner(func() {
		s.fetch(ctx, seq, term, offset)
	})
}

func (s *selectSession) fetch(ctx context.Context, seq uint64, term string, offset int) {
	m := s.manager
	if m.cfg.Source == nil {
		s.sel.SetProps(s.props(false))
		return
	}
	page, err := m.cfg.Source.SearchProducts(ctx, ProductQuery{
		Term:   term,
		Offset: offset,
		Limit:  s.pageSize(),
	})

	s.mu.Lock()
	if seq != s.seq || (offset > 0 && s.loaded != seq) {
		s.mu.Unlock()
		m.opts.Logger.DebugContext(ctx, "dropping stale option page", "widget_id", s.instance.ID, "term", term)
		m.opts.Telemetry.Record(ctx, "dashboard.select.stale", map[string]any{"widget_id": s.instance.ID})
		return
	}
	if err != nil {
		props := s.props(true)
		s.mu.Unlock()
		m.opts.Logger.WarnContext(ctx, "option search failed", "widget_id", s.instance.ID, "term", term, "error", err)
		m.opts.Telemetry.Record(ctx, "dashboard.select.error", map[string]any{
			"widget_id": s.instance.ID,
			"error":     err.Error(),
		})
		s.sel.SetProps(props)
		return
	}
	options := productOptions(page.Products)
	if offset == 0 {
		s.options = options
		s.loaded = seq
	} else {
		s.options = append(s.options, options...)
	}
	s.total = page.Total
	s.hasMore = page.HasMore
	props := s.props(true)
	s.mu.Unlock()

	s.sel.SetProps(props)
	if err := m.opts.RefreshHook.WidgetUpdated(ctx, WidgetEvent{
		AreaCode: s.instance.AreaCode,
		Instance: WidgetInstance{ID: s.instance.ID, DefinitionID: s.instance.DefinitionID},
		Reason:   "select_options",
		Payload:  map[string]any{"viewer": s.viewer.UserID, "loaded": len(props.Options)},
	}); err != nil {
		m.opts.Logger.WarnContext(ctx, "refresh hook failed", "widget_id", s.instance.ID, "error", err)
	}
}

func (s *selectSession) onChange(value string) {
	s.mu.Lock()
	s.value = value
	for _, opt := range s.options {
		if opt.Value == value {
			chosen := opt
			s.details = &chosen
			break
		}
	}
	ctx := s.ctx
	s.mu.Unlock()

	m := s.manager
	m.opts.Telemetry.Record(ctx, "dashboard.select.change", map[string]any{
		"widget_id": s.instance.ID,
		"value":     value,
	})
	if m.opts.Activity != nil {
		m.opts.Activity.RecordActivity(ctx, "dashboard.select.choose", s.instance.ID, s.instance.DefinitionID, map[string]any{
			"value": value,
		})
	}
	if err := m.opts.RefreshHook.WidgetUpdated(ctx, WidgetEvent{
		AreaCode: s.instance.AreaCode,
		Instance: WidgetInstance{ID: s.instance.ID, DefinitionID: s.instance.DefinitionID},
		Reason:   "select_change",
		Payload:  map[string]any{"viewer": s.viewer.UserID, "value": value},
	}); err != nil {
		m.opts.Logger.WarnContext(ctx, "refresh hook failed", "widget_id", s.instance.ID, "error", err)
	}
}

func (s *selectSession) view() SelectView {
	return SelectView{
		WidgetID: s.instance.ID,
		Label:    s.label,
		Select:   s.sel.View(),
	}
}

func productOptions(products []Product) []searchselect.Option {
	options := make([]searchselect.Option, len(products))
	for i, p := range products {
		options[i] = searchselect.Option{
			Value: p.ID,
			Label: fmt.Sprintf("%s ($%s)", p.Name, p.Price.StringFixed(2)),
		}
	}
	return options
}
