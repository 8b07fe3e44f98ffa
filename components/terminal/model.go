// Package terminal renders the interactive dashboard widgets (the orders
// table and the product picker) as a bubbletea program backed by the same
// server sessions the HTTP transports use.
package terminal

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-admin-dashboard/components/dashboard"
	"github.com/goliatone/go-admin-dashboard/components/searchselect"
)

// TableClient reads and drives table sessions.
type TableClient interface {
	View(ctx context.Context, viewer dashboard.ViewerContext, widgetID string) (dashboard.TableView, error)
	Apply(ctx context.Context, viewer dashboard.ViewerContext, widgetID string, action dashboard.TableAction) (dashboard.TableView, error)
}

// SelectClient reads and drives select sessions.
type SelectClient interface {
	View(ctx context.Context, viewer dashboard.ViewerContext, widgetID string) (dashboard.SelectView, error)
	Apply(ctx context.Context, viewer dashboard.ViewerContext, widgetID string, action dashboard.SelectAction) (dashboard.SelectView, error)
}

// EventSource delivers widget events scoped to a viewer.
type EventSource interface {
	SubscribeViewer(viewerID string) (<-chan dashboard.WidgetEvent, func())
}

// Focus selects which widget receives keyboard input.
type Focus int

const (
	FocusTable Focus = iota
	FocusSelect
)

// Options configures a Model. TableID or SelectID may be empty to show a
// single widget.
type Options struct {
	Viewer   dashboard.ViewerContext
	Tables   TableClient
	Selects  SelectClient
	Events   EventSource
	TableID  string
	SelectID string
	Theme    *Theme
	Keys     *KeyMap
}

type tableViewMsg struct {
	view dashboard.TableView
	err  error
}

type selectViewMsg struct {
	view dashboard.SelectView
	err  error
}

type widgetEventMsg struct {
	event dashboard.WidgetEvent
}

// Model is the bubbletea model of the terminal dashboard.
type Model struct {
	ctx    context.Context
	opts   Options
	theme  Theme
	keys   KeyMap
	help   help.Model
	events <-chan dashboard.WidgetEvent
	cancel func()

	focus    Focus
	table    tablePane
	picker   pickerPane
	spinner  spinner.Model
	spinning bool
	err      error
	width    int
	height   int
}

// NewModel builds a model and subscribes to the viewer's widget events.
// Call Close once the program exits.
func NewModel(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	theme := DefaultTheme
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	keys := DefaultKeyMap
	if opts.Keys != nil {
		keys = *opts.Keys
	}
	model := Model{
		ctx:     ctx,
		opts:    opts,
		theme:   theme,
		keys:    keys,
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		focus:   FocusTable,
	}
	if !model.hasTable() {
		model.focus = FocusSelect
	}
	if opts.Events != nil {
		model.events, model.cancel = opts.Events.SubscribeViewer(opts.Viewer.UserID)
	}
	return model
}

// Close releases the event subscription.
func (model Model) Close() {
	if model.cancel != nil {
		model.cancel()
	}
}

func (model Model) hasTable() bool {
	return model.opts.Tables != nil && model.opts.TableID != ""
}

func (model Model) hasSelect() bool {
	return model.opts.Selects != nil && model.opts.SelectID != ""
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	var commands []tea.Cmd
	if model.hasTable() {
		commands = append(commands, model.fetchTable())
	}
	if model.hasSelect() {
		commands = append(commands, model.fetchSelect())
	}
	if model.events != nil {
		commands = append(commands, listenForEvent(model.events))
	}
	return tea.Batch(commands...)
}

// listenForEvent waits for the next widget event on channel.
func listenForEvent(channel <-chan dashboard.WidgetEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-channel
		if !ok {
			return nil
		}
		return widgetEventMsg{event: event}
	}
}

func (model Model) fetchTable() tea.Cmd {
	ctx, viewer, id, client := model.ctx, model.opts.Viewer, model.opts.TableID, model.opts.Tables
	return func() tea.Msg {
		view, err := client.View(ctx, viewer, id)
		return tableViewMsg{view: view, err: err}
	}
}

func (model Model) applyTable(action dashboard.TableAction) tea.Cmd {
	ctx, viewer, id, client := model.ctx, model.opts.Viewer, model.opts.TableID, model.opts.Tables
	return func() tea.Msg {
		view, err := client.Apply(ctx, viewer, id, action)
		return tableViewMsg{view: view, err: err}
	}
}

func (model Model) fetchSelect() tea.Cmd {
	ctx, viewer, id, client := model.ctx, model.opts.Viewer, model.opts.SelectID, model.opts.Selects
	return func() tea.Msg {
		view, err := client.View(ctx, viewer, id)
		return selectViewMsg{view: view, err: err}
	}
}

func (model Model) applySelect(action dashboard.SelectAction) tea.Cmd {
	ctx, viewer, id, client := model.ctx, model.opts.Viewer, model.opts.SelectID, model.opts.Selects
	return func() tea.Msg {
		view, err := client.Apply(ctx, viewer, id, action)
		return selectViewMsg{view: view, err: err}
	}
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.help.Width = message.Width
		return model, nil

	case tableViewMsg:
		if message.err != nil {
			model.err = message.err
			return model, nil
		}
		model.err = nil
		model.table.setView(message.view)
		return model, nil

	case selectViewMsg:
		if message.err != nil {
			model.err = message.err
			return model, nil
		}
		model.err = nil
		model.picker.setView(message.view)
		if model.picker.loading() && !model.spinning {
			model.spinning = true
			return model, model.spinner.Tick
		}
		return model, nil

	case spinner.TickMsg:
		if !model.picker.loading() {
			model.spinning = false
			return model, nil
		}
		var command tea.Cmd
		model.spinner, command = model.spinner.Update(message)
		return model, command

	case widgetEventMsg:
		commands := []tea.Cmd{listenForEvent(model.events)}
		switch message.event.Instance.ID {
		case "":
		case model.opts.SelectID:
			if model.hasSelect() {
				commands = append(commands, model.fetchSelect())
			}
		case model.opts.TableID:
			if model.hasTable() {
				commands = append(commands, model.fetchTable())
			}
		}
		return model, tea.Batch(commands...)

	case tea.KeyMsg:
		if model.focus == FocusTable && model.table.searching {
			return model.handleSearchKeys(message)
		}
		if model.focus == FocusSelect && model.picker.open() {
			return model.handleOpenPickerKeys(message)
		}
		switch {
		case key.Matches(message, model.keys.Quit):
			return model, tea.Quit
		case key.Matches(message, model.keys.Focus):
			model.toggleFocus()
			return model, nil
		}
		if model.focus == FocusTable {
			return model.handleTableKeys(message)
		}
		return model.handlePickerKeys(message)
	}
	return model, nil
}

func (model *Model) toggleFocus() {
	switch {
	case model.focus == FocusTable && model.hasSelect():
		model.focus = FocusSelect
	case model.focus == FocusSelect && model.hasTable():
		model.focus = FocusTable
	}
}

func (model Model) handleTableKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !model.hasTable() {
		return model, nil
	}
	switch {
	case key.Matches(message, model.keys.Up):
		model.table.move(-1)
	case key.Matches(message, model.keys.Down):
		model.table.move(1)
	case key.Matches(message, model.keys.PrevPage):
		return model, model.applyTable(dashboard.TableAction{Action: dashboard.TableActionPrev})
	case key.Matches(message, model.keys.NextPage):
		return model, model.applyTable(dashboard.TableAction{Action: dashboard.TableActionNext})
	case key.Matches(message, model.keys.Reload):
		return model, model.applyTable(dashboard.TableAction{Action: dashboard.TableActionReload})
	case key.Matches(message, model.keys.Search):
		if model.table.view.Searchable {
			model.table.searching = true
			model.table.input = model.table.view.Search
		}
	case key.Matches(message, model.keys.Choose):
		if id, ok := model.table.currentRow(); ok {
			return model, model.applyTable(dashboard.TableAction{Action: dashboard.TableActionClick, RowID: id})
		}
	default:
		if column, ok := digit(message); ok {
			if sortKey, ok := model.table.sortKey(column); ok {
				return model, model.applyTable(dashboard.TableAction{Action: dashboard.TableActionSort, Key: sortKey})
			}
		}
	}
	return model, nil
}

// handleSearchKeys edits the table search term. Every edit is applied so
// the table filters as the viewer types. Esc clears the search.
func (model Model) handleSearchKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEsc:
		model.table.searching = false
		model.table.input = ""
	case tea.KeyEnter:
		model.table.searching = false
		return model, nil
	case tea.KeyCtrlC:
		return model, tea.Quit
	case tea.KeyBackspace:
		model.table.input = trimLastRune(model.table.input)
	case tea.KeySpace:
		model.table.input += " "
	case tea.KeyRunes:
		model.table.input += string(message.Runes)
	default:
		return model, nil
	}
	return model, model.applyTable(dashboard.TableAction{Action: dashboard.TableActionSearch, Term: model.table.input})
}

func (model Model) handlePickerKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !model.hasSelect() {
		return model, nil
	}
	switch {
	case key.Matches(message, model.keys.Toggle),
		key.Matches(message, model.keys.Choose),
		key.Matches(message, model.keys.Down):
		return model, model.applySelect(dashboard.SelectAction{Action: dashboard.SelectActionOpen})
	case key.Matches(message, model.keys.Clear):
		return model, model.applySelect(dashboard.SelectAction{Action: dashboard.SelectActionClear})
	}
	return model, nil
}

// handleOpenPickerKeys routes input while the dropdown is open. Printable
// keys go to the search term, so vim-style bindings are not active here.
func (model Model) handleOpenPickerKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyCtrlC:
		return model, tea.Quit
	case tea.KeyEsc:
		return model, model.applySelect(dashboard.SelectAction{Action: dashboard.SelectActionKey, Key: string(searchselect.KeyEscape)})
	case tea.KeyEnter:
		return model, model.applySelect(dashboard.SelectAction{Action: dashboard.SelectActionKey, Key: string(searchselect.KeyEnter)})
	case tea.KeyUp:
		return model, model.applySelect(dashboard.SelectAction{Action: dashboard.SelectActionKey, Key: string(searchselect.KeyArrowUp)})
	case tea.KeyDown:
		return model, model.applySelect(dashboard.SelectAction{Action: dashboard.SelectActionKey, Key: string(searchselect.KeyArrowDown)})
	case tea.KeyTab:
		// Leaving the widget counts as a click outside it.
		model.toggleFocus()
		return model, model.applySelect(dashboard.SelectAction{Action: dashboard.SelectActionOutside})
	case tea.KeyCtrlL:
		return model, model.applySelect(dashboard.SelectAction{Action: dashboard.SelectActionLoadMore})
	case tea.KeyCtrlU:
		model.picker.term = ""
		return model, model.applySelect(dashboard.SelectAction{Action: dashboard.SelectActionClear})
	case tea.KeyBackspace:
		model.picker.term = trimLastRune(model.picker.term)
	case tea.KeySpace:
		model.picker.term += " "
	case tea.KeyRunes:
		model.picker.term += string(message.Runes)
	default:
		return model, nil
	}
	return model, model.applySelect(dashboard.SelectAction{Action: dashboard.SelectActionType, Term: model.picker.term})
}

// View implements tea.Model.
func (model Model) View() string {
	var panes []string
	if model.hasTable() {
		focused := model.focus == FocusTable
		panes = append(panes, model.theme.pane(focused).Render(model.table.render(model.theme, focused)))
	}
	if model.hasSelect() {
		focused := model.focus == FocusSelect
		panes = append(panes, model.theme.pane(focused).Render(model.picker.render(model.theme, model.spinner, focused)))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, panes...)

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	if model.err != nil {
		b.WriteString(model.theme.errorText().Render("error: " + model.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(model.help.ShortHelpView(model.helpBindings()))
	return b.String()
}

func (model Model) helpBindings() []key.Binding {
	if model.focus == FocusTable {
		return []key.Binding{
			model.keys.Up, model.keys.Down, model.keys.PrevPage, model.keys.NextPage,
			model.keys.Search, model.keys.Choose, model.keys.Focus, model.keys.Quit,
		}
	}
	if model.picker.open() {
		return []key.Binding{model.keys.Choose, model.keys.Escape, model.keys.LoadMore, model.keys.Clear, model.keys.Focus}
	}
	return []key.Binding{model.keys.Toggle, model.keys.Clear, model.keys.Focus, model.keys.Quit}
}

// Focused reports the widget receiving input.
func (model Model) Focused() Focus {
	return model.focus
}

// Err returns the last error reported by a session.
func (model Model) Err() error {
	return model.err
}

func digit(message tea.KeyMsg) (int, bool) {
	if message.Type != tea.KeyRunes || len(message.Runes) != 1 {
		return 0, false
	}
	r := message.Runes[0]
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '0'), true
}

func trimLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
