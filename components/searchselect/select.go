package searchselect

import (
	"log/slog"
	"sync"
	"time"

	"github.com/goliatone/go-admin-dashboard/internal/clock"
)

const (
	DefaultSearchPlaceholder = "Search..."
	DefaultNoOptionsMessage  = "No options found"
	DefaultDebounceDelay     = 300 * time.Millisecond
	DefaultItemHeight        = 40
	DefaultViewportHeight    = 200
	DefaultOverscan          = 5
)

// Key is a keyboard key delivered to the trigger.
type Key string

const (
	KeyEscape    Key = "Escape"
	KeyEnter     Key = "Enter"
	KeyArrowUp   Key = "ArrowUp"
	KeyArrowDown Key = "ArrowDown"
)

// Config holds the per-instance settings that do not change between updates.
type Config struct {
	ID                string
	Placeholder       string
	SearchPlaceholder string
	NoOptionsMessage  string
	Required          bool

	// DebounceDelay applies to remote searches. A negative value disables
	// debouncing.
	DebounceDelay  time.Duration
	ItemHeight     int
	ViewportHeight int
	Overscan       int

	// OnChange receives the chosen value.
	OnChange func(value string)
	// OnOpen fires every time the dropdown opens.
	OnOpen func()

	Clock  clock.Clock
	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.SearchPlaceholder == "" {
		c.SearchPlaceholder = DefaultSearchPlaceholder
	}
	if c.NoOptionsMessage == "" {
		c.NoOptionsMessage = DefaultNoOptionsMessage
	}
	switch {
	case c.DebounceDelay == 0:
		c.DebounceDelay = DefaultDebounceDelay
	case c.DebounceDelay < 0:
		c.DebounceDelay = 0
	}
	if c.ItemHeight <= 0 {
		c.ItemHeight = DefaultItemHeight
	}
	if c.ViewportHeight <= 0 {
		c.ViewportHeight = DefaultViewportHeight
	}
	if c.Overscan < 0 {
		c.Overscan = 0
	} else if c.Overscan == 0 {
		c.Overscan = DefaultOverscan
	}
	if c.Clock == nil {
		c.Clock = clock.Real()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Props is the parent-owned input, replaced wholesale by SetProps.
type Props struct {
	Options         []Option
	Value           string
	SelectedDetails *Option
	Disabled        bool
	IsLoading       bool
	// Search defaults to LocalSearch with a SubstringMatcher.
	Search SearchMode
}

// Select is a searchable single-select state machine. It is safe for
// concurrent use; the debounce timer fires on its own goroutine.
type Select struct {
	cfg       Config
	logger    *slog.Logger
	debouncer *Debouncer

	mu          sync.Mutex
	props       Props
	open        bool
	term        string
	searching   bool
	loadingMore bool
	scroll      int
	highlight   int
	group       *Group
}

// New builds a closed select.
func New(cfg Config, props Props) *Select {
	cfg = cfg.withDefaults()
	return &Select{
		cfg:       cfg,
		logger:    cfg.Logger.With("component", "searchselect", "id", cfg.ID),
		debouncer: NewDebouncer(cfg.Clock, cfg.DebounceDelay),
		props:     props,
	}
}

// ID returns the configured identifier.
func (s *Select) ID() string { return s.cfg.ID }

// SetProps replaces the parent-owned input. New props end any search or
// load-more in flight. Disabling an open select closes it silently.
func (s *Select) SetProps(props Props) {
	s.mu.Lock()
	s.props = props
	s.searching = false
	s.loadingMore = false
	cancel := false
	if props.Disabled && s.open {
		s.closeLocked()
		cancel = true
	}
	s.clampLocked()
	s.mu.Unlock()

	if cancel {
		s.debouncer.Cancel()
	}
}

// Props returns the current parent-owned input.
func (s *Select) Props() Props {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.props
}

// IsOpen reports whether the dropdown is open.
func (s *Select) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Term returns the current search field contents.
func (s *Select) Term() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.term
}

// Value returns the selected value.
func (s *Select) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.props.Value
}

// Open shows the dropdown. In remote mode with an empty search field an
// immediate empty-term search fires. It reports whether the state changed.
func (s *Select) Open() bool {
	s.mu.Lock()
	if s.props.Disabled || s.open {
		s.mu.Unlock()
		return false
	}
	s.open = true
	s.scroll = 0
	s.highlight = max(indexOf(s.filteredLocked(), s.props.Value), 0)

	var search func(string)
	if remote, ok := remoteMode(s.props.Search); ok && s.term == "" && remote.OnSearchChange != nil {
		s.searching = true
		search = remote.OnSearchChange
	}
	onOpen := s.cfg.OnOpen
	group := s.group
	s.mu.Unlock()

	if group != nil {
		group.opened(s)
	}
	if onOpen != nil {
		onOpen()
	}
	if search != nil {
		s.logger.Debug("initial search on open")
		search("")
	}
	return true
}

// Close hides the dropdown, cancels a pending search and resets the search
// field. No callbacks fire.
func (s *Select) Close() bool {
	s.mu.Lock()
	if s.props.Disabled || !s.open {
		s.mu.Unlock()
		return false
	}
	s.closeLocked()
	s.mu.Unlock()
	s.debouncer.Cancel()
	return true
}

// Toggle opens a closed dropdown and closes an open one.
func (s *Select) Toggle() bool {
	if s.IsOpen() {
		return s.Close()
	}
	return s.Open()
}

// ClickOutside handles a pointer press outside the control.
func (s *Select) ClickOutside() bool {
	return s.Close()
}

// KeyDown handles a key pressed on the control.
func (s *Select) KeyDown(key Key) bool {
	switch key {
	case KeyEscape:
		return s.Close()
	case KeyEnter:
		s.mu.Lock()
		open, disabled := s.open, s.props.Disabled
		var value string
		filtered := s.filteredLocked()
		if s.highlight >= 0 && s.highlight < len(filtered) {
			value = filtered[s.highlight].Value
		}
		s.mu.Unlock()
		switch {
		case disabled:
			return false
		case !open:
			return s.Open()
		case value != "":
			return s.Choose(value)
		}
		return false
	case KeyArrowDown:
		if !s.IsOpen() {
			return s.Open()
		}
		return s.moveHighlight(1)
	case KeyArrowUp:
		return s.moveHighlight(-1)
	default:
		return false
	}
}

// Type sets the search field. Remote searches are debounced; local
// filtering applies immediately. Ignored while closed.
func (s *Select) Type(term string) bool {
	s.mu.Lock()
	if s.props.Disabled || !s.open {
		s.mu.Unlock()
		return false
	}
	s.term = term
	s.scroll = 0
	s.highlight = 0
	_, remote := remoteMode(s.props.Search)
	if remote {
		s.searching = true
	}
	s.mu.Unlock()

	if remote {
		s.debouncer.Trigger(func() { s.fireSearch(term) })
	}
	return true
}

// ClearSearch empties the search field through the same path as Type.
func (s *Select) ClearSearch() bool {
	return s.Type("")
}

// Scroll moves the list viewport to offset, clamped to the list height.
func (s *Select) Scroll(offset int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.props.Disabled || !s.open {
		return false
	}
	count := len(s.filteredLocked())
	s.scroll = min(max(offset, 0), MaxScroll(s.cfg.ViewportHeight, s.cfg.ItemHeight, count))
	return true
}

// LoadMore requests the next page when the affordance is available and no
// load is already in flight.
func (s *Select) LoadMore() bool {
	s.mu.Lock()
	remote, ok := remoteMode(s.props.Search)
	if s.props.Disabled || !s.open || !ok || s.loadingMore || !remote.CanLoadMore(len(s.props.Options)) {
		s.mu.Unlock()
		return false
	}
	s.loadingMore = true
	loaded := len(s.props.Options)
	s.mu.Unlock()

	s.logger.Debug("load more", "loaded", loaded, "total", remote.TotalCount)
	remote.OnLoadMore()
	return true
}

// Choose selects value from the displayed options and closes the dropdown.
// OnChange fires once. The chosen value is kept until the parent supplies
// new props.
func (s *Select) Choose(value string) bool {
	s.mu.Lock()
	if s.props.Disabled || !s.open || indexOf(s.filteredLocked(), value) < 0 {
		s.mu.Unlock()
		return false
	}
	s.props.Value = value
	s.closeLocked()
	onChange := s.cfg.OnChange
	s.mu.Unlock()

	s.debouncer.Cancel()
	if onChange != nil {
		onChange(value)
	}
	return true
}

func (s *Select) fireSearch(term string) {
	s.mu.Lock()
	remote, ok := remoteMode(s.props.Search)
	if !s.open || s.term != term || !ok || remote.OnSearchChange == nil {
		s.mu.Unlock()
		return
	}
	s.searching = true
	s.mu.Unlock()

	s.logger.Debug("search", "term", term)
	remote.OnSearchChange(term)
}

func (s *Select) moveHighlight(delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.props.Disabled || !s.open {
		return false
	}
	count := len(s.filteredLocked())
	if count == 0 {
		return false
	}
	next := min(max(s.highlight+delta, 0), count-1)
	if next == s.highlight {
		return false
	}
	s.highlight = next

	top := next * s.cfg.ItemHeight
	bottom := top + s.cfg.ItemHeight
	switch {
	case top < s.scroll:
		s.scroll = top
	case bottom > s.scroll+s.cfg.ViewportHeight:
		s.scroll = bottom - s.cfg.ViewportHeight
	}
	return true
}

func (s *Select) closeLocked() {
	s.open = false
	s.term = ""
	s.scroll = 0
	s.highlight = 0
}

func (s *Select) clampLocked() {
	count := len(s.filteredLocked())
	s.scroll = min(s.scroll, MaxScroll(s.cfg.ViewportHeight, s.cfg.ItemHeight, count))
	if s.highlight >= count {
		s.highlight = max(count-1, 0)
	}
}

func (s *Select) filteredLocked() []Option {
	if _, ok := remoteMode(s.props.Search); ok {
		return s.props.Options
	}
	return localMatcher(s.props.Search).Match(s.term, s.props.Options)
}
