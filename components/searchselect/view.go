package searchselect

import "fmt"

// Status describes what the open dropdown body shows.
type Status string

const (
	StatusClosed  Status = "closed"
	StatusLoading Status = "loading"
	StatusEmpty   Status = "empty"
	StatusList    Status = "list"
)

// View is the render-ready derivation of a select's props and state.
type View struct {
	ID                string        `json:"id"`
	Open              bool          `json:"open"`
	Disabled          bool          `json:"disabled"`
	Placeholder       string        `json:"placeholder"`
	Required          bool          `json:"required"`
	ShowRequired      bool          `json:"show_required"`
	Selected          *Option       `json:"selected,omitempty"`
	TriggerLabel      string        `json:"trigger_label"`
	TriggerLoading    bool          `json:"trigger_loading"`
	SearchTerm        string        `json:"search_term"`
	SearchPlaceholder string        `json:"search_placeholder"`
	ShowClear         bool          `json:"show_clear"`
	Status            Status        `json:"status"`
	StatusMessage     string        `json:"status_message,omitempty"`
	Items             []ItemView    `json:"items,omitempty"`
	Window            Range         `json:"window"`
	OptionCount       int           `json:"option_count"`
	ItemHeight        int           `json:"item_height"`
	TotalHeight       int           `json:"total_height"`
	ViewportHeight    int           `json:"viewport_height"`
	ScrollOffset      int           `json:"scroll_offset"`
	LoadMore          *LoadMoreView `json:"load_more,omitempty"`
}

// ItemView is a materialised option positioned at Top pixels.
type ItemView struct {
	Option
	Index       int  `json:"index"`
	Top         int  `json:"top"`
	Selected    bool `json:"selected"`
	Highlighted bool `json:"highlighted"`
}

// LoadMoreView is the footer requesting the next page.
type LoadMoreView struct {
	Label    string `json:"label"`
	Loading  bool   `json:"loading"`
	Disabled bool   `json:"disabled"`
	Loaded   int    `json:"loaded"`
	Total    int    `json:"total"`
}

// View derives the current render state.
func (s *Select) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	props := s.props
	selected := Resolve(props.Options, props.Value, props.SelectedDetails)
	view := View{
		ID:                s.cfg.ID,
		Open:              s.open,
		Disabled:          props.Disabled,
		Placeholder:       s.cfg.Placeholder,
		Required:          s.cfg.Required,
		ShowRequired:      s.cfg.Required && (selected != nil || s.open),
		Selected:          selected,
		TriggerLoading:    props.IsLoading && len(props.Options) == 0,
		SearchTerm:        s.term,
		SearchPlaceholder: s.cfg.SearchPlaceholder,
		ShowClear:         s.term != "",
		ItemHeight:        s.cfg.ItemHeight,
		Status:            StatusClosed,
	}
	switch {
	case view.TriggerLoading:
		view.TriggerLabel = "Loading..."
	case selected != nil:
		view.TriggerLabel = selected.Label
	default:
		view.TriggerLabel = s.cfg.Placeholder
	}
	if !s.open {
		return view
	}

	filtered := s.filteredLocked()
	remote, isRemote := remoteMode(props.Search)
	hasMore := isRemote && remote.HasMore
	view.OptionCount = len(filtered)

	switch {
	case (props.IsLoading || s.searching) && len(filtered) == 0:
		view.Status = StatusLoading
		view.StatusMessage = "Loading options..."
		if s.searching {
			view.StatusMessage = "Searching..."
		}
		return view
	case len(filtered) == 0 && !hasMore:
		view.Status = StatusEmpty
		view.StatusMessage = s.cfg.NoOptionsMessage
		return view
	}

	view.Status = StatusList
	view.TotalHeight = len(filtered) * s.cfg.ItemHeight
	view.ViewportHeight = min(view.TotalHeight, s.cfg.ViewportHeight)
	view.ScrollOffset = s.scroll
	view.Window = Window(s.scroll, s.cfg.ViewportHeight, s.cfg.ItemHeight, s.cfg.Overscan, len(filtered))
	view.Items = make([]ItemView, 0, view.Window.Len())
	for i := view.Window.Start; i < view.Window.End; i++ {
		view.Items = append(view.Items, ItemView{
			Option:      filtered[i],
			Index:       i,
			Top:         i * s.cfg.ItemHeight,
			Selected:    filtered[i].Value == props.Value,
			Highlighted: i == s.highlight,
		})
	}

	if isRemote && remote.CanLoadMore(len(props.Options)) {
		footer := &LoadMoreView{
			Loading:  s.loadingMore,
			Disabled: s.loadingMore,
			Loaded:   len(props.Options),
			Total:    remote.TotalCount,
		}
		switch {
		case s.loadingMore:
			footer.Label = "Loading more..."
		case remote.TotalCount > 0:
			footer.Label = fmt.Sprintf("Load more (%d/%d)", footer.Loaded, footer.Total)
		default:
			footer.Label = fmt.Sprintf("Load more (%d)", footer.Loaded)
		}
		view.LoadMore = footer
	}
	return view
}
