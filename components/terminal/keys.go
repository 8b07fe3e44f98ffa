package terminal

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the bindings of the terminal dashboard.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Search   key.Binding
	Choose   key.Binding
	Escape   key.Binding
	Focus    key.Binding
	Toggle   key.Binding
	LoadMore key.Binding
	Reload   key.Binding
	Clear    key.Binding
	Quit     key.Binding
}

// DefaultKeyMap uses arrow keys with vim-style alternatives. Digits 1-9 sort
// the table by the matching column.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "prev page"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next page"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Choose: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
	Focus: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch widget"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open picker"),
	),
	LoadMore: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("C-l", "load more"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("C-u", "clear search"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
