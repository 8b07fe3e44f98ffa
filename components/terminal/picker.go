package terminal

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/goliatone/go-admin-dashboard/components/dashboard"
	"github.com/goliatone/go-admin-dashboard/components/searchselect"
)

// pickerPane mirrors a remote-search select. The typed term is kept locally
// so keystrokes are not lost while a view round trip is in flight.
type pickerPane struct {
	view   dashboard.SelectView
	loaded bool
	term   string
}

func (p *pickerPane) setView(view dashboard.SelectView) {
	p.view = view
	p.loaded = true
	if !view.Select.Open {
		p.term = ""
	}
}

func (p *pickerPane) open() bool {
	return p.view.Select.Open
}

func (p *pickerPane) loading() bool {
	sel := p.view.Select
	if sel.Status == searchselect.StatusLoading || sel.TriggerLoading {
		return true
	}
	return sel.LoadMore != nil && sel.LoadMore.Loading
}

func (p *pickerPane) render(theme Theme, spin spinner.Model, focused bool) string {
	var b strings.Builder
	label := p.view.Label
	if label == "" {
		label = "Select"
	}
	b.WriteString(theme.title().Render(label))
	b.WriteString("\n")
	if !p.loaded {
		b.WriteString(theme.faint().Render("Loading..."))
		return b.String()
	}

	sel := p.view.Select
	trigger := "[ " + sel.TriggerLabel + " ]"
	if sel.TriggerLoading {
		trigger = spin.View() + " " + trigger
	}
	b.WriteString(trigger)
	if sel.ShowRequired {
		b.WriteString(theme.errorText().Render(" *"))
	}
	b.WriteString("\n")
	if !sel.Open {
		return strings.TrimRight(b.String(), "\n")
	}

	search := "Search: " + p.term
	if focused {
		search += "█"
	}
	if p.term == "" && sel.SearchPlaceholder != "" {
		search = "Search: " + theme.faint().Render(sel.SearchPlaceholder)
	}
	b.WriteString(search)
	b.WriteString("\n")

	switch sel.Status {
	case searchselect.StatusLoading:
		b.WriteString(spin.View() + " " + theme.faint().Render(sel.StatusMessage))
		b.WriteString("\n")
	case searchselect.StatusEmpty:
		b.WriteString(theme.faint().Render(sel.StatusMessage))
		b.WriteString("\n")
	case searchselect.StatusList:
		for _, item := range sel.Items {
			line := item.Label
			if item.Selected {
				line += " ✓"
			}
			if item.Highlighted {
				b.WriteString(theme.selected().Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}
	if more := sel.LoadMore; more != nil {
		footer := more.Label
		if more.Loading {
			footer = spin.View() + " " + footer
		}
		b.WriteString(theme.faint().Render(footer))
	}
	return strings.TrimRight(b.String(), "\n")
}
