package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-admin-dashboard/components/dashboard"
	"github.com/goliatone/go-admin-dashboard/components/datatable"
)

// tablePane holds the last table view plus local cursor and search input
// state. The server session owns sorting, paging and filtering.
type tablePane struct {
	view      dashboard.TableView
	loaded    bool
	cursor    int
	searching bool
	input     string
}

func (p *tablePane) setView(view dashboard.TableView) {
	p.view = view
	p.loaded = true
	if !p.searching {
		p.input = view.Search
	}
	p.clamp()
}

func (p *tablePane) clamp() {
	rows := len(p.view.Table.Rows)
	if p.cursor >= rows {
		p.cursor = rows - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p *tablePane) move(delta int) {
	p.cursor += delta
	p.clamp()
}

// currentRow returns the row id under the cursor.
func (p *tablePane) currentRow() (string, bool) {
	rows := p.view.Table.Rows
	if p.cursor < 0 || p.cursor >= len(rows) {
		return "", false
	}
	return rows[p.cursor].ID, true
}

// sortKey maps a 1-based column number to a sortable column key.
func (p *tablePane) sortKey(column int) (string, bool) {
	headers := p.view.Table.Headers
	if column < 1 || column > len(headers) {
		return "", false
	}
	header := headers[column-1]
	if !header.Sortable {
		return "", false
	}
	return header.Key, true
}

func (p *tablePane) render(theme Theme, focused bool) string {
	var b strings.Builder
	title := p.view.Title
	if title == "" {
		title = "Table"
	}
	b.WriteString(theme.title().Render(title))
	if p.loaded {
		b.WriteString(theme.faint().Render(fmt.Sprintf("  %d/%d rows", p.view.Matched, p.view.Total)))
	}
	b.WriteString("\n")

	if p.searching || p.view.Search != "" {
		line := "Search: " + p.input
		if p.searching && focused {
			line += "█"
		}
		b.WriteString(theme.faint().Render(line))
		b.WriteString("\n")
	}
	if !p.loaded {
		b.WriteString(theme.faint().Render("Loading..."))
		return b.String()
	}

	table := p.view.Table
	widths := columnWidths(table)
	headers := make([]string, len(table.Headers))
	for i, header := range table.Headers {
		label := fmt.Sprintf("%d:%s", i+1, header.Label)
		if header.Active {
			label += sortArrow(header.Direction)
		}
		headers[i] = pad(label, widths[i])
	}
	b.WriteString("  ")
	b.WriteString(theme.title().Render(strings.Join(headers, " ")))
	b.WriteString("\n")

	if table.Empty {
		message := table.EmptyMessage
		if message == "" {
			message = "No rows"
		}
		b.WriteString(theme.faint().Render("  " + message))
		b.WriteString("\n")
	}
	for i, row := range table.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = pad(cell.Text, widths[j])
		}
		line := strings.Join(cells, " ")
		style := lipgloss.NewStyle().Foreground(theme.ToneColor(p.view.Attributes[row.ID]["tone"]))
		prefix := "  "
		if i == p.cursor && focused {
			prefix = "> "
			style = theme.selected()
		}
		if row.ID == p.view.Clicked {
			line += " *"
		}
		b.WriteString(prefix)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	if pagination := table.Pagination; pagination != nil {
		b.WriteString(theme.faint().Render(fmt.Sprintf("Page %d/%d", pagination.CurrentPage, pagination.TotalPages)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func columnWidths(table datatable.View) []int {
	widths := make([]int, len(table.Headers))
	for i, header := range table.Headers {
		// room for the column number and a sort arrow
		widths[i] = lipgloss.Width(fmt.Sprintf("%d:%s", i+1, header.Label)) + 1
	}
	for _, row := range table.Rows {
		for j, cell := range row.Cells {
			if j < len(widths) && lipgloss.Width(cell.Text) > widths[j] {
				widths[j] = lipgloss.Width(cell.Text)
			}
		}
	}
	return widths
}

func pad(text string, width int) string {
	if gap := width - lipgloss.Width(text); gap > 0 {
		return text + strings.Repeat(" ", gap)
	}
	return text
}

func sortArrow(direction datatable.Direction) string {
	if direction == datatable.Descending {
		return "▼"
	}
	return "▲"
}
