package datatable

// View is the render-ready derivation of a table's state.
type View struct {
	Headers      []HeaderView    `json:"headers"`
	Rows         []RowView       `json:"rows"`
	Empty        bool            `json:"empty"`
	EmptyMessage string          `json:"empty_message,omitempty"`
	ColSpan      int             `json:"col_span"`
	HasActions   bool            `json:"has_actions"`
	Sort         *SortState      `json:"sort,omitempty"`
	TotalRows    int             `json:"total_rows"`
	Pagination   *PaginationView `json:"pagination,omitempty"`
}

// HeaderView describes a column header.
type HeaderView struct {
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	Sortable  bool      `json:"sortable"`
	Active    bool      `json:"active"`
	Direction Direction `json:"direction,omitempty"`
}

// RowView is a rendered row.
type RowView struct {
	ID      string     `json:"id"`
	Cells   []CellView `json:"cells"`
	Striped bool       `json:"striped"`
}

// CellView is a rendered cell.
type CellView struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// PaginationView lists one button per page plus prev/next state.
type PaginationView struct {
	CurrentPage  int          `json:"current_page"`
	TotalPages   int          `json:"total_pages"`
	Pages        []PageButton `json:"pages"`
	PrevDisabled bool         `json:"prev_disabled"`
	NextDisabled bool         `json:"next_disabled"`
}

// PageButton is a single page selector.
type PageButton struct {
	Number  int  `json:"number"`
	Current bool `json:"current"`
}

// View derives the current render state.
func (t *Table[R]) View() View {
	t.mu.Lock()
	defer t.mu.Unlock()

	view := View{
		HasActions: t.cfg.OnViewDetails != nil || t.cfg.OnEdit != nil,
		TotalRows:  len(t.data),
	}
	if t.sort != nil {
		sortCopy := *t.sort
		view.Sort = &sortCopy
	}

	view.Headers = make([]HeaderView, len(t.cfg.Columns))
	for i, col := range t.cfg.Columns {
		header := HeaderView{Key: col.Key, Label: col.Header(), Sortable: col.Sortable}
		if col.Sortable && t.sort != nil && t.sort.Key == col.Key {
			header.Active = true
			header.Direction = t.sort.Direction
		}
		view.Headers[i] = header
	}

	visible := Paginate(t.sortedLocked(), t.page, t.cfg.ItemsPerPage)
	if len(visible) == 0 {
		view.Empty = true
		view.EmptyMessage = t.cfg.EmptyMessage
		view.ColSpan = len(t.cfg.Columns)
		if view.HasActions {
			view.ColSpan++
		}
	}
	view.Rows = make([]RowView, len(visible))
	for i, row := range visible {
		cells := make([]CellView, len(t.cfg.Columns))
		for j, col := range t.cfg.Columns {
			cells[j] = CellView{Key: col.Key, Text: col.Cell(row)}
		}
		view.Rows[i] = RowView{ID: row.RowID(), Cells: cells, Striped: i%2 == 1}
	}

	if total := t.totalPagesLocked(); total > 1 {
		pages := make([]PageButton, total)
		for i := range pages {
			pages[i] = PageButton{Number: i + 1, Current: i+1 == t.page}
		}
		view.Pagination = &PaginationView{
			CurrentPage:  t.page,
			TotalPages:   total,
			Pages:        pages,
			PrevDisabled: t.page == 1,
			NextDisabled: t.page == total,
		}
	}
	return view
}
