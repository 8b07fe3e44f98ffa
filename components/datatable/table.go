package datatable

import (
	"slices"
	"sync"
)

// Config describes a table instance.
type Config[R Row] struct {
	Columns      []Column[R]
	ItemsPerPage int
	EmptyMessage string

	OnRowClick func(R)
	// OnViewDetails and OnEdit only mark the table as having a row actions
	// column; the actions themselves are rendered by the caller.
	OnViewDetails func(R)
	OnEdit        func(R)
}

// Table holds sort and pagination state over a caller-supplied row set.
// It is safe for concurrent use.
type Table[R Row] struct {
	mu         sync.Mutex
	cfg        Config[R]
	data       []R
	generation uint64
	sort       *SortState
	page       int
	memo       sortedMemo[R]
}

type sortedMemo[R Row] struct {
	valid      bool
	generation uint64
	sort       SortState
	rows       []R
}

// New builds a table with the given configuration and no rows.
func New[R Row](cfg Config[R]) *Table[R] {
	if cfg.ItemsPerPage <= 0 {
		cfg.ItemsPerPage = DefaultItemsPerPage
	}
	if cfg.EmptyMessage == "" {
		cfg.EmptyMessage = "No data found."
	}
	return &Table[R]{cfg: cfg, page: 1}
}

// SetData replaces the row set. The slice is not modified. The current page
// is clamped when the new data has fewer pages.
func (t *Table[R]) SetData(rows []R) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data = rows
	t.generation++
	t.page = ClampPage(t.page, TotalPages(len(rows), t.cfg.ItemsPerPage))
}

// Data returns the row set as supplied.
func (t *Table[R]) Data() []R {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.data
}

// ToggleSort activates key. Unknown and non-sortable columns are ignored.
// It reports whether the sort state changed. Any change returns to page 1.
func (t *Table[R]) ToggleSort(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.sortableColumn(key); !ok {
		return false
	}
	next := t.sort.Next(key)
	t.sort = &next
	t.page = 1
	return true
}

// SetSort applies an explicit sort state, or clears it when state is nil.
// Unknown and non-sortable columns are ignored.
func (t *Table[R]) SetSort(state *SortState) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if state == nil {
		t.sort = nil
		t.page = 1
		return true
	}
	if _, ok := t.sortableColumn(state.Key); !ok {
		return false
	}
	if state.Direction != Descending {
		state = &SortState{Key: state.Key, Direction: Ascending}
	}
	copied := *state
	t.sort = &copied
	t.page = 1
	return true
}

// Sort returns a copy of the active sort state.
func (t *Table[R]) Sort() *SortState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sort == nil {
		return nil
	}
	copied := *t.sort
	return &copied
}

// GoToPage moves to page, clamped to the available range.
func (t *Table[R]) GoToPage(page int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.page = ClampPage(page, t.totalPagesLocked())
	return t.page
}

// NextPage advances one page unless already on the last one.
func (t *Table[R]) NextPage() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.page = ClampPage(t.page+1, t.totalPagesLocked())
	return t.page
}

// PrevPage goes back one page unless already on the first one.
func (t *Table[R]) PrevPage() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.page = ClampPage(t.page-1, t.totalPagesLocked())
	return t.page
}

// CurrentPage returns the 1-based page index.
func (t *Table[R]) CurrentPage() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.page
}

// TotalPages returns the page count for the current data.
func (t *Table[R]) TotalPages() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalPagesLocked()
}

// Sorted returns the full ordering view of the data.
func (t *Table[R]) Sorted() []R {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.sortedLocked())
}

// VisibleRows returns the rows on the current page.
func (t *Table[R]) VisibleRows() []R {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(Paginate(t.sortedLocked(), t.page, t.cfg.ItemsPerPage))
}

// ClickRow invokes OnRowClick with the visible row whose id matches. The
// callback receives the row value exactly as it was supplied to SetData.
func (t *Table[R]) ClickRow(id string) (R, bool) {
	t.mu.Lock()
	var (
		found R
		ok    bool
	)
	for _, row := range Paginate(t.sortedLocked(), t.page, t.cfg.ItemsPerPage) {
		if row.RowID() == id {
			found, ok = row, true
			break
		}
	}
	callback := t.cfg.OnRowClick
	t.mu.Unlock()

	if ok && callback != nil {
		callback(found)
	}
	return found, ok
}

// HasActions reports whether a row actions column is considered present.
func (t *Table[R]) HasActions() bool {
	return t.cfg.OnViewDetails != nil || t.cfg.OnEdit != nil
}

func (t *Table[R]) totalPagesLocked() int {
	return TotalPages(len(t.data), t.cfg.ItemsPerPage)
}

func (t *Table[R]) sortableColumn(key string) (Column[R], bool) {
	for _, col := range t.cfg.Columns {
		if col.Key == key {
			return col, col.Sortable
		}
	}
	return Column[R]{}, false
}

func (t *Table[R]) sortedLocked() []R {
	if t.sort == nil {
		return t.data
	}
	if t.memo.valid && t.memo.generation == t.generation && t.memo.sort == *t.sort {
		return t.memo.rows
	}
	col, ok := t.sortableColumn(t.sort.Key)
	if !ok {
		return t.data
	}
	t.memo = sortedMemo[R]{
		valid:      true,
		generation: t.generation,
		sort:       *t.sort,
		rows:       SortRows(t.data, col, t.sort.Direction),
	}
	return t.memo.rows
}
