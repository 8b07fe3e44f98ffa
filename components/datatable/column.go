package datatable

// Column configures how a field is displayed and whether it can be sorted.
type Column[R Row] struct {
	Key      string
	Label    string
	Sortable bool
	// Value extracts the sort/display value. Defaults to a FieldValue lookup
	// on Key.
	Value func(R) any
	// Render overrides the cell text. Sorting still uses Value.
	Render func(R) string
}

// Field returns the raw value of the column for row.
func (c Column[R]) Field(row R) any {
	if c.Value != nil {
		return c.Value(row)
	}
	v, _ := FieldValue(row, c.Key)
	return v
}

// Cell returns the display text of the column for row.
func (c Column[R]) Cell(row R) string {
	if c.Render != nil {
		return c.Render(row)
	}
	return FormatCell(c.Field(row))
}

// Header returns the configured label or one derived from the key.
func (c Column[R]) Header() string {
	if c.Label != "" {
		return c.Label
	}
	return LabelFromKey(c.Key)
}
