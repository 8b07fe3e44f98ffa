package dashboard

const gridColumns = 12

func applyOrderOverride(widgets []WidgetInstance, order []string) []WidgetInstance {
	if len(order) == 0 {
		return widgets
	}
	index := make(map[string]WidgetInstance, len(widgets))
	for _, w := range widgets {
		index[w.ID] = w
	}
	result := make([]WidgetInstance, 0, len(widgets))
	seen := make(map[string]struct{}, len(order))
	for _, id := range order {
		if w, ok := index[id]; ok {
			result = append(result, w)
			seen[id] = struct{}{}
		}
	}
	for _, w := range widgets {
		if _, ok := seen[w.ID]; !ok {
			result = append(result, w)
		}
	}
	return result
}

func applyHiddenFilter(widgets []WidgetInstance, hidden map[string]bool) []WidgetInstance {
	if len(hidden) == 0 {
		return widgets
	}
	result := make([]WidgetInstance, 0, len(widgets))
	for _, w := range widgets {
		if hidden[w.ID] {
			continue
		}
		result = append(result, w)
	}
	return result
}

// buildRows lays widgets out on the grid. Saved rows are kept for widgets that
// still resolve; the rest get a full-width row each.
func buildRows(widgets []WidgetInstance, saved []LayoutRow) []LayoutRow {
	present := make(map[string]bool, len(widgets))
	for _, w := range widgets {
		present[w.ID] = true
	}
	placed := make(map[string]bool, len(widgets))
	rows := make([]LayoutRow, 0, len(widgets))
	for _, row := range saved {
		var slots []WidgetSlot
		width := 0
		for _, slot := range row.Widgets {
			if !present[slot.ID] || placed[slot.ID] {
				continue
			}
			slot.Width = clampWidth(slot.Width)
			if width+slot.Width > gridColumns && len(slots) > 0 {
				rows = append(rows, LayoutRow{Widgets: slots})
				slots, width = nil, 0
			}
			slots = append(slots, slot)
			width += slot.Width
			placed[slot.ID] = true
		}
		if len(slots) > 0 {
			rows = append(rows, LayoutRow{Widgets: slots})
		}
	}
	for _, w := range widgets {
		if placed[w.ID] {
			continue
		}
		rows = append(rows, LayoutRow{Widgets: []WidgetSlot{{ID: w.ID, Width: gridColumns}}})
	}
	return rows
}

func clampWidth(width int) int {
	if width <= 0 || width > gridColumns {
		return gridColumns
	}
	return width
}
