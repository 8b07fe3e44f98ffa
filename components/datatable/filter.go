package datatable

import "strings"

// FilterRows keeps the rows where any of the given keys contains term,
// ignoring case. An empty term returns rows unchanged.
func FilterRows[R Row](rows []R, term string, keys ...string) []R {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return rows
	}
	out := make([]R, 0, len(rows))
	for _, row := range rows {
		for _, key := range keys {
			v, ok := FieldValue(row, key)
			if !ok {
				continue
			}
			if strings.Contains(strings.ToLower(FormatCell(v)), term) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
