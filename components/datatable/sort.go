package datatable

import "slices"

// Direction is the ordering applied to the sorted column.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortState names the active sort column. A nil *SortState means insertion
// order.
type SortState struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Next returns the state produced by activating key: the same key flips the
// direction, a different key starts ascending.
func (s *SortState) Next(key string) SortState {
	if s != nil && s.Key == key && s.Direction == Ascending {
		return SortState{Key: key, Direction: Descending}
	}
	return SortState{Key: key, Direction: Ascending}
}

// SortRows returns a sorted copy of rows. The input slice is left untouched
// and equal elements keep their relative order.
func SortRows[R Row](rows []R, column Column[R], dir Direction) []R {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b R) int {
		result := Compare(column.Field(a), column.Field(b))
		if dir == Descending {
			return -result
		}
		return result
	})
	return sorted
}
