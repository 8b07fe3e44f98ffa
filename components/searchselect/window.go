package searchselect

// Range is a half-open [Start, End) span of option indexes.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of indexes in the range.
func (r Range) Len() int { return r.End - r.Start }

// Window returns the indexes to materialise for a list of count items of
// itemHeight pixels, scrolled to offset inside a viewport of viewportHeight,
// widened by overscan items on each side.
func Window(offset, viewportHeight, itemHeight, overscan, count int) Range {
	if count <= 0 || itemHeight <= 0 {
		return Range{}
	}
	offset = max(offset, 0)
	viewportHeight = max(viewportHeight, 0)
	overscan = max(overscan, 0)

	first := offset / itemHeight
	last := (offset + viewportHeight + itemHeight - 1) / itemHeight
	start := max(first-overscan, 0)
	end := min(last+overscan, count)
	if start > end {
		start = end
	}
	return Range{Start: start, End: end}
}

// MaxScroll is the largest useful scroll offset for count items.
func MaxScroll(viewportHeight, itemHeight, count int) int {
	return max(count*itemHeight-viewportHeight, 0)
}
