package datatable

// DefaultItemsPerPage matches the compact dashboard tables.
const DefaultItemsPerPage = 4

// TotalPages returns ceil(total/perPage).
func TotalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total-1)/perPage + 1
}

// ClampPage keeps page inside [1, totalPages]. With no pages the result is 1.
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate returns the slice of rows shown on page (1-based).
func Paginate[R any](rows []R, page, perPage int) []R {
	if perPage <= 0 || page < 1 || page-1 >= TotalPages(len(rows), perPage) {
		return nil
	}
	start := (page - 1) * perPage
	end := min(start+perPage, len(rows))
	return rows[start:end]
}
