package shared

// Filter is the paging, sorting and search input of list queries.
// Filters holds repository-specific conditions keyed by column name.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// DefaultFilter is page 1 of 20, newest first
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]any),
	}
}

// Offset is the number of rows before the requested page
func (f Filter) Offset() int {
	if f.Page < 1 || f.PageSize < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// TotalPages is the page count for total rows at the filter's page size
func (f Filter) TotalPages(total int64) int {
	if f.PageSize < 1 {
		return 0
	}
	pages := total / int64(f.PageSize)
	if total%int64(f.PageSize) > 0 {
		pages++
	}
	return int(pages)
}
