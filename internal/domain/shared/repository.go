package shared

// DefaultPageSize is the fixed page size used when a caller does not pick one
const DefaultPageSize = 25

// Unpaged asks a repository for every matching row in one page
const Unpaged = -1

// Filter represents query filter options. Only pagination and ordering
// live here; entity filters embed it and add their own equality predicates.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

// Normalize fills in missing page values
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize == 0 {
		f.PageSize = DefaultPageSize
	}
	if f.OrderDir != "asc" {
		f.OrderDir = "desc"
	}
	return f
}

// IsUnpaged reports whether the filter asks for all rows
func (f Filter) IsUnpaged() bool {
	return f.PageSize < 0
}

// Offset returns the row offset of the requested page
func (f Filter) Offset() int {
	if f.IsUnpaged() || f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	if pageSize <= 0 {
		return Paginated[T]{
			Items:      items,
			Total:      total,
			Page:       1,
			PageSize:   len(items),
			TotalPages: 1,
		}
	}
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
