package shared

const (
	defaultPageSize = 20
	maxPageSize     = 500
)

// Filter is the paging and ordering shared by every list query.
// Context-specific filters embed it and add their own predicates.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// Normalize clamps paging into range. OrderDir is forced to asc or desc;
// OrderBy is checked against a whitelist by the repository.
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	switch {
	case f.PageSize < 1:
		f.PageSize = defaultPageSize
	case f.PageSize > maxPageSize:
		f.PageSize = maxPageSize
	}
	if f.OrderDir != "asc" {
		f.OrderDir = "desc"
	}
	return f
}

// Offset returns the row offset for the current page
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}
