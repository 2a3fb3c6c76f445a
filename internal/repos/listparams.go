package repos

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListParams carries the pagination/search knobs every list endpoint
// accepts.
type ListParams struct {
	Search   string
	Page     int
	PageSize int
}

func (p ListParams) Limit() int {
	if p.PageSize <= 0 {
		return defaultPageSize
	}
	if p.PageSize > maxPageSize {
		return maxPageSize
	}
	return p.PageSize
}

func (p ListParams) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.Limit()
}
