package service

// Page size bounds.
const (
	DefaultPageSize        = 10
	DefaultArticlePageSize = 12
	MaxPageSize            = 100
)

// Pagination selects a window of a listing. A positive Limit overrides paging: the
// first Limit rows are returned while Page and PageSize still drive the reported totals.
type Pagination struct {
	Page     int
	PageSize int
	Limit    int
}

// NewPagination applies defaults and the page size cap.
func NewPagination(page, pageSize, limit, defaultPageSize int) Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if limit < 0 {
		limit = 0
	}
	return Pagination{Page: page, PageSize: pageSize, Limit: limit}
}

func (p Pagination) offset() int {
	if p.Limit > 0 || p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.size()
}

func (p Pagination) take() int {
	if p.Limit > 0 {
		return p.Limit
	}
	return p.size()
}

func (p Pagination) size() int {
	if p.PageSize < 1 {
		return DefaultPageSize
	}
	return p.PageSize
}

// Page is one window of a listing with its totals.
type Page[T any] struct {
	Items      []*T `json:"items"`
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	TotalPages int  `json:"totalPages"`
}

func newPage[T any](items []*T, total int, p Pagination) *Page[T] {
	if items == nil {
		items = []*T{}
	}
	size := p.size()
	page := p.Page
	if page < 1 {
		page = 1
	}
	return &Page[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: (total + size - 1) / size,
	}
}
