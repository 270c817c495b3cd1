package utils

import (
	"strconv"
)

// MaxPageSize caps every paginated listing to protect the store from
// unbounded result sets.
const MaxPageSize = 50

// DefaultPageSize is used when the caller does not ask for a page size.
const DefaultPageSize = 10

// Pagination holds normalized pagination parameters.
type Pagination struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// NewPagination clamps page to >= 1 and pageSize to [1, MaxPageSize],
// substituting DefaultPageSize when pageSize is unset.
func NewPagination(page, pageSize int) Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}

// ParsePagination reads page and page_size query values with sane defaults.
func ParsePagination(pageStr, sizeStr string) Pagination {
	page, _ := strconv.Atoi(pageStr)
	size, _ := strconv.Atoi(sizeStr)
	return NewPagination(page, size)
}
