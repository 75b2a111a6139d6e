package shared

import (
	"math"
	"strconv"
)

// DefaultPageLimit is used when the caller does not ask for a page size.
const DefaultPageLimit = 10

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, limit, total int) Pagination {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if page <= 0 {
		page = 1
	}
	pages := int(math.Ceil(float64(total) / float64(limit)))
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Offset returns the number of rows to skip for the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePage reads page and limit query values, falling back to defaults for
// missing, malformed, or non-positive input.
func ParsePage(rawPage, rawLimit string) (page, limit int) {
	page, err := strconv.Atoi(rawPage)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(rawLimit)
	if err != nil || limit < 1 {
		limit = DefaultPageLimit
	}
	return page, limit
}
