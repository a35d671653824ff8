package paging

import "strconv"

const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100
)

// Meta describes one page of a page-number paginated listing.
type Meta struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	TotalCount  int64 `json:"total_count"`
	HasNextPage bool `json:"has_next_page"`
	HasPrevPage bool `json:"has_prev_page"`
}

// ParsePage returns the 1-based page number, falling back to the default on
// absent, non-numeric or non-positive input.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return DefaultPage
	}
	return n
}

// ParseLimit returns the page size, falling back to the default on absent,
// non-numeric or non-positive input and capping oversized requests.
func ParseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// NewMeta computes pagination metadata so that total_pages == ceil(total/limit).
func NewMeta(page, limit int, total int64) Meta {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Meta{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// Offset converts a page number to a row offset.
func Offset(page, limit int) int {
	return (page - 1) * limit
}
