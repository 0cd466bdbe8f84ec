package models

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 100
)

// Pagination is a 1-based page request.
type Pagination struct {
	Page  int
	Limit int
}

// NewPagination clamps page and limit into their valid ranges. A page whose
// skip would overflow int64 falls back to the default page.
func NewPagination(page, limit int) Pagination {
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if page < 1 || int64(page-1) > math.MaxInt64/int64(limit) {
		page = DefaultPage
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Skip() int64 {
	if p.Page < 1 {
		return 0
	}
	return int64(p.Page-1) * int64(p.Limit)
}

// TotalPages is ceil(total / limit); zero when limit is zero.
func (p Pagination) TotalPages(total int64) int {
	if p.Limit <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
