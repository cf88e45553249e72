package request

import (
	"net/http"
	"strconv"
)

// Pagination holds parsed pagination parameters.
type Pagination struct {
	Limit  int
	Cursor string
}

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// ParsePagination extracts limit and cursor from query parameters. per_page
// is accepted as an alias for limit.
func ParsePagination(r *http.Request) Pagination {
	q := r.URL.Query()
	p := Pagination{
		Limit:  DefaultLimit,
		Cursor: q.Get("cursor"),
	}

	limitStr := q.Get("limit")
	if limitStr == "" {
		limitStr = q.Get("per_page")
	}
	if limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			p.Limit = limit
		}
	}

	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	return p
}
