package handlers

import (
	"net/http"
	"strconv"
)

const postsPerPage = 20

// pageFilter reads the paging query of a listing: either limit/offset or
// page (1-based) with an optional limit.
func pageFilter(r *http.Request) (limit, offset int) {
	q := r.URL.Query()
	limit = postsPerPage
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		limit = n
	}
	if n, err := strconv.Atoi(q.Get("offset")); err == nil && n >= 0 {
		return limit, n
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 1 {
		return limit, (page - 1) * limit
	}
	return limit, 0
}
