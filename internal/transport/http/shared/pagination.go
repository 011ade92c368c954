package shared

import (
	"net/http"
	"net/url"
	"strconv"
)

type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit/offset query parameters, falling back to
// defaultLimit and clamping at maxLimit. Garbage values fall back silently.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	query := r.URL.Query()
	page := Pagination{
		Limit:  positiveParam(query, "limit", defaultLimit),
		Offset: positiveParam(query, "offset", 0),
	}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page
}

func positiveParam(query url.Values, name string, fallback int) int {
	raw := query.Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	if value == 0 && name == "limit" {
		return fallback
	}
	return value
}
