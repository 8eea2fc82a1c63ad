package shared

import (
	"net/url"
	"strconv"
)

const (
	// DefaultPageSize bounds listings when the client sends no limit.
	DefaultPageSize = 50
	// MaxPageSize caps the limit a client may request.
	MaxPageSize = 500
)

// PageParams extracts limit and offset query parameters, clamping both to
// sane bounds.
func PageParams(q url.Values) (limit, offset int) {
	limit = DefaultPageSize
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= MaxPageSize {
			limit = parsed
		}
	}
	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
