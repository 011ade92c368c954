package shared

import (
	"net/http"
	"time"
)

// ParseDate accepts RFC3339 or a bare work date (yyyy-MM-dd).
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// DateRangeParams reads the from/to query parameters and reduces them to the
// canonical yyyy-MM-dd form the stores compare with. Empty bounds stay empty.
func DateRangeParams(r *http.Request) (from, to string, err error) {
	from, err = canonicalWorkDate(r.URL.Query().Get("from"))
	if err != nil {
		return "", "", err
	}
	to, err = canonicalWorkDate(r.URL.Query().Get("to"))
	if err != nil {
		return "", "", err
	}
	return from, to, nil
}

func canonicalWorkDate(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	parsed, err := ParseDate(value)
	if err != nil {
		return "", err
	}
	return parsed.Format("2006-01-02"), nil
}
