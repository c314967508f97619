package httputil

import (
	"net/http"
	"strconv"
	"strings"

	dErrors "customer-service/pkg/domain-errors"
)

// ParseID parses a positive integer identifier taken from a path or form
// field.
func ParseID(raw, field string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, field+" must be a positive integer")
	}
	return id, nil
}

// OptionalID parses a form field that may be absent. Absent returns nil.
func OptionalID(raw, field string) (*int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := ParseID(raw, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// QueryInt reads an integer query parameter. Missing or malformed values
// yield def; range clamping is left to the caller.
func QueryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
