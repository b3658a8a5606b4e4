package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/wedsite-backend/pkg/errors"
)

// ParseQueryInt reads an optional integer query parameter bounded by [min, max].
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw, err := QueryString(r, key, 32)
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return defaultVal, nil
	}
	value, convErr := strconv.Atoi(raw)
	if convErr != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, key+" must be a whole number").
			WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, key+" is out of range").
			WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// QueryString returns the trimmed query value. Values longer than maxLen are
// rejected rather than truncated so cursors and tokens are never mangled.
func QueryString(r *http.Request, key string, maxLen int) (string, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if maxLen > 0 && len(value) > maxLen {
		return "", pkgerrors.New(pkgerrors.CodeValidation, key+" is too long").
			WithDetails(map[string]any{"field": key, "max": maxLen})
	}
	return value, nil
}
