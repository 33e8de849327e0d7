package ports

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// positiveQueryParam reads an optional positive integer query parameter
func positiveQueryParam(r *http.Request, name string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", name, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", name, value)
	}
	return value, nil
}

func positivePathValue(r *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", name, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", name, value)
	}
	return value, nil
}

// rawQueryValue reads a query parameter that may contain unescaped semicolons.
//
// url.ParseQuery drops any pair with a raw ';', so the raw query is split on '&' only.
func rawQueryValue(r *http.Request, name string) string {
	for _, pair := range strings.Split(r.URL.RawQuery, "&") {
		key, value, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(key)
		if err != nil || key != name {
			continue
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			return ""
		}
		return value
	}
	return ""
}
