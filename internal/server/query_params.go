package server

import (
	"strconv"
	"strings"
	"time"
)

const maxPageSize = 200

func parseItemIndex(value string) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || index < 0 {
		return 0, newValidationError("index", "invalid_index", "index must be a non-negative integer")
	}
	return index, nil
}

func parsePageSize(value string) (int32, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 32)
	if err != nil || parsed < 0 {
		return 0, newValidationError("page_size", "invalid_page_size", "page_size must be a non-negative integer")
	}
	if parsed > maxPageSize {
		parsed = maxPageSize
	}
	return int32(parsed), nil
}

// parseDateParam accepts a calendar day (2025-11-01) or an RFC 3339 timestamp.
func parseDateParam(field, value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if day, err := time.Parse(time.DateOnly, trimmed); err == nil {
		return &day, nil
	}
	ts, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return nil, newValidationError(field, "invalid_date", field+" must be YYYY-MM-DD or RFC 3339")
	}
	ts = ts.UTC()
	return &ts, nil
}
