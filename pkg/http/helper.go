package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"salas/pkg/config"
	apperrors "salas/pkg/errors"
)

// TimeLayouts are the accepted timestamp formats, tried in order.
// "02-01-2006 15:04" is day-month-year as typed by humans; it is read in UTC.
var TimeLayouts = []string{
	time.RFC3339,
	"02-01-2006 15:04",
}

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = v
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ParseTime parses a timestamp in any of TimeLayouts.
func ParseTime(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range TimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.InvalidInput("invalid " + field + " format, must be RFC3339 or dd-MM-yyyy HH:mm: " + value)
}

// ExtractTimeRange reads the start and end query parameters. ok is false when
// neither is present; supplying only one of them is an error.
func ExtractTimeRange(r *http.Request) (start, end time.Time, ok bool, err error) {
	query := r.URL.Query()
	startStr, endStr := query.Get("start"), query.Get("end")

	if startStr == "" && endStr == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, false, apperrors.InvalidInput("both 'start' and 'end' query parameters are required")
	}

	if start, err = ParseTime("start", startStr); err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	if end, err = ParseTime("end", endStr); err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	return start, end, true, nil
}
