package forecast

import (
	"fmt"
	"strings"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ClassifyDay returns the local day of month a timestamp falls on.
func ClassifyDay(timestamp string) (int, error) {
	t, err := parseTimestamp(timestamp)
	if err != nil {
		return 0, err
	}
	return t.Day(), nil
}

// parseTimestamp converts an ISO-8601 timestamp to local time. Timestamps
// without an offset are read as local.
func parseTimestamp(timestamp string) (time.Time, error) {
	value := strings.TrimSpace(timestamp)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrParse)
	}

	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return t.In(time.Local), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrParse, timestamp)
}
