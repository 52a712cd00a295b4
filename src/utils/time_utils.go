package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// History timestamps come in several encodings depending on the period.
var historyLayouts = []string{
	"2006-01-02T15:04:05.000000",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

// ParseHistoryDate accepts a plain date, a timestamp with microseconds, a
// timestamp with seconds or an RFC 3339 timestamp. Zone-less values are UTC.
func ParseHistoryDate(s string) (time.Time, error) {
	if len(s) == len(DateLayout) {
		return time.Parse(DateLayout, s)
	}
	for _, layout := range historyLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
