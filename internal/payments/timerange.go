package payments

import (
	"strconv"
	"time"
)

// Accepted ISO-8601 shapes for summary bounds. Layouts without an offset are
// interpreted as UTC.
var boundLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
}

// ParseTimeBound parses a summary range bound: a millisecond epoch (up to 13
// digits) or an ISO-8601 timestamp. Absent or unparseable values yield nil,
// which callers treat as an open-ended bound.
func ParseTimeBound(s string) *time.Time {
	if s == "" {
		return nil
	}

	if len(s) <= 13 && isDigits(s) {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil
		}
		t := time.UnixMilli(ms).UTC()
		return &t
	}

	for _, layout := range boundLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
