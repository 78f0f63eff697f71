package tile

import (
	"strings"
	"time"
)

// DateLayout is the short US date shown on tiles, e.g. "Mar 5, 2024".
const DateLayout = "Jan 2, 2006"

// Timestamp layouts accepted from the store, zoned first.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// FormatDate formats an ISO-8601 created_at for display in loc. Absent or
// unparseable values yield "". Timestamps without a zone are read in loc; a
// bare date is read as UTC midnight.
func FormatDate(createdAt string, loc *time.Location) string {
	s := strings.TrimSpace(createdAt)
	if s == "" {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range zonedLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.In(loc).Format(DateLayout)
		}
	}
	for _, layout := range localLayouts {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts.Format(DateLayout)
		}
	}
	if ts, err := time.Parse("2006-01-02", s); err == nil {
		return ts.In(loc).Format(DateLayout)
	}
	return ""
}
