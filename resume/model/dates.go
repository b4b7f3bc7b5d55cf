package model

import (
	"fmt"
	"strings"
	"time"
)

// PresentLabel is shown for in-progress entries and missing dates.
const PresentLabel = "Present"

var dateLayouts = []string{"2006-01", "2006-01-02", time.RFC3339}

// ParseDate accepts year-month, full dates and RFC 3339 timestamps.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a stored date as "Jan 2020". Empty input yields PresentLabel and
// unparseable input is returned unchanged.
func FormatDate(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return PresentLabel
	}
	t, ok := ParseDate(raw)
	if !ok {
		return raw
	}
	return t.Format("Jan 2006")
}

// DateRange renders "start - end", with the end replaced by PresentLabel when inProgress.
func DateRange(start, end string, inProgress bool) string {
	endLabel := PresentLabel
	if !inProgress {
		endLabel = FormatDate(end)
	}
	return FormatDate(start) + " - " + endLabel
}

// Duration describes the span between start and end in years and months. When inProgress
// is set the span ends at now.
func Duration(start, end string, inProgress bool, now time.Time) string {
	from, ok := ParseDate(start)
	if !ok {
		return ""
	}
	to := now
	if !inProgress {
		if to, ok = ParseDate(end); !ok {
			return ""
		}
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	years := months / 12
	rest := months % 12
	switch {
	case years == 0:
		return plural(rest, "month")
	case rest == 0:
		return plural(years, "year")
	default:
		return plural(years, "year") + " " + plural(rest, "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
