package service

import (
	"strings"
	"time"

	"github.com/sleeping-Zack/iot-platform/internal/domain"
)

// The query boundary is the only place zone conversion happens: bounds are
// parsed into the reference zone here, timestamps are rendered back out as
// local wall-clock strings here, and stored timestamps are never
// re-interpreted anywhere else.

const localWallClock = "2006-01-02T15:04:05"

// ParseBound parses a range bound. Accepted inputs: a date-time with an
// optional trailing Z (UTC), a bare date-time interpreted in the reference
// zone, or a date-only string. A date-only from is floored to local
// midnight, a date-only to is ceiled to local 23:59:59. Empty input means
// no bound.
func ParseBound(s string, zone *time.Location, end bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	s = strings.Replace(s, " ", "T", 1)

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		local := t.In(zone)
		return &local, nil
	}
	for _, layout := range []string{localWallClock, "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, zone); err == nil {
			return &t, nil
		}
	}
	if d, err := time.ParseInLocation("2006-01-02", s, zone); err == nil {
		if end {
			t := d.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
			return &t, nil
		}
		return &d, nil
	}
	return nil, domain.NewValidationError("invalid time %q", s)
}

// ParseDay parses a date-only string in the reference zone.
func ParseDay(s string, zone *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), zone)
	if err != nil {
		return time.Time{}, domain.NewValidationError("invalid day %q", s)
	}
	return d, nil
}

// DayOf truncates t to its local midnight in the reference zone.
func DayOf(t time.Time, zone *time.Location) time.Time {
	local := t.In(zone)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, zone)
}

// FormatLocal renders a stored timestamp as a local wall-clock string
// without a zone suffix, so clients parse it as local time and no double
// offset can creep in.
func FormatLocal(t time.Time, zone *time.Location) string {
	return t.In(zone).Format(localWallClock)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
