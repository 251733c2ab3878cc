package utils

import (
	"fmt"
	"time"
)

// DayKeyLayout is the YYYYMMDD layout used in track file names.
const DayKeyLayout = "20060102"

// Iso8601 formats t as UTC RFC3339
func Iso8601(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// DayKey returns the calendar date of t in loc as YYYYMMDD.
// A nil loc means UTC.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DayKeyLayout)
}

// ParseDayKey validates a YYYYMMDD key.
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.Parse(DayKeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return t, nil
}
