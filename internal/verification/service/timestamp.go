package service

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

const (
	// TimeZone is the zone every response timestamp is rendered in
	TimeZone = "Asia/Singapore"
	// TimestampLayout renders as e.g. "2025-01-31 14:05:09 +08"
	TimestampLayout = "2006-01-02 15:04:05 MST"
)

// LoadTimeZone loads the Singapore location from the embedded tz database
func LoadTimeZone() (*time.Location, error) {
	loc, err := time.LoadLocation(TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %s: %w", TimeZone, err)
	}
	return loc, nil
}

// FormatTimestamp renders t in loc using TimestampLayout
func FormatTimestamp(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(TimestampLayout)
}

// ParseTimestamp is the inverse of FormatTimestamp
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, s, loc)
}
