package utils

import (
	"fmt"
	"time"
)

const DefaultTimezone = "Asia/Yangon"

// ParseDateString parses a "2006-01-02" date string in the plant's local
// timezone and returns the UTC start of that day.
func ParseDateString(dateString string, timezone string) (time.Time, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return time.Time{}, err
	}
	localTime, err := time.ParseInLocation("2006-01-02", dateString, location)
	if err != nil {
		return time.Time{}, fmt.Errorf("error parsing date %q: %w", dateString, err)
	}
	// Ledger days are calendar dates; re-anchor to UTC midnight so the
	// named date survives the conversion instead of shifting a day back.
	return time.Date(localTime.Year(), localTime.Month(), localTime.Day(), 0, 0, 0, 0, time.UTC), nil
}

// DateInTimezone returns the UTC midnight of t's calendar date as seen
// in the named timezone. The plant runs on local days, so "today" before
// 06:30 local must not fall back to yesterday's UTC date.
func DateInTimezone(t time.Time, timezone string) (time.Time, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return time.Time{}, err
	}
	local := t.In(location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC), nil
}

// TodayInTimezone is the current plant-local calendar date at UTC
// midnight.
func TodayInTimezone(timezone string) time.Time {
	d, err := DateInTimezone(time.Now(), timezone)
	if err != nil {
		return DateOnly(time.Now())
	}
	return d
}

// DateOnly truncates a timestamp to midnight UTC. Ledger events are
// bucketed by day, so every date comparison goes through this.
func DateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func DereferencePtr[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
