package services

import "time"

// WeekBounds returns the Sunday-aligned week containing reference: start is
// the most recent Sunday 00:00 at or before reference in location, end is
// seven calendar days later and exclusive.
func WeekBounds(reference time.Time, location *time.Location) (time.Time, time.Time) {
	if location == nil {
		location = time.UTC
	}
	local := reference.In(location)
	offset := int(local.Weekday())
	start := time.Date(local.Year(), local.Month(), local.Day()-offset, 0, 0, 0, 0, location)
	return start, start.AddDate(0, 0, 7)
}

// DayBounds returns [midnight, next midnight) of reference's day in location.
func DayBounds(reference time.Time, location *time.Location) (time.Time, time.Time) {
	if location == nil {
		location = time.UTC
	}
	local := reference.In(location)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, location)
	return start, start.AddDate(0, 0, 1)
}
