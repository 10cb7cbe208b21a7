// Package calendar works with calendar dates stored in time.Time values.
//
// A date is the year, month and day of a time.Time in its own location,
// normalised to midnight UTC so that day arithmetic never crosses a DST change.
package calendar

import "time"

const day = 24 * time.Hour

// Day returns the calendar date of t at midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar-day difference to - from.
func DaysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)) / day)
}

// AddDays returns the date n days after t.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// Within reports whether date falls in [from, to]. A zero bound is open.
func Within(date, from, to time.Time) bool {
	date = Day(date)

	if !from.IsZero() && date.Before(Day(from)) {
		return false
	}

	if !to.IsZero() && date.After(Day(to)) {
		return false
	}

	return true
}

// At returns the instant on date's calendar day at hour:minute in loc.
func At(date time.Time, hour, minute int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}

	y, m, d := date.Date()

	return time.Date(y, m, d, hour, minute, 0, 0, loc)
}
