package calendar_test

import (
	"testing"
	"time"

	"suave/shared/calendar"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDay(t *testing.T) {
	lagos := time.FixedZone("WAT", 3600)
	late := time.Date(2025, time.March, 20, 23, 30, 0, 0, lagos)

	assert.Equal(t, date(2025, time.March, 20), calendar.Day(late))
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		from, to time.Time
		want     int
	}{
		{name: "two nights", from: date(2025, time.March, 20), to: date(2025, time.March, 22), want: 2},
		{name: "same day", from: date(2025, time.March, 20), to: date(2025, time.March, 20).Add(20 * time.Hour), want: 0},
		{name: "backwards", from: date(2025, time.March, 22), to: date(2025, time.March, 20), want: -2},
		{name: "leap day", from: date(2024, time.February, 28), to: date(2024, time.March, 1), want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calendar.DaysBetween(tt.from, tt.to))
		})
	}
}

func TestAddDays(t *testing.T) {
	assert.Equal(t, date(2025, time.January, 1), calendar.AddDays(date(2024, time.December, 31).Add(9*time.Hour), 1))
}

func TestWithin(t *testing.T) {
	from := date(2025, time.March, 1)
	to := date(2025, time.March, 31)

	tests := []struct {
		name     string
		date     time.Time
		from, to time.Time
		want     bool
	}{
		{name: "inside", date: date(2025, time.March, 15), from: from, to: to, want: true},
		{name: "first day", date: from, from: from, to: to, want: true},
		{name: "last day late evening", date: to.Add(23 * time.Hour), from: from, to: to, want: true},
		{name: "before", date: date(2025, time.February, 28), from: from, to: to},
		{name: "after", date: date(2025, time.April, 1), from: from, to: to},
		{name: "open start", date: date(2020, time.January, 1), to: to, want: true},
		{name: "open end", date: date(2030, time.January, 1), from: from, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calendar.Within(tt.date, tt.from, tt.to))
		})
	}
}

func TestAt(t *testing.T) {
	lagos := time.FixedZone("WAT", 3600)

	got := calendar.At(date(2025, time.March, 20), 14, 0, lagos)

	assert.Equal(t, time.Date(2025, time.March, 20, 13, 0, 0, 0, time.UTC), got.UTC())
	assert.Equal(t, time.Date(2025, time.March, 20, 14, 0, 0, 0, time.UTC), calendar.At(date(2025, time.March, 20), 14, 0, nil))
}
