// Package calendar holds the date arithmetic used by recurrence expansion and
// slot carving. All instants are UTC.
package calendar

import (
	"errors"
	"iter"
	"time"

	"cloud.google.com/go/civil"
)

// ErrInvalidRange is returned when an iteration is requested with start after end.
var ErrInvalidRange = errors.New("start date must not be after end date")

// IterateBetweenDates returns every date from start to end inclusive, in
// ascending order. The sequence is lazy and may be ranged over more than once.
func IterateBetweenDates(start, end civil.Date) (iter.Seq[civil.Date], error) {
	if start.After(end) {
		return nil, ErrInvalidRange
	}
	return func(yield func(civil.Date) bool) {
		for d := start; !d.After(end); d = d.AddDays(1) {
			if !yield(d) {
				return
			}
		}
	}, nil
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the following month normalises to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDayToMonth returns min(day, last day of the month).
func ClampDayToMonth(year int, month time.Month, day int) int {
	if last := DaysIn(year, month); day > last {
		return last
	}
	return day
}

// NextMonth returns the year and month following the given one.
func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// NthWeekdayInMonth returns the n-th (1-indexed) occurrence of weekday in the
// month. ok is false when the month has fewer than n such days.
func NthWeekdayInMonth(year int, month time.Month, weekday time.Weekday, n int) (civil.Date, bool) {
	if n < 1 {
		return civil.Date{}, false
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
	offset := (int(weekday) - int(first) + 7) % 7
	day := 1 + offset + (n-1)*7
	if day > DaysIn(year, month) {
		return civil.Date{}, false
	}
	return civil.Date{Year: year, Month: month, Day: day}, true
}

// At combines a date and a wall-clock time into a UTC instant.
func At(d civil.Date, t civil.Time) time.Time {
	return civil.DateTime{Date: d, Time: t}.In(time.UTC)
}

// Weekday returns the day of the week of d.
func Weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

// Today returns the UTC calendar date of now.
func Today(now time.Time) civil.Date {
	return civil.DateOf(now.UTC())
}

// SinceMidnight returns the offset of t from the start of its day.
func SinceMidnight(t civil.Time) time.Duration {
	return time.Duration(t.Hour)*time.Hour +
		time.Duration(t.Minute)*time.Minute +
		time.Duration(t.Second)*time.Second +
		time.Duration(t.Nanosecond)
}

// ClockOf is the inverse of SinceMidnight for offsets within one day.
func ClockOf(d time.Duration) civil.Time {
	return civil.TimeOf(time.Unix(0, 0).UTC().Add(d))
}
