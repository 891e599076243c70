/*
Package calendar provides pure date arithmetic for the people engine.

PURPOSE:
  Everything here is a total or near-total function over dates: counting
  working days in an inclusive range, testing whether two closed ranges
  intersect, and locating accounting-year boundaries. No I/O, no state.

KEY CONCEPTS IN THIS FILE (calendar.go):
  - Working day: Monday through Friday. Saturdays and Sundays never count.
  - Inclusive range: both endpoints belong to the range. A one-day
    vacation has start == end and counts as one day.
  - Day granularity: all comparisons truncate to the calendar day in UTC.
    A request stored as 2024-07-10T15:04 overlaps one stored as
    2024-07-10T00:00.

ERROR HANDLING:
  WorkingDaysInclusive rejects ranges with start after end via
  ErrInvalidRange instead of returning a nonsense count. A reversed range
  in storage means upstream data corruption and must surface, not hide.

SEE ALSO:
  - leave/balance.go: consumes WorkingDaysInclusive per request
  - leave/conflict.go: consumes RangesOverlap
*/
package calendar

import (
	"errors"
	"time"
)

// ErrInvalidRange is returned when a date range has start after end.
// A stored range like this indicates upstream data corruption; it is
// propagated, never silently corrected.
var ErrInvalidRange = errors.New("invalid range: start after end")

// =============================================================================
// DAY NORMALIZATION
// =============================================================================

// DayOf truncates a time to its calendar day in UTC.
// All range comparisons in this package operate at day granularity.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}

// IsWeekend reports whether a date falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsWorkday reports whether a date is a working day (not a weekend).
func IsWorkday(t time.Time) bool { return !IsWeekend(t) }

// =============================================================================
// WORKING DAY COUNTS
// =============================================================================

// WorkingDaysInclusive counts the days in [start, end] that fall on
// Monday through Friday. Both endpoints are included.
// Returns ErrInvalidRange if start is after end.
func WorkingDaysInclusive(start, end time.Time) (int, error) {
	return WorkingDaysInclusiveIn(start, end, nil)
}

// WorkingDaysInclusiveIn counts working days in [start, end], additionally
// skipping dates the given holiday calendar marks as holidays.
// A nil calendar skips nothing beyond weekends.
func WorkingDaysInclusiveIn(start, end time.Time, cal HolidayCalendar) (int, error) {
	from, to := DayOf(start), DayOf(end)
	if from.After(to) {
		return 0, ErrInvalidRange
	}

	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if IsWeekend(d) {
			continue
		}
		if cal != nil && cal.IsHoliday(d) {
			continue
		}
		count++
	}
	return count, nil
}

// =============================================================================
// RANGE OVERLAP
// =============================================================================

// RangesOverlap reports whether the closed day ranges [startA, endA] and
// [startB, endB] intersect. It is a total function: each pair must be
// internally ordered, but the two ranges may come in any order relative
// to each other. It is symmetric in its two range arguments.
func RangesOverlap(startA, endA, startB, endB time.Time) bool {
	a1, a2 := DayOf(startA), DayOf(endA)
	b1, b2 := DayOf(startB), DayOf(endB)
	return !a1.After(b2) && !b1.After(a2)
}

// =============================================================================
// YEAR BOUNDARIES
// =============================================================================

// StartOfYear returns January 1 of the given year.
func StartOfYear(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// EndOfYear returns December 31 of the given year.
func EndOfYear(year int) time.Time {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// WithinYear reports whether [start, end] lies entirely inside the given
// calendar year. A range spanning a year boundary is NOT within either year.
func WithinYear(start, end time.Time, year int) bool {
	return !DayOf(start).Before(StartOfYear(year)) && !DayOf(end).After(EndOfYear(year))
}

// =============================================================================
// HOLIDAY CALENDAR - Optional company holiday exclusion
// =============================================================================

// HolidayCalendar answers whether a given date is a company holiday.
// Implementations are supplied by the host system; the engine only asks.
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
}

// NoHolidays is the default calendar: no date is ever a holiday.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(time.Time) bool { return false }
