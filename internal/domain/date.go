package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used in configs, CLI flags and storage keys.
const DateLayout = "2006-01-02"

// Day returns the calendar date of t as midnight UTC.
// The wall-clock date in t's own location is kept.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a calendar date.
func ParseDay(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDateRange normalizes both ends to calendar dates and checks From <= To.
func NewDateRange(from, to time.Time) (DateRange, error) {
	r := DateRange{From: Day(from), To: Day(to)}
	if r.To.Before(r.From) {
		return DateRange{}, NewValidationError("date_range", "to must not be before from")
	}
	return r, nil
}

// SingleDay returns a range covering only d.
func SingleDay(d time.Time) DateRange {
	day := Day(d)
	return DateRange{From: day, To: day}
}

// WeekOf returns the Monday..Sunday calendar week containing d.
func WeekOf(d time.Time) DateRange {
	day := Day(d)
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)
	return DateRange{From: monday, To: monday.AddDate(0, 0, 6)}
}

// Contains reports whether the calendar date of t lies within the range.
func (r DateRange) Contains(t time.Time) bool {
	day := Day(t)
	return !day.Before(r.From) && !day.After(r.To)
}

// Days returns the number of calendar days in the range.
func (r DateRange) Days() int {
	return int(r.To.Sub(r.From).Hours()/24) + 1
}

func (r DateRange) String() string {
	return r.From.Format(DateLayout) + ".." + r.To.Format(DateLayout)
}
