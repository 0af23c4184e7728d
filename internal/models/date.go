package models

import (
	"fmt"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

// dateLayouts are tried in order by ParseDate. Day-first layouts win over
// month-first ones for ambiguous input such as 04/05/1990.
var dateLayouts = []string{
	isoDate,
	"02-01-2006",
	"02/01/2006",
	"01/02/2006",
	"2006.01.02",
	"02.01.2006",
}

// Date is a calendar date without a time of day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current date according to Now.
func Today() Date { return DateOf(Now()) }

// ParseDate parses s using the accepted layouts.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, validationf("invalid date %q (use YYYY-MM-DD or DD.MM.YYYY)", s)
}

// Time returns midnight UTC on d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d falls strictly before o.
func (d Date) Before(o Date) bool { return d.Time().Before(o.Time()) }

func (d Date) String() string { return d.Time().Format(isoDate) }

// MarshalText encodes d as YYYY-MM-DD.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a YYYY-MM-DD date.
func (d *Date) UnmarshalText(b []byte) error {
	t, err := time.Parse(isoDate, strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("date %q: %w", b, err)
	}
	*d = DateOf(t)
	return nil
}

// DaysUntil returns the number of days from today until the next occurrence
// of d's month and day (0 when it is today). A 29 February date falls on
// 1 March in non-leap years.
func (d Date) DaysUntil(today Date) int {
	start := today.Time()
	next := time.Date(today.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	if next.Before(start) {
		next = time.Date(today.Year+1, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	}
	return int(next.Sub(start).Hours() / 24)
}
