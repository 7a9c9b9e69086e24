// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

// Package civildate provides a date-only value evaluated in a local time zone.
//
// # Overview
//
// The engagement engine works in units of "calendar days": two instants belong
// to the same day iff they share the same year/month/day in the user's
// configured zone. A [Date] carries no time-of-day and no zone of its own;
// the zone is applied once, when converting from a [time.Time].
package civildate

import (
	"fmt"
	"time"
)

// Date is a calendar day without a time component.
//
// The zero value is not a valid date; construct values via [FromTime],
// [Today], [New] or [Parse].
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New constructs a Date from explicit components.
func New(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// FromTime extracts the calendar day of t as observed in loc.
func FromTime(t time.Time, loc *time.Location) Date {
	year, month, day := t.In(loc).Date()
	return Date{Year: year, Month: month, Day: day}
}

// Today returns the current calendar day in loc.
func Today(loc *time.Location) Date {
	return FromTime(time.Now(), loc)
}

// Equal reports whether two dates name the same calendar day.
func (d Date) Equal(other Date) bool {
	return d == other
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Key() < other.Key()
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d.Key() > other.Key()
}

// Next returns the following calendar day, handling month and year rollover.
func (d Date) Next() Date {
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// Key returns a monotonic integer encoding of the date (year*10000 +
// month*100 + day). It is the day component of the deterministic content
// key, so the encoding is frozen: changing it would re-deal every user's
// daily content.
func (d Date) Key() int {
	return d.Year*10000 + int(d.Month)*100 + d.Day
}

// IsZero reports whether d is the zero value.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String formats the date as "YYYY-MM-DD".
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Parse reads a "YYYY-MM-DD" string into a Date.
func Parse(value string) (Date, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return Date{}, fmt.Errorf("civildate: invalid date %q: %w", value, err)
	}
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}, nil
}

// ToTime returns midnight of the date in loc.
func (d Date) ToTime(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// MarshalJSON encodes the date as a "YYYY-MM-DD" JSON string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" JSON string.
func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("civildate: expected a quoted date string, got %s", data)
	}

	parsed, err := Parse(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}
