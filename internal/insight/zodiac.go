// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

package insight

import (
	"time"

	"github.com/arotihq/aroti-server/pkg/civildate"
)

// # Zodiac Date Ranges

// zodiacRange is a closed month-day interval assigned to one sign.
//
// The twelve ranges cover all 366 possible month-day pairs with no gaps and
// no overlaps. February 29 falls inside the Pisces range (Feb 20 – Mar 20),
// so leap-day birthdays resolve without a special case.
type zodiacRange struct {
	sign       ZodiacSign
	startMonth time.Month
	startDay   int
	endMonth   time.Month
	endDay     int
}

var zodiacRanges = []zodiacRange{
	{Aries, time.March, 21, time.April, 19},
	{Taurus, time.April, 20, time.May, 20},
	{Gemini, time.May, 21, time.June, 20},
	{Cancer, time.June, 21, time.July, 22},
	{Leo, time.July, 23, time.August, 22},
	{Virgo, time.August, 23, time.September, 22},
	{Libra, time.September, 23, time.October, 22},
	{Scorpio, time.October, 23, time.November, 21},
	{Sagittarius, time.November, 22, time.December, 21},
	{Capricorn, time.December, 22, time.January, 19},
	{Aquarius, time.January, 20, time.February, 19},
	{Pisces, time.February, 20, time.March, 20},
}

// SignForBirthDate resolves the sun sign for a birth date from the fixed
// range table.
func SignForBirthDate(birthDate civildate.Date) ZodiacSign {
	return SignForMonthDay(birthDate.Month, birthDate.Day)
}

// SignForMonthDay resolves the sun sign for a month-day pair.
func SignForMonthDay(month time.Month, day int) ZodiacSign {
	ordinal := monthDayOrdinal(month, day)

	for _, r := range zodiacRanges {
		start := monthDayOrdinal(r.startMonth, r.startDay)
		end := monthDayOrdinal(r.endMonth, r.endDay)

		if start <= end {
			if ordinal >= start && ordinal <= end {
				return r.sign
			}
			continue
		}

		// Capricorn wraps the year boundary (Dec 22 – Jan 19).
		if ordinal >= start || ordinal <= end {
			return r.sign
		}
	}

	// Unreachable: the ranges cover every month-day pair.
	return Pisces
}

// monthDayOrdinal encodes a month-day pair as a comparable integer.
func monthDayOrdinal(month time.Month, day int) int {
	return int(month)*100 + day
}
