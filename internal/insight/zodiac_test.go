// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

package insight_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arotihq/aroti-server/internal/insight"
)

/*
TestSignForMonthDay pins the range boundaries for every sign.
*/
func TestSignForMonthDay(t *testing.T) {
	tests := []struct {
		name  string
		month time.Month
		day   int
		want  insight.ZodiacSign
	}{
		{"aries_start", time.March, 21, insight.Aries},
		{"aries_end", time.April, 19, insight.Aries},
		{"taurus_start", time.April, 20, insight.Taurus},
		{"gemini_mid", time.June, 1, insight.Gemini},
		{"cancer_start", time.June, 21, insight.Cancer},
		{"leo_end", time.August, 22, insight.Leo},
		{"virgo_start", time.August, 23, insight.Virgo},
		{"libra_mid", time.October, 10, insight.Libra},
		{"scorpio_end", time.November, 21, insight.Scorpio},
		{"sagittarius_start", time.November, 22, insight.Sagittarius},
		{"capricorn_year_end", time.December, 31, insight.Capricorn},
		{"capricorn_year_start", time.January, 1, insight.Capricorn},
		{"capricorn_end", time.January, 19, insight.Capricorn},
		{"aquarius_start", time.January, 20, insight.Aquarius},
		{"aquarius_end", time.February, 19, insight.Aquarius},
		{"pisces_start", time.February, 20, insight.Pisces},
		{"pisces_leap_day", time.February, 29, insight.Pisces},
		{"pisces_end", time.March, 20, insight.Pisces},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, insight.SignForMonthDay(tt.month, tt.day))
		})
	}
}

/*
TestSignForMonthDay_FullCoverage walks all 366 month-day pairs of a leap year
and checks each resolves to exactly one valid sign, with every sign receiving
a plausible share of days.
*/
func TestSignForMonthDay_FullCoverage(t *testing.T) {
	counts := make(map[insight.ZodiacSign]int)

	// 2028 is a leap year, so this covers Feb 29.
	current := time.Date(2028, time.January, 1, 0, 0, 0, 0, time.UTC)
	for current.Year() == 2028 {
		sign := insight.SignForMonthDay(current.Month(), current.Day())
		assert.True(t, sign.IsValid(), "no sign for %s", current.Format("01-02"))
		counts[sign]++
		current = current.AddDate(0, 0, 1)
	}

	assert.Len(t, counts, 12, "every sign must own at least one day")

	total := 0
	for sign, count := range counts {
		// Each sign spans roughly a month of days.
		assert.GreaterOrEqual(t, count, 28, "sign %s owns too few days", sign)
		assert.LessOrEqual(t, count, 32, "sign %s owns too many days", sign)
		total += count
	}
	assert.Equal(t, 366, total)
}
