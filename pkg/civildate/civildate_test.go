// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

package civildate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arotihq/aroti-server/pkg/civildate"
)

/*
TestFromTime_LocalZoneBoundary verifies that the calendar day is evaluated in
the provided zone, not in UTC.
*/
func TestFromTime_LocalZoneBoundary(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 2026-03-01 23:30 UTC is already 2026-03-02 in Tokyo (UTC+9).
	instant := time.Date(2026, time.March, 1, 23, 30, 0, 0, time.UTC)

	utcDay := civildate.FromTime(instant, time.UTC)
	tokyoDay := civildate.FromTime(instant, tokyo)

	assert.Equal(t, civildate.New(2026, time.March, 1), utcDay)
	assert.Equal(t, civildate.New(2026, time.March, 2), tokyoDay)
	assert.False(t, utcDay.Equal(tokyoDay))
}

/*
TestNext covers month, year, and leap-day rollover.
*/
func TestNext(t *testing.T) {
	tests := []struct {
		name string
		from civildate.Date
		want civildate.Date
	}{
		{"plain_day", civildate.New(2026, time.May, 14), civildate.New(2026, time.May, 15)},
		{"month_rollover", civildate.New(2026, time.April, 30), civildate.New(2026, time.May, 1)},
		{"year_rollover", civildate.New(2026, time.December, 31), civildate.New(2027, time.January, 1)},
		{"leap_day", civildate.New(2028, time.February, 28), civildate.New(2028, time.February, 29)},
		{"after_leap_day", civildate.New(2028, time.February, 29), civildate.New(2028, time.March, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.Next())
		})
	}
}

/*
TestKey_Monotonic checks that the integer encoding preserves chronological order
across an entire year of consecutive days.
*/
func TestKey_Monotonic(t *testing.T) {
	day := civildate.New(2026, time.January, 1)
	previousKey := day.Key()

	for i := 0; i < 365; i++ {
		day = day.Next()
		assert.Greater(t, day.Key(), previousKey)
		previousKey = day.Key()
	}

	assert.Equal(t, 20260101, civildate.New(2026, time.January, 1).Key())
}

/*
TestParse_RoundTrip verifies String/Parse symmetry and rejection of malformed input.
*/
func TestParse_RoundTrip(t *testing.T) {
	original := civildate.New(2026, time.August, 29)

	parsed, err := civildate.Parse(original.String())
	require.NoError(t, err)
	assert.Equal(t, original, parsed)

	_, err = civildate.Parse("29-08-2026")
	assert.Error(t, err)

	_, err = civildate.Parse("")
	assert.Error(t, err)
}

/*
TestBeforeAfter exercises the ordering helpers.
*/
func TestBeforeAfter(t *testing.T) {
	earlier := civildate.New(2026, time.August, 28)
	later := civildate.New(2026, time.August, 29)

	assert.True(t, earlier.Before(later))
	assert.True(t, later.After(earlier))
	assert.False(t, earlier.After(later))
	assert.False(t, earlier.Before(earlier))
}
