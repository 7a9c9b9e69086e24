// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

package insight_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arotihq/aroti-server/internal/insight"
	"github.com/arotihq/aroti-server/pkg/civildate"
)

/*
TestLifePathNumber covers the documented reduction vectors, including master
numbers that must survive un-reduced.
*/
func TestLifePathNumber(t *testing.T) {
	tests := []struct {
		name      string
		birthDate civildate.Date
		want      int
	}{
		// 1990→1, 05→5, 15→6; total 12 → 3.
		{"plain_reduction", civildate.New(1990, time.May, 15), 3},

		// 1966→22 (master, kept), 02→2, 05→5; total 29 → 11 (master, kept).
		{"master_11_from_29", civildate.New(1966, time.February, 5), 11},

		// 1984→22 (kept) + 4 + 22 (kept) = 48 → 12 → 3: master components
		// do not exempt the total from reduction.
		{"master_components_still_reduce_total", civildate.New(1984, time.April, 22), 3},

		// 2000→2, 11→11 (master, kept), 09→9; total 22 → master, kept.
		{"master_22_total", civildate.New(2000, time.November, 9), 22},

		// 2001→3, 01→1, 01→1; total 5.
		{"single_digit_date", civildate.New(2001, time.January, 1), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, insight.LifePathNumber(tt.birthDate))
		})
	}
}

/*
TestLifePathNumber_Range verifies every birth date over several decades maps
into the legal set {1..9, 11, 22, 33}.
*/
func TestLifePathNumber_Range(t *testing.T) {
	day := civildate.New(1940, time.January, 1)
	end := civildate.New(2010, time.January, 1)

	for day.Before(end) {
		number := insight.LifePathNumber(day)

		legal := (number >= 1 && number <= 9) || insight.IsMasterNumber(number)
		assert.True(t, legal, "illegal life path %d for %s", number, day)

		day = day.Next()
	}
}

/*
TestIsMasterNumber pins the master number set.
*/
func TestIsMasterNumber(t *testing.T) {
	assert.True(t, insight.IsMasterNumber(11))
	assert.True(t, insight.IsMasterNumber(22))
	assert.True(t, insight.IsMasterNumber(33))
	assert.False(t, insight.IsMasterNumber(44))
	assert.False(t, insight.IsMasterNumber(9))
	assert.False(t, insight.IsMasterNumber(0))
}
