// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

package insight

import (
	"github.com/arotihq/aroti-server/pkg/civildate"
)

// # Numerology

// masterNumbers are exempt from digit reduction at every step.
var masterNumbers = map[int]bool{11: true, 22: true, 33: true}

// LifePathNumber computes the numerology life-path number for a birth date.
//
// Year, month, and day are each reduced independently, their reduced values
// are summed, and the total is reduced again. Reduction stops early whenever
// the running value is a master number (11, 22, 33), which is returned
// un-reduced. The result is therefore in {1..9, 11, 22, 33}.
func LifePathNumber(birthDate civildate.Date) int {
	yearSum := reduceDigits(birthDate.Year)
	monthSum := reduceDigits(int(birthDate.Month))
	daySum := reduceDigits(birthDate.Day)

	return reduceDigits(yearSum + monthSum + daySum)
}

// reduceDigits repeatedly sums the decimal digits of n until it is a single
// digit or a master number.
func reduceDigits(n int) int {
	for n > 9 && !masterNumbers[n] {
		sum := 0
		for n > 0 {
			sum += n % 10
			n /= 10
		}
		n = sum
	}
	return n
}

// IsMasterNumber reports whether n is one of the master numbers 11, 22, 33.
func IsMasterNumber(n int) bool {
	return masterNumbers[n]
}
