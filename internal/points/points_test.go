// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

package points_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arotihq/aroti-server/internal/platform/apperr"
	"github.com/arotihq/aroti-server/internal/points"
	"github.com/arotihq/aroti-server/pkg/civildate"
)

const testUserID = "0198a4c2-7b1e-7cc3-9f4a-2d8e11aa6b01"

/*
TestBalanceOf verifies total and lifetime derivation: total sums every
delta, lifetime sums positive deltas only.
*/
func TestBalanceOf(t *testing.T) {
	testCases := []struct {
		name             string
		deltas           []int
		expectedTotal    int
		expectedLifetime int
	}{
		{name: "empty ledger", deltas: nil, expectedTotal: 0, expectedLifetime: 0},
		{name: "earns only", deltas: []int{10, 25}, expectedTotal: 35, expectedLifetime: 35},
		{name: "earn then spend", deltas: []int{100, -40}, expectedTotal: 60, expectedLifetime: 100},
		{name: "spend does not touch lifetime", deltas: []int{50, -50, 30}, expectedTotal: 30, expectedLifetime: 80},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			entries := make([]points.Entry, 0, len(testCase.deltas))
			for _, delta := range testCase.deltas {
				entries = append(entries, points.Entry{UserID: testUserID, Delta: delta})
			}

			balance := points.BalanceOf(entries)
			assert.Equal(t, testCase.expectedTotal, balance.Total)
			assert.Equal(t, testCase.expectedLifetime, balance.Lifetime)
		})
	}
}

/*
TestCredit_RejectsNonPositive verifies zero and negative amounts are
rejected with a validation error and the ledger stays unchanged.
*/
func TestCredit_RejectsNonPositive(t *testing.T) {
	ledger := []points.Entry{{UserID: testUserID, Delta: 10}}

	for _, amount := range []int{0, -5} {
		result, _, err := points.Credit(ledger, testUserID, amount, points.ReasonDailyReveal)

		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
		assert.Equal(t, ledger, result, "ledger must be unchanged for amount %d", amount)
	}
}

/*
TestSpend_Insufficient verifies a spend past the balance fails with
INSUFFICIENT_POINTS and leaves the ledger untouched.
*/
func TestSpend_Insufficient(t *testing.T) {
	ledger, _, err := points.Credit(nil, testUserID, 30, points.ReasonDailyReveal)
	require.NoError(t, err)

	result, _, err := points.Spend(ledger, testUserID, 50, points.ReasonFeatureCharge)

	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "INSUFFICIENT_POINTS"))
	assert.Equal(t, ledger, result, "failed spend must not append an entry")
	assert.Equal(t, 30, points.BalanceOf(result).Total)
}

/*
TestLedger_NeverNegative runs an earn/spend sequence and verifies the total
never drops below zero: every overdraw attempt is refused.
*/
func TestLedger_NeverNegative(t *testing.T) {
	var ledger []points.Entry
	var err error

	// Interleave earns and aggressive spends.
	operations := []int{20, -50, 10, -25, -10, 100, -200, -95, 5, -10}

	for _, amount := range operations {
		if amount > 0 {
			ledger, _, err = points.Credit(ledger, testUserID, amount, points.ReasonDailyPractice)
			require.NoError(t, err)
		} else {
			ledger, _, err = points.Spend(ledger, testUserID, -amount, points.ReasonFeatureCharge)
			if err != nil {
				assert.True(t, apperr.IsCode(err, "INSUFFICIENT_POINTS"))
			}
		}

		assert.GreaterOrEqual(t, points.BalanceOf(ledger).Total, 0)
	}
}

/*
TestConsume_FreeFirst draws uses of ai_chat (3 free, then 20 points) and
verifies free units are always exhausted before any cost is quoted.
*/
func TestConsume_FreeFirst(t *testing.T) {
	limits, ok := points.LimitsFor(points.FeatureAIChat)
	require.True(t, ok)
	require.Equal(t, 3, limits.FreeUses)
	require.Equal(t, 20, limits.CostAfterFree)

	today := civildate.New(2026, time.August, 29)
	quota := points.NewQuota(testUserID, points.FeatureAIChat, today)

	for use := 1; use <= limits.FreeUses; use++ {
		result := points.Consume(quota, limits, today)
		assert.True(t, result.Free, "use %d should be free", use)
		assert.Zero(t, result.Cost)
		assert.Equal(t, use, result.Quota.FreeUsed)
		quota = result.Quota
	}

	paid := points.Consume(quota, limits, today)
	assert.False(t, paid.Free)
	assert.Equal(t, limits.CostAfterFree, paid.Cost)
	assert.Equal(t, limits.FreeUses, paid.Quota.FreeUsed, "a paid use must not consume quota")
}

/*
TestConsume_LazyDayReset verifies an exhausted counter from yesterday reads
as fresh today.
*/
func TestConsume_LazyDayReset(t *testing.T) {
	limits, _ := points.LimitsFor(points.FeatureDailyPractice)

	yesterday := civildate.New(2026, time.August, 28)
	quota := points.Quota{
		UserID:   testUserID,
		Feature:  points.FeatureDailyPractice,
		Day:      yesterday,
		FreeUsed: limits.FreeUses,
	}

	result := points.Consume(quota, limits, yesterday.Next())

	assert.True(t, result.Free, "rollover must restore the free quota")
	assert.Equal(t, 1, result.Quota.FreeUsed)
	assert.True(t, result.Quota.Day.Equal(yesterday.Next()))
}

/*
TestConsume_NoFreeUses verifies spread_unlock (0 free uses) always quotes
its cost.
*/
func TestConsume_NoFreeUses(t *testing.T) {
	limits, ok := points.LimitsFor(points.FeatureSpreadUnlock)
	require.True(t, ok)
	require.Zero(t, limits.FreeUses)

	today := civildate.New(2026, time.August, 29)
	result := points.Consume(points.NewQuota(testUserID, points.FeatureSpreadUnlock, today), limits, today)

	assert.False(t, result.Free)
	assert.Equal(t, 40, result.Cost)
}

/*
TestLevelFor pins the level ladder boundaries.
*/
func TestLevelFor(t *testing.T) {
	testCases := []struct {
		lifetime      int
		expectedLevel int
		expectedName  string
		pointsToNext  int
	}{
		{lifetime: 0, expectedLevel: 1, expectedName: "Welcome", pointsToNext: 100},
		{lifetime: 99, expectedLevel: 1, expectedName: "Welcome", pointsToNext: 1},
		{lifetime: 100, expectedLevel: 2, expectedName: "Seeker", pointsToNext: 200},
		{lifetime: 300, expectedLevel: 3, expectedName: "Explorer", pointsToNext: 300},
		{lifetime: 999, expectedLevel: 4, expectedName: "Oracle", pointsToNext: 1},
		{lifetime: 1000, expectedLevel: 5, expectedName: "Master", pointsToNext: 1000},
		{lifetime: 2500, expectedLevel: 6, expectedName: "Sage", pointsToNext: 500},
		{lifetime: 3000, expectedLevel: 7, expectedName: "Enlightened", pointsToNext: 0},
		{lifetime: 50000, expectedLevel: 7, expectedName: "Enlightened", pointsToNext: 0},
	}

	for _, testCase := range testCases {
		info := points.LevelFor(testCase.lifetime)
		assert.Equal(t, testCase.expectedLevel, info.Level, "lifetime=%d", testCase.lifetime)
		assert.Equal(t, testCase.expectedName, info.Name, "lifetime=%d", testCase.lifetime)
		assert.Equal(t, testCase.pointsToNext, info.PointsToNext, "lifetime=%d", testCase.lifetime)
	}
}
