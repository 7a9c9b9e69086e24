// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

package daily_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arotihq/aroti-server/internal/daily"
	"github.com/arotihq/aroti-server/internal/platform/apperr"
	"github.com/arotihq/aroti-server/pkg/civildate"
)

const testUserID = "0198a4c2-7b1e-7cc3-9f4a-2d8e11aa6b01"

// # Service-Level Fakes

type memoryRepository struct {
	records map[string]daily.Record

	// beforeUpsert interleaves a competing write between a caller's read
	// and its write-back; consumed on first use.
	beforeUpsert func()
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{records: map[string]daily.Record{}}
}

func (repository *memoryRepository) FindByUserID(_ context.Context, userID string) (*daily.Record, error) {
	record, ok := repository.records[userID]
	if !ok {
		return nil, apperr.NotFound("Daily state")
	}
	return &record, nil
}

// Upsert mirrors the Postgres guard: a write that would clear a committed
// reveal for the stored day is refused.
func (repository *memoryRepository) Upsert(_ context.Context, record *daily.Record) error {
	if hook := repository.beforeUpsert; hook != nil {
		repository.beforeUpsert = nil
		hook()
	}

	existing, ok := repository.records[record.UserID]
	if ok && existing.HasRevealedToday && !record.HasRevealedToday &&
		!existing.LastResetDay.Before(record.LastResetDay) {
		return apperr.Conflict("Daily state was committed concurrently")
	}

	repository.records[record.UserID] = *record
	return nil
}

/*
TestEnsureCurrentDay_Idempotent applies the rollover twice with the same day
and verifies the second application is a no-op.
*/
func TestEnsureCurrentDay_Idempotent(t *testing.T) {
	yesterday := civildate.New(2026, time.August, 28)
	today := civildate.New(2026, time.August, 29)

	itemID := "major-12"
	record := daily.Record{
		UserID:           testUserID,
		LastResetDay:     yesterday,
		HasRevealedToday: true,
		RevealedItemID:   &itemID,
	}

	once, didReset, err := daily.EnsureCurrentDay(record, today)
	require.NoError(t, err)
	assert.True(t, didReset)

	twice, didReset, err := daily.EnsureCurrentDay(once, today)
	require.NoError(t, err)
	assert.False(t, didReset, "second application must not reset again")
	assert.Equal(t, once, twice)
}

/*
TestEnsureCurrentDay_ResetClearsState verifies the rollover is a hard reset:
reveal flag, revealed item, and shuffle counter all return to their defaults.
*/
func TestEnsureCurrentDay_ResetClearsState(t *testing.T) {
	itemID := "minor-wands-03"
	record := daily.Record{
		UserID:              testUserID,
		LastResetDay:        civildate.New(2026, time.August, 28),
		HasRevealedToday:    true,
		RevealedItemID:      &itemID,
		AffirmationShuffles: 2,
	}

	today := civildate.New(2026, time.August, 29)
	rolled, didReset, err := daily.EnsureCurrentDay(record, today)

	require.NoError(t, err)
	assert.True(t, didReset)
	assert.True(t, rolled.LastResetDay.Equal(today))
	assert.False(t, rolled.HasRevealedToday)
	assert.Nil(t, rolled.RevealedItemID)
	assert.Zero(t, rolled.AffirmationShuffles)
}

/*
TestEnsureCurrentDay_Stale verifies a record dated in the future is returned
unchanged with a STALE_STATE error instead of being clobbered.
*/
func TestEnsureCurrentDay_Stale(t *testing.T) {
	itemID := "major-00"
	record := daily.Record{
		UserID:           testUserID,
		LastResetDay:     civildate.New(2026, time.August, 30),
		HasRevealedToday: true,
		RevealedItemID:   &itemID,
	}

	today := civildate.New(2026, time.August, 29)
	unchanged, didReset, err := daily.EnsureCurrentDay(record, today)

	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "STALE_STATE"))
	assert.False(t, didReset)
	assert.Equal(t, record, unchanged, "stale record must not be mutated")
}

/*
TestCommitReveal_ExactlyOnce reveals, then attempts a second reveal on the
same day, and expects ALREADY_REVEALED with the original state preserved.
*/
func TestCommitReveal_ExactlyOnce(t *testing.T) {
	today := civildate.New(2026, time.August, 29)
	record := daily.NewRecord(testUserID, today)

	revealed, err := daily.CommitReveal(record, today, "major-17")
	require.NoError(t, err)
	require.True(t, revealed.HasRevealedToday)
	require.NotNil(t, revealed.RevealedItemID)
	assert.Equal(t, "major-17", *revealed.RevealedItemID)

	again, err := daily.CommitReveal(revealed, today, "major-05")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "ALREADY_REVEALED"))
	assert.Equal(t, revealed, again, "second attempt must not change state")
}

/*
TestCommitReveal_AfterMidnight verifies that a reveal on a record left over
from yesterday first rolls the day forward, so yesterday's reveal does not
block today's.
*/
func TestCommitReveal_AfterMidnight(t *testing.T) {
	yesterday := civildate.New(2026, time.August, 28)
	today := civildate.New(2026, time.August, 29)

	record := daily.NewRecord(testUserID, yesterday)
	record, err := daily.CommitReveal(record, yesterday, "major-09")
	require.NoError(t, err)

	revealed, err := daily.CommitReveal(record, today, "minor-cups-07")
	require.NoError(t, err)
	assert.True(t, revealed.LastResetDay.Equal(today))
	assert.True(t, revealed.HasRevealedToday)
	assert.Equal(t, "minor-cups-07", *revealed.RevealedItemID)
}

/*
TestCommitReveal_StalePropagates verifies the implicit day check surfaces
STALE_STATE instead of committing a reveal against a future-dated record.
*/
func TestCommitReveal_StalePropagates(t *testing.T) {
	record := daily.NewRecord(testUserID, civildate.New(2026, time.September, 1))

	_, err := daily.CommitReveal(record, civildate.New(2026, time.August, 29), "major-01")

	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "STALE_STATE"))
}

/*
TestCommitShuffle_Budget consumes the daily shuffle budget and verifies the
next attempt is rejected, then that a day rollover restores the budget.
*/
func TestCommitShuffle_Budget(t *testing.T) {
	today := civildate.New(2026, time.August, 29)
	record := daily.NewRecord(testUserID, today)

	var err error
	for i := 0; i < daily.MaxAffirmationShuffles; i++ {
		record, err = daily.CommitShuffle(record, today)
		require.NoError(t, err, "shuffle %d should be within budget", i+1)
	}
	assert.Equal(t, daily.MaxAffirmationShuffles, record.AffirmationShuffles)

	_, err = daily.CommitShuffle(record, today)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "UNPROCESSABLE"))

	tomorrow := today.Next()
	record, err = daily.CommitShuffle(record, tomorrow)
	require.NoError(t, err, "rollover must restore the shuffle budget")
	assert.Equal(t, 1, record.AffirmationShuffles)
}

/*
TestLoadCurrent_RolloverLosesToCommittedReveal interleaves a committed
reveal between LoadCurrent's read of yesterday's record and its rollover
write-back. The stale rollover must not erase the reveal: the repository
refuses the write and LoadCurrent returns the committed record.
*/
func TestLoadCurrent_RolloverLosesToCommittedReveal(t *testing.T) {
	yesterday := civildate.New(2026, time.August, 28)
	today := civildate.New(2026, time.August, 29)

	repository := newMemoryRepository()
	staleItemID := "major-09"
	repository.records[testUserID] = daily.Record{
		UserID:           testUserID,
		LastResetDay:     yesterday,
		HasRevealedToday: true,
		RevealedItemID:   &staleItemID,
	}

	service := daily.NewService(repository, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	repository.beforeUpsert = func() {
		committed, err := daily.CommitReveal(daily.NewRecord(testUserID, today), today, "major-17")
		require.NoError(t, err)
		repository.records[testUserID] = committed
	}

	record, err := service.LoadCurrent(ctx, testUserID, today)
	require.NoError(t, err)

	assert.True(t, record.HasRevealedToday, "the committed reveal must win over the stale rollover")
	require.NotNil(t, record.RevealedItemID)
	assert.Equal(t, "major-17", *record.RevealedItemID)

	stored := repository.records[testUserID]
	assert.True(t, stored.HasRevealedToday, "stored state must keep the committed reveal")
	assert.True(t, stored.LastResetDay.Equal(today))
}
