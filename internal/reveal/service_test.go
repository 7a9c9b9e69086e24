// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

package reveal_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arotihq/aroti-server/internal/daily"
	"github.com/arotihq/aroti-server/internal/insight"
	"github.com/arotihq/aroti-server/internal/platform/apperr"
	"github.com/arotihq/aroti-server/internal/points"
	"github.com/arotihq/aroti-server/internal/reveal"
	"github.com/arotihq/aroti-server/pkg/civildate"
	"github.com/arotihq/aroti-server/pkg/pagination"
	"github.com/arotihq/aroti-server/pkg/pointer"
	"github.com/arotihq/aroti-server/pkg/uuidv7"
)

const testUserID = "0198a4c2-7b1e-7cc3-9f4a-2d8e11aa6b01"

// # In-Memory Fakes

type memoryDailyRepository struct {
	records map[string]daily.Record

	// beforeUpsert interleaves a competing writer between a caller's read
	// and its write-back; consumed on first use.
	beforeUpsert func()
}

func newMemoryDailyRepository() *memoryDailyRepository {
	return &memoryDailyRepository{records: map[string]daily.Record{}}
}

func (repository *memoryDailyRepository) FindByUserID(_ context.Context, userID string) (*daily.Record, error) {
	record, ok := repository.records[userID]
	if !ok {
		return nil, apperr.NotFound("Daily state")
	}
	return &record, nil
}

// Upsert mirrors the Postgres guard: a write that would clear a committed
// reveal for the stored day is refused.
func (repository *memoryDailyRepository) Upsert(_ context.Context, record *daily.Record) error {
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

type memoryPointsRepository struct {
	entries []points.Entry
	quotas  map[string]points.Quota
}

func newMemoryPointsRepository() *memoryPointsRepository {
	return &memoryPointsRepository{quotas: map[string]points.Quota{}}
}

func (repository *memoryPointsRepository) Append(_ context.Context, entry *points.Entry) (points.Balance, error) {
	entry.CreatedAt = time.Now().UTC()
	repository.entries = append(repository.entries, *entry)
	return repository.balanceFor(entry.UserID), nil
}

func (repository *memoryPointsRepository) BalanceByUserID(_ context.Context, userID string) (points.Balance, error) {
	return repository.balanceFor(userID), nil
}

func (repository *memoryPointsRepository) balanceFor(userID string) points.Balance {
	var owned []points.Entry
	for _, entry := range repository.entries {
		if entry.UserID == userID {
			owned = append(owned, entry)
		}
	}
	return points.BalanceOf(owned)
}

func (repository *memoryPointsRepository) EntriesByUserID(_ context.Context, userID string, _ pagination.Params) ([]points.Entry, int, error) {
	var owned []points.Entry
	for _, entry := range repository.entries {
		if entry.UserID == userID {
			owned = append(owned, entry)
		}
	}
	return owned, len(owned), nil
}

func (repository *memoryPointsRepository) QuotaFor(_ context.Context, userID string, feature points.Feature) (*points.Quota, error) {
	quota, ok := repository.quotas[userID+":"+string(feature)]
	if !ok {
		return nil, apperr.NotFound("Feature quota")
	}
	return &quota, nil
}

func (repository *memoryPointsRepository) UpsertQuota(_ context.Context, quota *points.Quota) error {
	repository.quotas[quota.UserID+":"+string(quota.Feature)] = *quota
	return nil
}

type memoryLocker struct {
	held map[string]string
}

func newMemoryLocker() *memoryLocker {
	return &memoryLocker{held: map[string]string{}}
}

func (locker *memoryLocker) Acquire(_ context.Context, key string, _ time.Duration) (string, error) {
	if _, ok := locker.held[key]; ok {
		return "", apperr.Conflict("Another request is already in progress")
	}
	token := uuidv7.New()
	locker.held[key] = token
	return token, nil
}

func (locker *memoryLocker) Release(_ context.Context, key string, token string) error {
	if locker.held[key] == token {
		delete(locker.held, key)
	}
	return nil
}

type memoryInsightCache struct {
	values map[string]insight.Insight
	misses int
}

func newMemoryInsightCache() *memoryInsightCache {
	return &memoryInsightCache{values: map[string]insight.Insight{}}
}

func (cache *memoryInsightCache) Get(_ context.Context, userID string, day civildate.Date) (*insight.Insight, error) {
	value, ok := cache.values[userID+":"+day.String()]
	if !ok {
		cache.misses++
		return nil, apperr.NotFound("Cached insight")
	}
	return &value, nil
}

func (cache *memoryInsightCache) Set(_ context.Context, userID string, day civildate.Date, value *insight.Insight) error {
	cache.values[userID+":"+day.String()] = *value
	return nil
}

type staticSeedProvider struct {
	seed insight.Seed
	sign insight.ZodiacSign
}

func (provider *staticSeedProvider) Seed(_ context.Context, _ string) (insight.Seed, insight.ZodiacSign, error) {
	return provider.seed, provider.sign, nil
}

// # Fixture

type fixture struct {
	service    *reveal.Service
	dailyRepo  *memoryDailyRepository
	pointsRepo *memoryPointsRepository
	locker     *memoryLocker
	cache      *memoryInsightCache
}

func newFixture() *fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dailyRepo := newMemoryDailyRepository()
	pointsRepo := newMemoryPointsRepository()
	locker := newMemoryLocker()
	cache := newMemoryInsightCache()

	seeds := &staticSeedProvider{
		seed: insight.Seed{
			UserID:    testUserID,
			BirthDate: pointer.To(civildate.New(1990, time.May, 15)),
		},
		sign: insight.Taurus,
	}

	service := reveal.NewService(
		daily.NewService(dailyRepo, logger),
		points.NewService(pointsRepo, logger),
		seeds,
		locker,
		cache,
		time.UTC,
		logger,
	)

	return &fixture{
		service:    service,
		dailyRepo:  dailyRepo,
		pointsRepo: pointsRepo,
		locker:     locker,
		cache:      cache,
	}
}

// # Tests

/*
TestReveal_ExactlyOnce performs the first reveal of the day, then repeats
it: the second call must be a soft no-op returning the same insight.
*/
func TestReveal_ExactlyOnce(t *testing.T) {
	fix := newFixture()
	ctx := context.Background()

	first, err := fix.service.Reveal(ctx, testUserID, reveal.RevealInput{ItemID: "major-12"})
	require.NoError(t, err)
	assert.False(t, first.AlreadyRevealed)
	assert.True(t, first.State.Revealed)
	require.NotNil(t, first.State.RevealedItemID)
	assert.Equal(t, "major-12", *first.State.RevealedItemID)

	second, err := fix.service.Reveal(ctx, testUserID, reveal.RevealInput{ItemID: "major-05"})
	require.NoError(t, err)
	assert.True(t, second.AlreadyRevealed)
	assert.Equal(t, first.Insight, second.Insight, "repeat reveal must serve the same insight")
	assert.Equal(t, "major-12", *second.State.RevealedItemID, "repeat reveal must not replace the item")
}

/*
TestReveal_LockedPaymentRequired attempts a locked reveal with an empty
balance and expects a 402 carrying the unlock cost, with nothing mutated:
no ledger entry, no quota row, and the day stays pending.
*/
func TestReveal_LockedPaymentRequired(t *testing.T) {
	fix := newFixture()
	ctx := context.Background()

	_, err := fix.service.Reveal(ctx, testUserID, reveal.RevealInput{ItemID: "major-12", Locked: true})

	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "PAYMENT_REQUIRED"))

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	require.Len(t, appError.Details, 1)
	assert.Equal(t, "cost", appError.Details[0].Field)
	assert.Equal(t, "40", appError.Details[0].Message, "the response must carry the unlock price")

	assert.Empty(t, fix.pointsRepo.entries, "failed charge must not append to the ledger")
	assert.Empty(t, fix.pointsRepo.quotas, "failed charge must not consume quota")

	record, err := fix.dailyRepo.FindByUserID(ctx, testUserID)
	require.NoError(t, err)
	assert.False(t, record.HasRevealedToday, "failed charge must leave the day pending")
}

/*
TestReveal_LockedCharges funds the balance, reveals a locked item, and
verifies the spread unlock price (no free uses, 40 points) was spent.
*/
func TestReveal_LockedCharges(t *testing.T) {
	fix := newFixture()
	ctx := context.Background()

	_, err := fix.pointsRepo.Append(ctx, &points.Entry{
		ID: uuidv7.New(), UserID: testUserID, Delta: 100, Reason: points.ReasonManualAdjustment,
	})
	require.NoError(t, err)

	result, err := fix.service.Reveal(ctx, testUserID, reveal.RevealInput{ItemID: "major-12", Locked: true})

	require.NoError(t, err)
	assert.Equal(t, 40, result.Charged)
	assert.True(t, result.State.Revealed)

	balance, err := fix.pointsRepo.BalanceByUserID(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, 60, balance.Total)
	assert.Equal(t, 100, balance.Lifetime, "spending must not reduce lifetime points")
}

/*
TestReveal_LockContention verifies a held user lock turns the reveal into a
409 without touching any state.
*/
func TestReveal_LockContention(t *testing.T) {
	fix := newFixture()
	ctx := context.Background()

	_, err := fix.locker.Acquire(ctx, testUserID, time.Minute)
	require.NoError(t, err)

	_, err = fix.service.Reveal(ctx, testUserID, reveal.RevealInput{ItemID: "major-12"})

	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "CONFLICT"))
	assert.Empty(t, fix.dailyRepo.records)
}

/*
TestShuffle_RerollsAffirmationOnly reveals, shuffles twice, and verifies
each shuffle changes the affirmation while the tarot card stays fixed; the
third shuffle exceeds the budget.
*/
func TestShuffle_RerollsAffirmationOnly(t *testing.T) {
	fix := newFixture()
	ctx := context.Background()

	revealed, err := fix.service.Reveal(ctx, testUserID, reveal.RevealInput{ItemID: "major-12"})
	require.NoError(t, err)

	previous := revealed.Insight
	for shuffle := 1; shuffle <= daily.MaxAffirmationShuffles; shuffle++ {
		state, shuffled, err := fix.service.Shuffle(ctx, testUserID)
		require.NoError(t, err, "shuffle %d should be within budget", shuffle)

		assert.Equal(t, previous.TarotCardID, shuffled.TarotCardID, "shuffle must not change the card")
		assert.Equal(t, previous.HoroscopePreview, shuffled.HoroscopePreview)
		assert.NotEqual(t, previous.AffirmationIndex, shuffled.AffirmationIndex, "shuffle %d must re-roll the affirmation", shuffle)
		assert.Equal(t, daily.MaxAffirmationShuffles-shuffle, state.ShufflesRemaining)
		previous = shuffled
	}

	_, _, err = fix.service.Shuffle(ctx, testUserID)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "UNPROCESSABLE"))
}

/*
TestGetToday_ServesCache verifies the second read hits the day cache and
both reads return identical content.
*/
func TestGetToday_ServesCache(t *testing.T) {
	fix := newFixture()
	ctx := context.Background()

	_, first, err := fix.service.GetToday(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, 1, fix.cache.misses)

	state, second, err := fix.service.GetToday(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, 1, fix.cache.misses, "second read must be a cache hit")
	assert.Equal(t, first, second)
	assert.False(t, state.Revealed)
	assert.Equal(t, daily.MaxAffirmationShuffles, state.ShufflesRemaining)
}

/*
TestGetToday_RolloverYieldsToConcurrentReveal interleaves a full reveal
between GetToday's read of yesterday's record and its rollover write-back.
GetToday holds no lock, so its stale rollover must lose to the committed
reveal: the stored state keeps the reveal, GetToday reports it, and a
follow-up reveal is a soft repeat.
*/
func TestGetToday_RolloverYieldsToConcurrentReveal(t *testing.T) {
	fix := newFixture()
	ctx := context.Background()

	yesterday := civildate.FromTime(time.Now().UTC().AddDate(0, 0, -1), time.UTC)
	staleItemID := "major-09"
	fix.dailyRepo.records[testUserID] = daily.Record{
		UserID:           testUserID,
		LastResetDay:     yesterday,
		HasRevealedToday: true,
		RevealedItemID:   &staleItemID,
	}

	fix.dailyRepo.beforeUpsert = func() {
		result, err := fix.service.Reveal(ctx, testUserID, reveal.RevealInput{ItemID: "major-17"})
		require.NoError(t, err)
		require.False(t, result.AlreadyRevealed)
	}

	state, _, err := fix.service.GetToday(ctx, testUserID)
	require.NoError(t, err)
	assert.True(t, state.Revealed, "the committed reveal must win over the stale rollover")
	require.NotNil(t, state.RevealedItemID)
	assert.Equal(t, "major-17", *state.RevealedItemID)

	stored := fix.dailyRepo.records[testUserID]
	assert.True(t, stored.HasRevealedToday, "stored state must keep the committed reveal")

	repeat, err := fix.service.Reveal(ctx, testUserID, reveal.RevealInput{ItemID: "major-05"})
	require.NoError(t, err)
	assert.True(t, repeat.AlreadyRevealed, "a second reveal on the same day must be a soft repeat")
}
