// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

package reveal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arotihq/aroti-server/internal/daily"
	"github.com/arotihq/aroti-server/internal/insight"
	"github.com/arotihq/aroti-server/internal/platform/apperr"
	"github.com/arotihq/aroti-server/internal/points"
	"github.com/arotihq/aroti-server/pkg/civildate"
)

// # Service Layer

// Service orchestrates the daily reveal flow.
type Service struct {
	dailyService  *daily.Service
	pointsService *points.Service
	seeds         SeedProvider
	locker        Locker
	cache         InsightCache
	timezone      *time.Location
	logger        *slog.Logger
}

// NewService constructs a new [Service].
//
// The timezone defines the service-wide calendar day; all rollover and
// quota decisions use it.
func NewService(
	dailyService *daily.Service,
	pointsService *points.Service,
	seeds SeedProvider,
	locker Locker,
	cache InsightCache,
	timezone *time.Location,
	logger *slog.Logger,
) *Service {
	return &Service{
		dailyService:  dailyService,
		pointsService: pointsService,
		seeds:         seeds,
		locker:        locker,
		cache:         cache,
		timezone:      timezone,
		logger:        logger,
	}
}

/*
GetToday returns today's insight and reveal state without mutating anything
except a lazy day rollover.

Description: The insight is served from the Redis day cache when present
and recomputed (then re-cached) on a miss. Recomputation is always safe:
generation is deterministic over (user, day).

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - State: Today's reveal progress
  - insight.Insight: Today's generated content
  - error: apperr.NotFound for unknown users, apperr.StaleState for
    future-dated records, storage failures
*/
func (service *Service) GetToday(context context.Context, userID string) (State, insight.Insight, error) {
	today := civildate.Today(service.timezone)

	record, err := service.dailyService.LoadCurrent(context, userID, today)
	if err != nil {
		return State{}, insight.Insight{}, err
	}

	value, err := service.currentInsight(context, userID, today, record.AffirmationShuffles)
	if err != nil {
		return State{}, insight.Insight{}, err
	}

	return stateOf(record, today), value, nil
}

/*
Reveal performs today's reveal for the user.

Description: The whole sequence runs under a per-user lock, so concurrent
requests cannot both commit. A repeat call on the same day is a soft
outcome: the result carries AlreadyRevealed with the insight from the
earlier reveal and no error. Locked items are paid for (free quota first,
then points) before any reveal state is written.

Parameters:
  - context: context.Context
  - userID: string
  - input: RevealInput

Returns:
  - Result: Reveal state, insight, and the points charged (if any)
  - error: apperr.Conflict when another request holds the lock,
    apperr.PaymentRequired (carrying the unlock cost) when a locked item
    cannot be paid for, apperr.StaleState, storage failures
*/
func (service *Service) Reveal(context context.Context, userID string, input RevealInput) (Result, error) {
	token, err := service.locker.Acquire(context, userID, RevealLockTTL)
	if err != nil {
		return Result{}, err
	}
	defer service.locker.Release(context, userID, token)

	today := civildate.Today(service.timezone)

	record, err := service.dailyService.LoadCurrent(context, userID, today)
	if err != nil {
		return Result{}, err
	}

	if record.HasRevealedToday {
		value, err := service.currentInsight(context, userID, today, record.AffirmationShuffles)
		if err != nil {
			return Result{}, err
		}
		return Result{
			State:           stateOf(record, today),
			Insight:         value,
			AlreadyRevealed: true,
		}, nil
	}

	charged := 0
	if input.Locked {
		charge, err := service.pointsService.ConsumeOrCharge(context, userID, points.FeatureSpreadUnlock, today)
		if err != nil {
			if apperr.IsCode(err, "INSUFFICIENT_POINTS") {
				limits, _ := points.LimitsFor(points.FeatureSpreadUnlock)
				return Result{}, apperr.PaymentRequired("Not enough points to unlock this item", limits.CostAfterFree)
			}
			return Result{}, err
		}
		charged = charge.Charged
	}

	updated, err := daily.CommitReveal(*record, today, input.ItemID)
	if err != nil {
		return Result{}, err
	}
	if err := service.dailyService.Save(context, &updated); err != nil {
		return Result{}, err
	}

	value, err := service.generateAndCache(context, userID, today, updated.AffirmationShuffles)
	if err != nil {
		return Result{}, err
	}

	service.logger.Info("daily_revealed",
		slog.String("user_id", userID),
		slog.String("day", today.String()),
		slog.String("item_id", input.ItemID),
		slog.Bool("locked", input.Locked),
		slog.Int("charged", charged),
	)

	return Result{
		State:   stateOf(&updated, today),
		Insight: value,
		Charged: charged,
	}, nil
}

/*
Shuffle re-rolls today's affirmation within the daily shuffle budget.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - State: Reveal progress with the shuffle counted
  - insight.Insight: Content with the re-rolled affirmation
  - error: apperr.Conflict for a concurrent request, apperr.Unprocessable
    when the budget is exhausted, storage failures
*/
func (service *Service) Shuffle(context context.Context, userID string) (State, insight.Insight, error) {
	token, err := service.locker.Acquire(context, userID, RevealLockTTL)
	if err != nil {
		return State{}, insight.Insight{}, err
	}
	defer service.locker.Release(context, userID, token)

	today := civildate.Today(service.timezone)

	record, err := service.dailyService.LoadCurrent(context, userID, today)
	if err != nil {
		return State{}, insight.Insight{}, err
	}

	updated, err := daily.CommitShuffle(*record, today)
	if err != nil {
		return State{}, insight.Insight{}, err
	}
	if err := service.dailyService.Save(context, &updated); err != nil {
		return State{}, insight.Insight{}, err
	}

	value, err := service.generateAndCache(context, userID, today, updated.AffirmationShuffles)
	if err != nil {
		return State{}, insight.Insight{}, err
	}

	service.logger.Info("affirmation_shuffled",
		slog.String("user_id", userID),
		slog.String("day", today.String()),
		slog.Int("shuffles_used", updated.AffirmationShuffles),
	)

	return stateOf(&updated, today), value, nil
}

// # Internals

// currentInsight serves the day cache, regenerating on a miss.
func (service *Service) currentInsight(context context.Context, userID string, today civildate.Date, shuffles int) (insight.Insight, error) {
	if cached, err := service.cache.Get(context, userID, today); err == nil {
		return *cached, nil
	} else if !apperr.IsNotFound(err) {
		service.logger.Warn("insight_cache_read_failed", slog.String("user_id", userID), slog.Any("error", err))
	}

	return service.generateAndCache(context, userID, today, shuffles)
}

// generateAndCache recomputes today's insight and overwrites the day cache.
func (service *Service) generateAndCache(context context.Context, userID string, today civildate.Date, shuffles int) (insight.Insight, error) {
	seed, defaultSign, err := service.seeds.Seed(context, userID)
	if err != nil {
		return insight.Insight{}, fmt.Errorf("reveal_service_seed_failed: %w", err)
	}

	value := insight.GenerateShuffled(seed, today, defaultSign, shuffles)

	// Best effort: a cache write failure never fails the request.
	if err := service.cache.Set(context, userID, today, &value); err != nil {
		service.logger.Warn("insight_cache_write_failed", slog.String("user_id", userID), slog.Any("error", err))
	}

	return value, nil
}

// stateOf projects a daily record into the client-facing reveal state.
func stateOf(record *daily.Record, today civildate.Date) State {
	remaining := daily.MaxAffirmationShuffles - record.AffirmationShuffles
	if remaining < 0 {
		remaining = 0
	}

	return State{
		Day:               today,
		Revealed:          record.HasRevealedToday,
		RevealedItemID:    record.RevealedItemID,
		ShufflesRemaining: remaining,
	}
}
