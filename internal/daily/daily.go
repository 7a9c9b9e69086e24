// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

/*
Package daily tracks the once-per-day reveal state machine for each user.

A user's record moves between two states per calendar day: Pending (nothing
revealed yet) and Revealed. The record resets lazily at local-day rollover:
there is no background timer — every read path calls [EnsureCurrentDay]
first, so a day boundary crossed while the client was away is detected on
the next access.

# Architecture

  - Entities: Record (persisted, one row per user).
  - Purity: EnsureCurrentDay, CommitReveal, and CommitShuffle are pure over
    their inputs; persistence is the caller's responsibility via [Repository].
  - Invariants: HasRevealedToday implies RevealedItemID != nil;
    LastResetDay never moves backwards in real time.
*/
package daily

import (
	"context"
	"time"

	"github.com/arotihq/aroti-server/internal/platform/apperr"
	"github.com/arotihq/aroti-server/pkg/civildate"
)

// MaxAffirmationShuffles is the number of affirmation re-rolls allowed per day.
const MaxAffirmationShuffles = 2

// # Domain Entities

// Record is the persisted per-user daily state.
type Record struct {
	UserID string `json:"user_id"`

	// LastResetDay is the calendar day this record was last reset for.
	// Monotonically non-decreasing: EnsureCurrentDay only ever moves it
	// forward, and a future value is surfaced as StaleState, never clobbered.
	LastResetDay civildate.Date `json:"last_reset_day"`

	// HasRevealedToday reports whether the daily reveal happened on
	// LastResetDay. When true, RevealedItemID is always non-nil.
	HasRevealedToday bool `json:"has_revealed_today"`

	// RevealedItemID is the identifier of the revealed item (e.g. a card
	// position), nil while the day is still Pending.
	RevealedItemID *string `json:"revealed_item_id,omitempty"`

	// AffirmationShuffles counts affirmation re-rolls used on LastResetDay.
	AffirmationShuffles int `json:"affirmation_shuffles"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRecord returns the first-use record for a user: Pending as of today.
func NewRecord(userID string, today civildate.Date) Record {
	return Record{
		UserID:       userID,
		LastResetDay: today,
	}
}

// # State Machine

/*
EnsureCurrentDay rolls the record forward to today if a day boundary has
passed, performing a hard reset to the Pending state.

Description: Idempotent — applying it twice with the same today equals
applying it once. A record whose LastResetDay is in the future (device or
server clock skew) is returned unchanged alongside apperr.StaleState: a
legitimate reveal must never be silently discarded.

Parameters:
  - record: Record (current persisted state)
  - today: civildate.Date (the current calendar day in the service zone)

Returns:
  - Record: The record valid for today
  - bool: True when the record was reset (caller should persist it)
  - error: apperr.StaleState when LastResetDay is after today
*/
func EnsureCurrentDay(record Record, today civildate.Date) (Record, bool, error) {
	if record.LastResetDay.Equal(today) {
		return record, false, nil
	}

	if record.LastResetDay.After(today) {
		return record, false, apperr.StaleState(
			"Daily state is dated in the future; check the device clock")
	}

	record.LastResetDay = today
	record.HasRevealedToday = false
	record.RevealedItemID = nil
	record.AffirmationShuffles = 0
	return record, true, nil
}

/*
CommitReveal transitions the record from Pending to Revealed for today.

Parameters:
  - record: Record (must already be rolled forward via EnsureCurrentDay)
  - today: civildate.Date
  - itemID: string (the revealed item, e.g. a card position)

Returns:
  - Record: The Revealed record
  - error: apperr.AlreadyRevealed if today's reveal already happened,
    apperr.StaleState propagated from the implicit day check
*/
func CommitReveal(record Record, today civildate.Date, itemID string) (Record, error) {
	record, _, err := EnsureCurrentDay(record, today)
	if err != nil {
		return record, err
	}

	if record.HasRevealedToday {
		return record, apperr.AlreadyRevealed()
	}

	record.HasRevealedToday = true
	record.RevealedItemID = &itemID
	record.LastResetDay = today
	return record, nil
}

/*
CommitShuffle consumes one affirmation shuffle for today.

Returns:
  - Record: The record with the shuffle counted
  - error: apperr.RateLimited-style Unprocessable when the daily shuffle
    budget is exhausted, or apperr.StaleState from the day check
*/
func CommitShuffle(record Record, today civildate.Date) (Record, error) {
	record, _, err := EnsureCurrentDay(record, today)
	if err != nil {
		return record, err
	}

	if record.AffirmationShuffles >= MaxAffirmationShuffles {
		return record, apperr.Unprocessable("No affirmation shuffles left for today")
	}

	record.AffirmationShuffles++
	return record, nil
}

// # Repository Contract

// Repository defines the persistence contract for daily state records.
type Repository interface {
	/*
		FindByUserID retrieves the daily state record for a user.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - *Record: Hydrated record
		  - error: apperr.NotFound when the user has no record yet
	*/
	FindByUserID(context context.Context, userID string) (*Record, error)

	/*
		Upsert saves the record, creating the row on first use.

		Description: A write that would clear a committed reveal for the
		stored day is refused: read paths persist day rollovers without a
		lock, so a rollover computed from a stale read must never erase a
		reveal committed in between. Writes that move the day forward, or
		that carry the Revealed state themselves, always apply.

		Parameters:
		  - context: context.Context
		  - record: *Record

		Returns:
		  - error: apperr.Conflict when the write lost to a concurrent
		    committed reveal, otherwise storage failures
	*/
	Upsert(context context.Context, record *Record) error
}
