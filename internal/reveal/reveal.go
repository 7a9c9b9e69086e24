// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

/*
Package reveal coordinates the daily reveal flow across the content
generator, the daily state tracker, and the points economy.

# Architecture

  - Orchestration: [Service] is the only writer of reveal state; it takes a
    per-user Redis lock around every check-then-act sequence so at most one
    reveal commits per (user, day).
  - Caching: Generated insights are cached in Redis for the rest of the day.
    The cache is an optimization only; every read path can recompute.
  - Payment: Locked items are paid for before any state mutates. A failed
    charge leaves the daily record, the quota, and the ledger untouched.
*/
package reveal

import (
	"context"
	"time"

	"github.com/arotihq/aroti-server/internal/insight"
	"github.com/arotihq/aroti-server/pkg/civildate"
)

// # Domain Types

// RevealInput describes the item the client is revealing today.
type RevealInput struct {
	// ItemID identifies the revealed item, e.g. a tarot card slug.
	ItemID string
	// Locked marks premium items that must be paid for (free quota first,
	// then points).
	Locked bool
}

// State is the client view of today's reveal progress.
type State struct {
	Day               civildate.Date `json:"day"`
	Revealed          bool           `json:"revealed"`
	RevealedItemID    *string        `json:"revealed_item_id,omitempty"`
	ShufflesRemaining int            `json:"shuffles_remaining"`
}

// Result is the outcome of a reveal attempt.
type Result struct {
	State   State           `json:"state"`
	Insight insight.Insight `json:"insight"`
	// AlreadyRevealed is true when today's reveal had already happened;
	// the insight returned is the one from the earlier reveal.
	AlreadyRevealed bool `json:"already_revealed"`
	// Charged is the points amount paid for a locked item, zero otherwise.
	Charged int `json:"charged"`
}

// # Infrastructure Contracts

// Locker serializes check-then-act sequences per user across instances.
type Locker interface {
	/*
		Acquire takes the named lock for at most ttl.

		Returns:
		  - string: An opaque release token
		  - error: apperr.Conflict when the lock is already held
	*/
	Acquire(context context.Context, key string, ttl time.Duration) (string, error)

	/*
		Release frees the lock if the token still owns it.

		Description: A lock lost to TTL expiry is not an error.
	*/
	Release(context context.Context, key string, token string) error
}

// InsightCache stores generated insights for the rest of the calendar day.
type InsightCache interface {
	/*
		Get retrieves the cached insight for a (user, day) pair.

		Returns:
		  - *insight.Insight: Hydrated insight
		  - error: apperr.NotFound on cache miss
	*/
	Get(context context.Context, userID string, day civildate.Date) (*insight.Insight, error)

	/*
		Set overwrites the cached insight for a (user, day) pair.
	*/
	Set(context context.Context, userID string, day civildate.Date, value *insight.Insight) error
}

// SeedProvider supplies the identity inputs of the content generator.
type SeedProvider interface {
	/*
		Seed returns the generator seed and the user's zodiac sign fallback.

		Description: The fallback sign is used when the profile has no birth
		date to derive a sign from.

		Returns:
		  - insight.Seed: Identity seed (birth data may be nil)
		  - insight.ZodiacSign: Default sign for users without birth data
		  - error: apperr.NotFound for unknown users
	*/
	Seed(context context.Context, userID string) (insight.Seed, insight.ZodiacSign, error)
}
