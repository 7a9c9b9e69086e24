// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

/*
Package points implements the points economy: an append-only ledger with a
derived balance, per-feature free-use quotas, and the level progression
derived from lifetime earnings.

# Architecture

  - Ledger: Entry rows are append-only; a balance is always derivable as
    SUM(delta) over a user's entries. The store keeps a cached running total
    for cheap reads and falls back to recomputation when the cache drifts.
  - Quota: day-scoped free-use counters per feature; the reveal flow draws a
    free unit first and charges points only when the quota is exhausted.
  - Purity: BalanceOf, Credit, Spend, Consume, and LevelFor are pure over
    their inputs; persistence lives behind [Repository].

# Invariants

  - Total never goes negative: Spend refuses before appending.
  - Lifetime is the sum of positive deltas only; spending never reduces it.
*/
package points

import (
	"context"
	"time"

	"github.com/arotihq/aroti-server/internal/platform/apperr"
	"github.com/arotihq/aroti-server/pkg/civildate"
	"github.com/arotihq/aroti-server/pkg/pagination"
	"github.com/arotihq/aroti-server/pkg/uuidv7"
)

// # Domain Entities

// Entry is one immutable ledger row. Delta is positive for earns and
// negative for spends.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Delta     int       `json:"delta"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// Balance is the derived view over a user's ledger.
type Balance struct {
	// Total is the spendable balance: sum of all deltas.
	Total int `json:"total"`
	// Lifetime is the sum of positive deltas only. It drives levels and
	// never decreases.
	Lifetime int `json:"lifetime"`
}

// Feature identifies a gated capability with its own free-use quota.
type Feature string

const (
	FeatureAIChat        Feature = "ai_chat"
	FeatureDailyPractice Feature = "daily_practice"
	FeatureCompatibility Feature = "compatibility"
	FeatureSpreadUnlock  Feature = "spread_unlock"
)

// Limits is the static gating policy for one feature.
type Limits struct {
	// FreeUses is the number of uses per calendar day before points are charged.
	FreeUses int `json:"free_uses"`
	// CostAfterFree is the points price of each use past the free quota.
	CostAfterFree int `json:"cost_after_free"`
}

// featureLimits is the gating table. Order-independent; keyed by feature.
var featureLimits = map[Feature]Limits{
	FeatureAIChat:        {FreeUses: 3, CostAfterFree: 20},
	FeatureDailyPractice: {FreeUses: 1, CostAfterFree: 10},
	FeatureCompatibility: {FreeUses: 1, CostAfterFree: 50},
	FeatureSpreadUnlock:  {FreeUses: 0, CostAfterFree: 40},
}

// LimitsFor returns the gating policy for a feature.
func LimitsFor(feature Feature) (Limits, bool) {
	limits, ok := featureLimits[feature]
	return limits, ok
}

// AllFeatures returns every gated feature in a stable order.
func AllFeatures() []Feature {
	return []Feature{FeatureAIChat, FeatureDailyPractice, FeatureCompatibility, FeatureSpreadUnlock}
}

// Quota is the persisted per-user, per-feature free-use counter for one day.
type Quota struct {
	UserID   string         `json:"user_id"`
	Feature  Feature        `json:"feature"`
	Day      civildate.Date `json:"day"`
	FreeUsed int            `json:"free_used"`
}

// NewQuota returns the fresh counter for a (user, feature) pair as of today.
func NewQuota(userID string, feature Feature, today civildate.Date) Quota {
	return Quota{UserID: userID, Feature: feature, Day: today}
}

// # Pure Ledger Core

// BalanceOf folds a ledger slice into its derived balance.
func BalanceOf(entries []Entry) Balance {
	var balance Balance
	for _, entry := range entries {
		balance.Total += entry.Delta
		if entry.Delta > 0 {
			balance.Lifetime += entry.Delta
		}
	}
	return balance
}

/*
Credit appends a positive ledger entry.

Parameters:
  - entries: []Entry (current ledger, oldest first)
  - userID: string
  - amount: int (must be > 0)
  - reason: string (machine-readable event, e.g. "daily_reveal")

Returns:
  - []Entry: The ledger with the new entry appended
  - Entry: The appended entry
  - error: apperr.ValidationError when amount <= 0
*/
func Credit(entries []Entry, userID string, amount int, reason string) ([]Entry, Entry, error) {
	if amount <= 0 {
		return entries, Entry{}, apperr.ValidationError("Amount must be positive",
			apperr.FieldError{Field: FieldAmount, Message: "must be greater than zero"})
	}

	entry := Entry{
		ID:        uuidv7.New(),
		UserID:    userID,
		Delta:     amount,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	return append(entries, entry), entry, nil
}

/*
Spend appends a negative ledger entry after checking the balance.

Description: On failure the input ledger is returned unchanged; a failed
spend never leaves a trace.

Parameters:
  - entries: []Entry
  - userID: string
  - amount: int (must be > 0; recorded as a negative delta)
  - reason: string

Returns:
  - []Entry: The ledger with the spend appended
  - Entry: The appended entry
  - error: apperr.ValidationError when amount <= 0,
    apperr.InsufficientPoints when the balance cannot cover the amount
*/
func Spend(entries []Entry, userID string, amount int, reason string) ([]Entry, Entry, error) {
	if amount <= 0 {
		return entries, Entry{}, apperr.ValidationError("Amount must be positive",
			apperr.FieldError{Field: FieldAmount, Message: "must be greater than zero"})
	}

	balance := BalanceOf(entries)
	if balance.Total < amount {
		return entries, Entry{}, apperr.InsufficientPoints(amount - balance.Total)
	}

	entry := Entry{
		ID:        uuidv7.New(),
		UserID:    userID,
		Delta:     -amount,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	return append(entries, entry), entry, nil
}

// # Quota Core

// ConsumeResult reports the outcome of drawing one use of a gated feature.
type ConsumeResult struct {
	// Quota is the counter after the draw (rolled to today when stale).
	Quota Quota
	// Free is true when a free unit covered the use.
	Free bool
	// Cost is the points price due when Free is false, zero otherwise.
	Cost int
}

/*
Consume draws one use of a feature against its daily free quota.

Description: The counter resets lazily when its Day is behind today. Free
units are always drawn before points are charged; when the quota is
exhausted the result carries the points cost and the counter is unchanged.

Parameters:
  - quota: Quota (current counter; zero value allowed for first use)
  - limits: Limits (the feature's gating policy)
  - today: civildate.Date

Returns:
  - ConsumeResult: Updated counter plus the free/cost outcome
*/
func Consume(quota Quota, limits Limits, today civildate.Date) ConsumeResult {
	if !quota.Day.Equal(today) {
		quota.Day = today
		quota.FreeUsed = 0
	}

	if quota.FreeUsed < limits.FreeUses {
		quota.FreeUsed++
		return ConsumeResult{Quota: quota, Free: true}
	}

	return ConsumeResult{Quota: quota, Free: false, Cost: limits.CostAfterFree}
}

// # Level Progression

// LevelInfo describes a user's position in the level ladder.
type LevelInfo struct {
	Level         int    `json:"level"`
	Name          string `json:"name"`
	NextLevel     int    `json:"next_level"`
	NextThreshold int    `json:"next_threshold"`
	PointsToNext  int    `json:"points_to_next"`
}

// levelThresholds maps cumulative lifetime points to level names.
// Append-only: inserting a tier in the middle would renumber user levels.
var levelThresholds = []struct {
	Points int
	Name   string
}{
	{0, "Welcome"},
	{100, "Seeker"},
	{300, "Explorer"},
	{600, "Oracle"},
	{1000, "Master"},
	{2000, "Sage"},
	{3000, "Enlightened"},
}

/*
LevelFor derives the level position from lifetime points.

Description: Levels are 1-indexed. Past the final tier, NextLevel equals the
current level and PointsToNext is zero.

Parameters:
  - lifetime: int (sum of positive ledger deltas)

Returns:
  - LevelInfo: Current level, name, and distance to the next tier
*/
func LevelFor(lifetime int) LevelInfo {
	info := LevelInfo{
		Level:         1,
		Name:          levelThresholds[0].Name,
		NextLevel:     2,
		NextThreshold: levelThresholds[1].Points,
		PointsToNext:  levelThresholds[1].Points,
	}

	for index, tier := range levelThresholds {
		if lifetime < tier.Points {
			break
		}

		info.Level = index + 1
		info.Name = tier.Name

		if index+1 < len(levelThresholds) {
			info.NextLevel = index + 2
			info.NextThreshold = levelThresholds[index+1].Points
			info.PointsToNext = max(0, info.NextThreshold-lifetime)
		} else {
			info.NextLevel = info.Level
			info.NextThreshold = tier.Points
			info.PointsToNext = 0
		}
	}

	return info
}

// # Repository Contract

// Repository defines the persistence contract for the points economy.
type Repository interface {
	/*
		Append atomically inserts a ledger entry and refreshes the cached
		balance row.

		Parameters:
		  - context: context.Context
		  - entry: *Entry

		Returns:
		  - Balance: The balance after the append
		  - error: Storage failures
	*/
	Append(context context.Context, entry *Entry) (Balance, error)

	/*
		BalanceByUserID reads the cached balance, verifying it against the
		ledger sum.

		Returns:
		  - Balance: Zero value for users with no ledger activity
		  - error: Storage failures
	*/
	BalanceByUserID(context context.Context, userID string) (Balance, error)

	/*
		EntriesByUserID lists ledger entries newest-first.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - params: pagination.Params

		Returns:
		  - []Entry: One page of entries
		  - int: Total entry count for pagination metadata
		  - error: Storage failures
	*/
	EntriesByUserID(context context.Context, userID string, params pagination.Params) ([]Entry, int, error)

	/*
		QuotaFor retrieves the free-use counter for a (user, feature) pair.

		Returns:
		  - *Quota: Hydrated counter
		  - error: apperr.NotFound when the pair has no counter yet
	*/
	QuotaFor(context context.Context, userID string, feature Feature) (*Quota, error)

	/*
		UpsertQuota saves a free-use counter, creating the row on first use.

		Returns:
		  - error: Storage failures
	*/
	UpsertQuota(context context.Context, quota *Quota) error
}
