// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

/*
Package daily (Postgres) implements the storage layer for daily state records.

# Schema Table Mapping
  - engagement.dailystate: One row per user; upserted on rollover and reveal.
*/
package daily

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arotihq/aroti-server/internal/platform/apperr"
	"github.com/arotihq/aroti-server/internal/platform/database/schema"
	"github.com/arotihq/aroti-server/pkg/civildate"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Postgres implementation for daily state.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
FindByUserID retrieves a user's daily state row.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Record: Hydrated record
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresRepository) FindByUserID(context context.Context, userID string) (*Record, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.DailyState.UserID, schema.DailyState.LastResetDay,
		schema.DailyState.HasRevealedToday, schema.DailyState.RevealedItemID,
		schema.DailyState.AffirmationShuffles, schema.DailyState.CreatedAt,
		schema.DailyState.UpdatedAt,
		schema.DailyState.Table, schema.DailyState.UserID,
	)

	record := &Record{}
	var lastResetDay time.Time

	err := repository.pool.QueryRow(context, query, userID).Scan(
		&record.UserID,
		&lastResetDay,
		&record.HasRevealedToday,
		&record.RevealedItemID,
		&record.AffirmationShuffles,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Daily state")
		}
		return nil, fmt.Errorf("postgres_daily_repo_find_failed: %w", err)
	}

	// The column is a DATE; the stored value is already day-precise.
	record.LastResetDay = civildate.FromTime(lastResetDay, time.UTC)

	return record, nil
}

/*
Upsert saves a daily state record, creating the row on first use.

Description: The conflict update carries a guard clause so a rollover
computed from a stale read cannot clear a reveal committed in between. The
guard admits writes that move the day forward, writes that carry the
Revealed state, and any write over a still-pending row; everything else is
refused with apperr.Conflict and zero rows touched.

Parameters:
  - context: context.Context
  - record: *Record

Returns:
  - error: apperr.Conflict when the write lost to a concurrent committed
    reveal, otherwise storage failures
*/
func (repository *PostgresRepository) Upsert(context context.Context, record *Record) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = NOW()
		WHERE dailystate.%s < EXCLUDED.%s
			OR EXCLUDED.%s
			OR NOT dailystate.%s`,
		schema.DailyState.Table,
		schema.DailyState.UserID, schema.DailyState.LastResetDay,
		schema.DailyState.HasRevealedToday, schema.DailyState.RevealedItemID,
		schema.DailyState.AffirmationShuffles, schema.DailyState.CreatedAt,
		schema.DailyState.UpdatedAt,
		schema.DailyState.UserID,
		schema.DailyState.LastResetDay, schema.DailyState.LastResetDay,
		schema.DailyState.HasRevealedToday, schema.DailyState.HasRevealedToday,
		schema.DailyState.RevealedItemID, schema.DailyState.RevealedItemID,
		schema.DailyState.AffirmationShuffles, schema.DailyState.AffirmationShuffles,
		schema.DailyState.UpdatedAt,
		schema.DailyState.LastResetDay, schema.DailyState.LastResetDay,
		schema.DailyState.HasRevealedToday,
		schema.DailyState.HasRevealedToday,
	)

	tag, err := repository.pool.Exec(context, query,
		record.UserID,
		record.LastResetDay.ToTime(time.UTC),
		record.HasRevealedToday,
		record.RevealedItemID,
		record.AffirmationShuffles,
	)

	if err != nil {
		return fmt.Errorf("postgres_daily_repo_upsert_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.Conflict("Daily state was committed concurrently")
	}

	return nil
}
