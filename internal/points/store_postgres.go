// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

/*
Package points (Postgres) implements the storage layer for the points economy.

# Schema Table Mapping
  - engagement.pointsledger: Append-only entry rows; never updated or deleted.
  - engagement.pointsbalance: Cached running totals, refreshed in the same
    transaction as every append and verified against SUM(delta) on reads.
  - engagement.featurequota: Day-scoped free-use counters per feature.
*/
package points

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
	"github.com/arotihq/aroti-server/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Postgres implementation for the points economy.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Append atomically inserts a ledger entry and refreshes the cached balance.

Description: The insert and the balance upsert share one transaction. The
balance update is conditional: a spend that would drive the cached total
negative rolls the whole transaction back, so the non-negative invariant
holds even under concurrent spends that passed the service-level pre-check.

Parameters:
  - context: context.Context
  - entry: *Entry (CreatedAt is assigned by the database)

Returns:
  - Balance: The balance after the append
  - error: apperr.InsufficientPoints on a guarded overdraw, storage failures
*/
func (repository *PostgresRepository) Append(context context.Context, entry *Entry) (Balance, error) {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return Balance{}, fmt.Errorf("postgres_points_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING %s`,
		schema.PointsLedger.Table,
		schema.PointsLedger.ID, schema.PointsLedger.UserID,
		schema.PointsLedger.Delta, schema.PointsLedger.Reason,
		schema.PointsLedger.CreatedAt,
		schema.PointsLedger.CreatedAt,
	)

	err = transaction.QueryRow(context, insert,
		entry.ID, entry.UserID, entry.Delta, entry.Reason,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return Balance{}, fmt.Errorf("postgres_points_repo_insert_failed: %w", err)
	}

	// GREATEST(delta, 0) keeps lifetime earn-only.
	upsert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, GREATEST($2, 0), NOW())
		ON CONFLICT (%s) DO UPDATE SET
			%s = %s.%s + $2,
			%s = %s.%s + GREATEST($2, 0),
			%s = NOW()
		WHERE %s.%s + $2 >= 0
		RETURNING %s, %s`,
		schema.PointsBalance.Table,
		schema.PointsBalance.UserID, schema.PointsBalance.Total,
		schema.PointsBalance.Lifetime, schema.PointsBalance.UpdatedAt,
		schema.PointsBalance.UserID,
		schema.PointsBalance.Total, schema.PointsBalance.Table, schema.PointsBalance.Total,
		schema.PointsBalance.Lifetime, schema.PointsBalance.Table, schema.PointsBalance.Lifetime,
		schema.PointsBalance.UpdatedAt,
		schema.PointsBalance.Table, schema.PointsBalance.Total,
		schema.PointsBalance.Total, schema.PointsBalance.Lifetime,
	)

	var balance Balance
	err = transaction.QueryRow(context, upsert, entry.UserID, entry.Delta).Scan(&balance.Total, &balance.Lifetime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The conditional update skipped the row: overdraw.
			return Balance{}, apperr.InsufficientPoints(-entry.Delta)
		}
		return Balance{}, fmt.Errorf("postgres_points_repo_balance_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return Balance{}, fmt.Errorf("postgres_points_repo_commit_failed: %w", err)
	}

	return balance, nil
}

/*
BalanceByUserID reads the cached balance, verifying it against the ledger.

Description: The cached row is compared with SUM(delta) in a single query.
On drift (a partial restore, a manual fixup) the ledger wins: the cache is
rewritten from the recomputed sums before returning.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - Balance: Zero value for users with no ledger activity
  - error: Storage failures
*/
func (repository *PostgresRepository) BalanceByUserID(context context.Context, userID string) (Balance, error) {
	query := fmt.Sprintf(`
		SELECT
			COALESCE(b.%s, 0),
			COALESCE(b.%s, 0),
			COALESCE(SUM(l.%s), 0),
			COALESCE(SUM(GREATEST(l.%s, 0)), 0)
		FROM %s l
		LEFT JOIN %s b ON b.%s = l.%s
		WHERE l.%s = $1
		GROUP BY b.%s, b.%s`,
		schema.PointsBalance.Total, schema.PointsBalance.Lifetime,
		schema.PointsLedger.Delta, schema.PointsLedger.Delta,
		schema.PointsLedger.Table,
		schema.PointsBalance.Table, schema.PointsBalance.UserID, schema.PointsLedger.UserID,
		schema.PointsLedger.UserID,
		schema.PointsBalance.Total, schema.PointsBalance.Lifetime,
	)

	var cached, recomputed Balance
	err := repository.pool.QueryRow(context, query, userID).Scan(
		&cached.Total, &cached.Lifetime,
		&recomputed.Total, &recomputed.Lifetime,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Balance{}, nil
		}
		return Balance{}, fmt.Errorf("postgres_points_repo_read_failed: %w", err)
	}

	if cached == recomputed {
		return cached, nil
	}

	if err := repository.rewriteBalance(context, userID, recomputed); err != nil {
		return Balance{}, err
	}
	return recomputed, nil
}

// rewriteBalance overwrites the cached balance row with ledger-derived sums.
func (repository *PostgresRepository) rewriteBalance(context context.Context, userID string, balance Balance) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = NOW()`,
		schema.PointsBalance.Table,
		schema.PointsBalance.UserID, schema.PointsBalance.Total,
		schema.PointsBalance.Lifetime, schema.PointsBalance.UpdatedAt,
		schema.PointsBalance.UserID,
		schema.PointsBalance.Total, schema.PointsBalance.Total,
		schema.PointsBalance.Lifetime, schema.PointsBalance.Lifetime,
		schema.PointsBalance.UpdatedAt,
	)

	if _, err := repository.pool.Exec(context, query, userID, balance.Total, balance.Lifetime); err != nil {
		return fmt.Errorf("postgres_points_repo_rewrite_failed: %w", err)
	}
	return nil
}

/*
EntriesByUserID lists ledger entries newest-first with pagination.

Parameters:
  - context: context.Context
  - userID: string
  - params: pagination.Params

Returns:
  - []Entry: One page of entries
  - int: Total entry count
  - error: Storage failures
*/
func (repository *PostgresRepository) EntriesByUserID(context context.Context, userID string, params pagination.Params) ([]Entry, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.PointsLedger.Table, schema.PointsLedger.UserID)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_points_repo_count_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3`,
		schema.PointsLedger.ID, schema.PointsLedger.UserID,
		schema.PointsLedger.Delta, schema.PointsLedger.Reason,
		schema.PointsLedger.CreatedAt,
		schema.PointsLedger.Table,
		schema.PointsLedger.UserID,
		schema.PointsLedger.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, userID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_points_repo_list_failed: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Delta, &entry.Reason, &entry.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("postgres_points_repo_scan_failed: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_points_repo_rows_failed: %w", err)
	}

	return entries, total, nil
}

/*
QuotaFor retrieves the free-use counter for a (user, feature) pair.

Parameters:
  - context: context.Context
  - userID: string
  - feature: Feature

Returns:
  - *Quota: Hydrated counter
  - error: apperr.NotFound when the pair has no counter yet
*/
func (repository *PostgresRepository) QuotaFor(context context.Context, userID string, feature Feature) (*Quota, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2`,
		schema.FeatureQuota.UserID, schema.FeatureQuota.Feature,
		schema.FeatureQuota.Day, schema.FeatureQuota.FreeUsed,
		schema.FeatureQuota.Table,
		schema.FeatureQuota.UserID, schema.FeatureQuota.Feature,
	)

	quota := &Quota{}
	var day time.Time

	err := repository.pool.QueryRow(context, query, userID, string(feature)).Scan(
		&quota.UserID, &quota.Feature, &day, &quota.FreeUsed,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Feature quota")
		}
		return nil, fmt.Errorf("postgres_points_repo_quota_find_failed: %w", err)
	}

	quota.Day = civildate.FromTime(day, time.UTC)

	return quota, nil
}

/*
UpsertQuota saves a free-use counter, creating the row on first use.

Parameters:
  - context: context.Context
  - quota: *Quota

Returns:
  - error: Storage failures
*/
func (repository *PostgresRepository) UpsertQuota(context context.Context, quota *Quota) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (%s, %s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s`,
		schema.FeatureQuota.Table,
		schema.FeatureQuota.UserID, schema.FeatureQuota.Feature,
		schema.FeatureQuota.Day, schema.FeatureQuota.FreeUsed,
		schema.FeatureQuota.UserID, schema.FeatureQuota.Feature,
		schema.FeatureQuota.Day, schema.FeatureQuota.Day,
		schema.FeatureQuota.FreeUsed, schema.FeatureQuota.FreeUsed,
	)

	_, err := repository.pool.Exec(context, query,
		quota.UserID, string(quota.Feature), quota.Day.ToTime(time.UTC), quota.FreeUsed,
	)

	if err != nil {
		return fmt.Errorf("postgres_points_repo_quota_upsert_failed: %w", err)
	}

	return nil
}
