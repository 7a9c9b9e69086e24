// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

package points

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arotihq/aroti-server/internal/platform/apperr"
	"github.com/arotihq/aroti-server/pkg/civildate"
	"github.com/arotihq/aroti-server/pkg/pagination"
	"github.com/arotihq/aroti-server/pkg/uuidv7"
)

// # Service Layer

// Service exposes the points economy to delivery layers and to the reveal
// coordinator.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
	}
}

// Summary is the balance view served to clients: totals plus level position.
type Summary struct {
	Balance Balance   `json:"balance"`
	Level   LevelInfo `json:"level"`
}

// QuotaStatus is the client view of one feature's gating state for today.
type QuotaStatus struct {
	Feature       Feature `json:"feature"`
	FreeUses      int     `json:"free_uses"`
	FreeUsed      int     `json:"free_used"`
	CostAfterFree int     `json:"cost_after_free"`
}

// ChargeResult reports how one gated use was paid for.
type ChargeResult struct {
	// Free is true when a free quota unit covered the use.
	Free bool `json:"free"`
	// Charged is the points amount spent, zero for free uses.
	Charged int `json:"charged"`
	// Balance is the balance after the charge (unchanged for free uses).
	Balance Balance `json:"balance"`
}

/*
GetSummary returns the balance with the derived level position.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - Summary: Totals plus level info (zero-ledger users get Level 1)
  - error: Storage failures
*/
func (service *Service) GetSummary(context context.Context, userID string) (Summary, error) {
	balance, err := service.repository.BalanceByUserID(context, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("points_service_balance_failed: %w", err)
	}

	return Summary{
		Balance: balance,
		Level:   LevelFor(balance.Lifetime),
	}, nil
}

/*
Credit earns points for a user.

Parameters:
  - context: context.Context
  - userID: string
  - amount: int (must be > 0)
  - reason: string (one of the Reason* constants)

Returns:
  - Balance: The balance after the earn
  - error: apperr.ValidationError for non-positive amounts, storage failures
*/
func (service *Service) Credit(context context.Context, userID string, amount int, reason string) (Balance, error) {
	if amount <= 0 {
		return Balance{}, apperr.ValidationError("Amount must be positive",
			apperr.FieldError{Field: FieldAmount, Message: "must be greater than zero"})
	}

	entry := Entry{
		ID:     uuidv7.New(),
		UserID: userID,
		Delta:  amount,
		Reason: reason,
	}

	balance, err := service.repository.Append(context, &entry)
	if err != nil {
		return Balance{}, fmt.Errorf("points_service_credit_failed: %w", err)
	}

	service.logger.Info("points_credited",
		slog.String("user_id", userID),
		slog.Int("amount", amount),
		slog.String("reason", reason),
		slog.Int("new_total", balance.Total),
	)

	return balance, nil
}

/*
Spend deducts points from a user's balance.

Description: The non-negative balance invariant is enforced twice: here via
a balance pre-check and again inside the store's transaction, so concurrent
spends cannot overdraw.

Parameters:
  - context: context.Context
  - userID: string
  - amount: int (must be > 0)
  - reason: string

Returns:
  - Balance: The balance after the spend
  - error: apperr.ValidationError, apperr.InsufficientPoints, storage failures
*/
func (service *Service) Spend(context context.Context, userID string, amount int, reason string) (Balance, error) {
	if amount <= 0 {
		return Balance{}, apperr.ValidationError("Amount must be positive",
			apperr.FieldError{Field: FieldAmount, Message: "must be greater than zero"})
	}

	current, err := service.repository.BalanceByUserID(context, userID)
	if err != nil {
		return Balance{}, fmt.Errorf("points_service_spend_balance_failed: %w", err)
	}
	if current.Total < amount {
		return Balance{}, apperr.InsufficientPoints(amount - current.Total)
	}

	entry := Entry{
		ID:     uuidv7.New(),
		UserID: userID,
		Delta:  -amount,
		Reason: reason,
	}

	balance, err := service.repository.Append(context, &entry)
	if err != nil {
		return Balance{}, fmt.Errorf("points_service_spend_failed: %w", err)
	}

	service.logger.Info("points_spent",
		slog.String("user_id", userID),
		slog.Int("amount", amount),
		slog.String("reason", reason),
		slog.Int("new_total", balance.Total),
	)

	return balance, nil
}

/*
Transactions lists a user's ledger entries newest-first.

Parameters:
  - context: context.Context
  - userID: string
  - params: pagination.Params

Returns:
  - []Entry: One page of entries
  - int: Total count for pagination metadata
  - error: Storage failures
*/
func (service *Service) Transactions(context context.Context, userID string, params pagination.Params) ([]Entry, int, error) {
	entries, total, err := service.repository.EntriesByUserID(context, userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("points_service_transactions_failed: %w", err)
	}
	return entries, total, nil
}

/*
QuotaStatuses reports every feature's gating state as of today.

Parameters:
  - context: context.Context
  - userID: string
  - today: civildate.Date

Returns:
  - []QuotaStatus: One status per gated feature, stable feature order
  - error: Storage failures
*/
func (service *Service) QuotaStatuses(context context.Context, userID string, today civildate.Date) ([]QuotaStatus, error) {
	statuses := make([]QuotaStatus, 0, len(featureLimits))

	for _, feature := range AllFeatures() {
		limits := featureLimits[feature]

		freeUsed := 0
		quota, err := service.repository.QuotaFor(context, userID, feature)
		if err != nil && !apperr.IsNotFound(err) {
			return nil, fmt.Errorf("points_service_quota_status_failed: %w", err)
		}
		// A counter from a previous day reads as fresh.
		if quota != nil && quota.Day.Equal(today) {
			freeUsed = quota.FreeUsed
		}

		statuses = append(statuses, QuotaStatus{
			Feature:       feature,
			FreeUses:      limits.FreeUses,
			FreeUsed:      freeUsed,
			CostAfterFree: limits.CostAfterFree,
		})
	}

	return statuses, nil
}

/*
ConsumeOrCharge pays for one use of a gated feature: free quota first, then
points.

Description: The free draw and the points fallback are mutually exclusive. A
failed charge (insufficient points) leaves both the quota counter and the
ledger untouched, so retrying after earning points is safe.

Parameters:
  - context: context.Context
  - userID: string
  - feature: Feature
  - today: civildate.Date

Returns:
  - ChargeResult: Whether the use was free and what it cost
  - error: apperr.ValidationError for unknown features,
    apperr.InsufficientPoints when points cannot cover the cost,
    storage failures
*/
func (service *Service) ConsumeOrCharge(context context.Context, userID string, feature Feature, today civildate.Date) (ChargeResult, error) {
	limits, ok := LimitsFor(feature)
	if !ok {
		return ChargeResult{}, apperr.ValidationError("Unknown feature",
			apperr.FieldError{Field: FieldFeature, Message: "is not a gated feature"})
	}

	quota := NewQuota(userID, feature, today)
	if existing, err := service.repository.QuotaFor(context, userID, feature); err != nil {
		if !apperr.IsNotFound(err) {
			return ChargeResult{}, fmt.Errorf("points_service_consume_load_failed: %w", err)
		}
	} else {
		quota = *existing
	}

	result := Consume(quota, limits, today)

	if result.Free {
		if err := service.repository.UpsertQuota(context, &result.Quota); err != nil {
			return ChargeResult{}, fmt.Errorf("points_service_consume_save_failed: %w", err)
		}

		service.logger.Info("quota_free_use",
			slog.String("user_id", userID),
			slog.String("feature", string(feature)),
			slog.Int("free_used", result.Quota.FreeUsed),
			slog.Int("free_limit", limits.FreeUses),
		)

		balance, err := service.repository.BalanceByUserID(context, userID)
		if err != nil {
			return ChargeResult{}, fmt.Errorf("points_service_consume_balance_failed: %w", err)
		}
		return ChargeResult{Free: true, Balance: balance}, nil
	}

	balance, err := service.Spend(context, userID, result.Cost, ReasonFeatureCharge)
	if err != nil {
		return ChargeResult{}, err
	}

	return ChargeResult{Charged: result.Cost, Balance: balance}, nil
}
