// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

package daily

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arotihq/aroti-server/internal/platform/apperr"
	"github.com/arotihq/aroti-server/pkg/civildate"
)

// # Service Layer

// Service wraps the pure state machine with persistence.
//
// It owns the read path contract: every load rolls the record forward to the
// current day before it is handed to callers, so stale state cannot leak into
// reveal decisions.
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

/*
LoadCurrent fetches the user's record rolled forward to today, creating the
first-use record when none exists.

Description: The lazy rollover write is persisted immediately so concurrent
readers converge on the same day. Read paths hold no lock, so the rollover
write can lose to a reveal committed between the read and the write; the
repository refuses such writes and the committed record is re-read and
returned instead. StaleState is propagated without touching storage.

Parameters:
  - context: context.Context
  - userID: string
  - today: civildate.Date

Returns:
  - *Record: The record valid for today
  - error: apperr.StaleState or storage failures
*/
func (service *Service) LoadCurrent(context context.Context, userID string, today civildate.Date) (*Record, error) {
	record, err := service.repository.FindByUserID(context, userID)

	if err != nil {
		if !apperr.IsNotFound(err) {
			return nil, fmt.Errorf("daily_service_load_failed: %w", err)
		}

		// First use: create the Pending record for today.
		created := NewRecord(userID, today)
		if err := service.repository.Upsert(context, &created); err != nil {
			return nil, fmt.Errorf("daily_service_create_failed: %w", err)
		}

		service.logger.Info("daily_state_created",
			slog.String("user_id", userID),
			slog.String("day", today.String()),
		)
		return &created, nil
	}

	rolled, didReset, err := EnsureCurrentDay(*record, today)
	if err != nil {
		return nil, err
	}

	if didReset {
		if err := service.repository.Upsert(context, &rolled); err != nil {
			if apperr.IsCode(err, "CONFLICT") {
				// A locked writer committed today's state between our read
				// and this write; its record wins.
				return service.reload(context, userID, today)
			}
			return nil, fmt.Errorf("daily_service_rollover_failed: %w", err)
		}

		service.logger.Info("daily_state_rolled_over",
			slog.String("user_id", userID),
			slog.String("from_day", record.LastResetDay.String()),
			slog.String("to_day", today.String()),
		)
	}

	return &rolled, nil
}

// reload re-reads the record after a lost rollover race. The winner already
// moved the row to today, so no further persistence is attempted here.
func (service *Service) reload(context context.Context, userID string, today civildate.Date) (*Record, error) {
	record, err := service.repository.FindByUserID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("daily_service_reload_failed: %w", err)
	}

	rolled, _, err := EnsureCurrentDay(*record, today)
	if err != nil {
		return nil, err
	}

	return &rolled, nil
}

/*
Save persists a record mutated by the pure state machine.

Parameters:
  - context: context.Context
  - record: *Record

Returns:
  - error: Storage failures
*/
func (service *Service) Save(context context.Context, record *Record) error {
	if err := service.repository.Upsert(context, record); err != nil {
		return fmt.Errorf("daily_service_save_failed: %w", err)
	}
	return nil
}
