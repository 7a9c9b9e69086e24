// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

package points

// # JSON Field Names

const (
	FieldAmount  = "amount"
	FieldReason  = "reason"
	FieldFeature = "feature"
)

// # Ledger Reasons
//
// Machine-readable events recorded on ledger entries. Clients group and
// localize transaction history by these values, so they are wire-stable.

const (
	ReasonDailyReveal       = "daily_reveal"
	ReasonDailyPractice     = "daily_practice"
	ReasonFeatureCharge     = "feature_charge"
	ReasonManualAdjustment  = "manual_adjustment"
	ReasonStreakBonus       = "streak_bonus"
	ReasonAffirmationShared = "affirmation_shared"
)
