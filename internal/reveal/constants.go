// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

package reveal

import "time"

// # Coordination Constraints

const (
	// RevealLockTTL bounds how long a crashed instance can hold a user's
	// reveal lock.
	RevealLockTTL = 10 * time.Second

	// InsightCacheTTL keeps a generated insight around for the rest of the
	// day. Determinism makes staleness harmless: a recompute after expiry
	// yields the same insight.
	InsightCacheTTL = 24 * time.Hour
)

// # JSON Field Names

const (
	FieldItemID = "item_id"
)
