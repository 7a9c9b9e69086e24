// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

package reveal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/arotihq/aroti-server/internal/insight"
	"github.com/arotihq/aroti-server/internal/platform/apperr"
	"github.com/arotihq/aroti-server/internal/platform/constants"
	"github.com/arotihq/aroti-server/pkg/civildate"
)

// RedisInsightCache implements [InsightCache] with per-day JSON blobs.
type RedisInsightCache struct {
	client *redis.Client
}

// NewInsightCache creates a new Redis-backed [InsightCache].
func NewInsightCache(client *redis.Client) *RedisInsightCache {
	return &RedisInsightCache{client: client}
}

// cacheKey builds the day-scoped cache key for a user.
func cacheKey(userID string, day civildate.Date) string {
	return fmt.Sprintf("%s%s:%s", constants.RedisPrefixInsight, userID, day.String())
}

/*
Get retrieves the cached insight for a (user, day) pair.

Parameters:
  - context: context.Context
  - userID: string
  - day: civildate.Date

Returns:
  - *insight.Insight: Hydrated insight
  - error: apperr.NotFound on miss, connectivity errors otherwise
*/
func (cache *RedisInsightCache) Get(context context.Context, userID string, day civildate.Date) (*insight.Insight, error) {
	payload, err := cache.client.Get(context, cacheKey(userID, day)).Bytes()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Cached insight")
		}
		return nil, fmt.Errorf("redis_insight_cache_get_failed: %w", err)
	}

	value := &insight.Insight{}
	if err := json.Unmarshal(payload, value); err != nil {
		// A corrupt blob reads as a miss; the caller recomputes.
		return nil, apperr.NotFound("Cached insight")
	}

	return value, nil
}

/*
Set overwrites the cached insight for a (user, day) pair with a daily TTL.

Parameters:
  - context: context.Context
  - userID: string
  - day: civildate.Date
  - value: *insight.Insight

Returns:
  - error: Serialization or connectivity errors
*/
func (cache *RedisInsightCache) Set(context context.Context, userID string, day civildate.Date, value *insight.Insight) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis_insight_cache_marshal_failed: %w", err)
	}

	if err := cache.client.Set(context, cacheKey(userID, day), payload, InsightCacheTTL).Err(); err != nil {
		return fmt.Errorf("redis_insight_cache_set_failed: %w", err)
	}

	return nil
}
