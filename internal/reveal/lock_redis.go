// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

package reveal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arotihq/aroti-server/internal/platform/apperr"
	"github.com/arotihq/aroti-server/internal/platform/constants"
	"github.com/arotihq/aroti-server/pkg/uuidv7"
)

// RedisLocker implements [Locker] with SET NX PX.
type RedisLocker struct {
	client *redis.Client
}

// NewLocker creates a new Redis-backed [Locker].
func NewLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

/*
Acquire takes the named lock for at most ttl.

Description: The lock value is a random token so Release can verify
ownership; a lock that expired and was re-acquired by another instance is
never released by the old holder.

Parameters:
  - context: context.Context
  - key: string (lock name without prefix, e.g. a user ID)
  - ttl: time.Duration

Returns:
  - string: The release token
  - error: apperr.Conflict when the lock is already held
*/
func (locker *RedisLocker) Acquire(context context.Context, key string, ttl time.Duration) (string, error) {
	lockKey := constants.RedisPrefixRevealLock + key
	token := uuidv7.New()

	acquired, err := locker.client.SetNX(context, lockKey, token, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("redis_lock_acquire_failed: %w", err)
	}

	if !acquired {
		return "", apperr.Conflict("Another request is already in progress")
	}

	return token, nil
}

/*
Release frees the lock if the token still owns it.

Parameters:
  - context: context.Context
  - key: string
  - token: string (from Acquire)

Returns:
  - error: Connectivity errors; a lock lost to TTL expiry is not an error
*/
func (locker *RedisLocker) Release(context context.Context, key string, token string) error {
	lockKey := constants.RedisPrefixRevealLock + key

	current, err := locker.client.Get(context, lockKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("redis_lock_release_failed: %w", err)
	}

	// Ownership check: never delete a lock re-acquired by someone else.
	if current != token {
		return nil
	}

	if err := locker.client.Del(context, lockKey).Err(); err != nil {
		return fmt.Errorf("redis_lock_delete_failed: %w", err)
	}

	return nil
}
