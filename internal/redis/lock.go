package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lock keys live next to the feed cache keys in the same keyspace.
const rideLockPrefix = "lock:ride:"

// LockStore hands out short-lived per-ride locks. The accept path takes
// one to short-circuit volunteers racing within the same instant; the
// database's conditional update stays the authority on who won.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireRideLock attempts to take the lock for a ride. Returns false when
// another volunteer already holds it. The TTL bounds how long a crashed
// holder can block the ride.
func (s *LockStore) AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, rideLockPrefix+rideID, "1", ttl).Result()
}

// ReleaseRideLock releases the lock for the given ride.
func (s *LockStore) ReleaseRideLock(ctx context.Context, rideID string) error {
	return s.client.Del(ctx, rideLockPrefix+rideID).Err()
}
