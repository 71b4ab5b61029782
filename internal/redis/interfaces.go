package redis

import (
	"context"
	"time"

	"assistall/internal/domain"
)

// RideLockInterface defines the interface for ride-level locking during
// accept.
type RideLockInterface interface {
	AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error)
	ReleaseRideLock(ctx context.Context, rideID string) error
}

// FeedCacheInterface defines the interface for short-lived feed caching.
type FeedCacheInterface interface {
	Get(ctx context.Context, key string) ([]*domain.Ride, bool)
	Set(ctx context.Context, key string, rides []*domain.Ride) error
	InvalidateAll(ctx context.Context) error
}

// Ensure concrete types implement interfaces.
var (
	_ RideLockInterface  = (*LockStore)(nil)
	_ FeedCacheInterface = (*FeedCache)(nil)
)
