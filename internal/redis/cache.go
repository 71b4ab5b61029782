package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"assistall/internal/domain"
)

// FeedCacheTTL is sized to roughly one client poll interval: a stale feed
// is never served for longer than a client would wait for its next poll
// anyway.
const FeedCacheTTL = 2 * time.Second

const (
	feedCachePrefix = "cache:feed:"
	feedGenKey      = "cache:feed:gen"
)

// FeedCache caches per-actor feed query results in Redis. Invalidation
// bumps a generation counter instead of scanning keys; entries from older
// generations simply expire.
type FeedCache struct {
	client *redis.Client
}

// NewFeedCache creates a new FeedCache.
func NewFeedCache(client *redis.Client) *FeedCache {
	return &FeedCache{client: client}
}

// Get retrieves a cached feed. The second return value is false on a miss
// or any redis error; callers fall through to the store.
func (s *FeedCache) Get(ctx context.Context, key string) ([]*domain.Ride, bool) {
	data, err := s.client.Get(ctx, s.entryKey(ctx, key)).Bytes()
	if err != nil {
		return nil, false
	}

	var rides []*domain.Ride
	if err := json.Unmarshal(data, &rides); err != nil {
		return nil, false
	}
	return rides, true
}

// Set stores a feed result under the current generation.
func (s *FeedCache) Set(ctx context.Context, key string, rides []*domain.Ride) error {
	data, err := json.Marshal(rides)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.entryKey(ctx, key), data, FeedCacheTTL).Err()
}

// InvalidateAll makes every cached feed unreachable by bumping the
// generation.
func (s *FeedCache) InvalidateAll(ctx context.Context) error {
	return s.client.Incr(ctx, feedGenKey).Err()
}

func (s *FeedCache) entryKey(ctx context.Context, key string) string {
	gen, err := s.client.Get(ctx, feedGenKey).Int64()
	if err != nil {
		gen = 0
	}
	return fmt.Sprintf("%s%d:%s", feedCachePrefix, gen, key)
}
