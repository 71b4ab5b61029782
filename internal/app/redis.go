package app

import (
	"context"
	"fmt"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"assistall/internal/config"
)

// NewRedisClient connects the client backing the ride locks, the feed
// cache, and the idempotency store, instrumenting it when New Relic is on.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, nrApp *newrelic.Application) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if nrApp != nil {
		client.AddHook(&nrRedisHook{app: nrApp})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// nrRedisHook reports each redis command as a New Relic datastore segment.
type nrRedisHook struct {
	app *newrelic.Application
}

func (h *nrRedisHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *nrRedisHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		txn := newrelic.FromContext(ctx)
		if txn == nil {
			return next(ctx, cmd)
		}
		segment := newrelic.DatastoreSegment{
			StartTime:  txn.StartSegmentNow(),
			Product:    newrelic.DatastoreRedis,
			Operation:  cmd.Name(),
			Collection: "redis",
		}
		defer segment.End()
		return next(ctx, cmd)
	}
}

func (h *nrRedisHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		txn := newrelic.FromContext(ctx)
		if txn == nil {
			return next(ctx, cmds)
		}
		segment := newrelic.DatastoreSegment{
			StartTime:  txn.StartSegmentNow(),
			Product:    newrelic.DatastoreRedis,
			Operation:  "pipeline",
			Collection: "redis",
		}
		defer segment.End()
		return next(ctx, cmds)
	}
}
