package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
)

const aggregateKeyPrefix = "agg:"

// aggregateCache keeps analytics payloads in Redis. A nil client turns every
// operation into a no-op so the service works without Redis.
type aggregateCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func newAggregateCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *aggregateCache {
	return &aggregateCache{client: client, ttl: ttl, log: log}
}

func (c *aggregateCache) get(ctx context.Context, key string, dest interface{}) error {
	if c == nil || c.client == nil {
		return appErrors.ErrCacheMiss
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}
	return nil
}

func (c *aggregateCache) set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("marshal cache value", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warn("redis set", zap.String("key", key), zap.Error(err))
	}
}

// invalidate drops every cached aggregate. Writes to any entity can shift any
// breakdown, so the whole namespace goes.
func (c *aggregateCache) invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, aggregateKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.log.Warn("redis delete", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("redis scan", zap.Error(err))
	}
}
