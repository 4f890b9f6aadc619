package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/north-cloud/icon-catalog/internal/logger"
)

// RedisCache is the shared cache tier. Every Redis failure is logged and
// absorbed: a failed read is a miss, a failed write is skipped. Lookups
// must keep working when Redis is down.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger logger.Logger
}

// NewRedisCache creates a RedisCache writing keys under prefix with the
// given TTL.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration, log logger.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: log,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	value, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		c.logger.Warn("Redis read failed, treating as cache miss",
			logger.String("key", c.prefix+key),
			logger.Error(err),
		)
		return "", false
	}
	return value, true
}

func (c *RedisCache) Set(ctx context.Context, key, value string) {
	if err := c.client.Set(ctx, c.prefix+key, value, c.ttl).Err(); err != nil {
		c.logger.Warn("Redis write failed, skipping cache fill",
			logger.String("key", c.prefix+key),
			logger.Error(err),
		)
	}
}
