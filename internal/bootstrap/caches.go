package bootstrap

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/north-cloud/icon-catalog/internal/cache"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/config"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/logger"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/metrics"
)

// noopCache satisfies cache.Cache when caching is disabled.
type noopCache struct{}

func (noopCache) Get(context.Context, string) (string, bool) { return "", false }
func (noopCache) Set(context.Context, string, string)        {}

// SetupCaches builds the metadata and content cache stacks. The metadata
// cache keeps an unbounded memory tier (records are small); the content
// tier is FIFO-bounded because rendered SVGs are not. Both gain a Redis
// tier when a client is supplied.
func SetupCaches(
	cfg *config.Config,
	redisClient *redis.Client,
	m *metrics.Metrics,
	log logger.Logger,
) (iconCache, contentCache cache.Cache) {
	if cfg.Cache.Disabled {
		log.Warn("Caching disabled, every lookup will hit the stores")
		return noopCache{}, noopCache{}
	}

	iconTiers := []cache.Tier{
		{Name: "memory", Cache: cache.NewMemoryCache(0)},
	}
	contentTiers := []cache.Tier{
		{Name: "memory", Cache: cache.NewMemoryCache(cfg.Cache.MemoryMaxEntries)},
	}

	if redisClient != nil {
		iconTiers = append(iconTiers, cache.Tier{
			Name:  "redis",
			Cache: cache.NewRedisCache(redisClient, "icon:", cfg.Cache.MetadataTTL, log),
		})
		contentTiers = append(contentTiers, cache.Tier{
			Name:  "redis",
			Cache: cache.NewRedisCache(redisClient, "svg:", cfg.Cache.ContentTTL, log),
		})
	}

	return cache.NewTieredCache("icon", m, iconTiers...),
		cache.NewTieredCache("svg", m, contentTiers...)
}
