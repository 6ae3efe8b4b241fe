// internal/weightconfig/cache.go
package weightconfig

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"idea-scoring/internal/common/logger"
	"idea-scoring/internal/models"

	"github.com/redis/go-redis/v9"
)

const activeConfigsKey = "weightconfig:active"

// CachedSource puts a Redis cache in front of another Source so that several
// processes refreshing on the same schedule hit Postgres once per TTL.
type CachedSource struct {
	redis  redis.Cmdable
	source Source
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSource(rdb redis.Cmdable, source Source, ttl time.Duration, log logger.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedSource{
		redis:  rdb,
		source: source,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "weight-config-cache"}),
	}
}

func (c *CachedSource) ActiveConfigs(ctx context.Context) ([]models.WeightConfigVersion, error) {
	cached, err := c.redis.Get(ctx, activeConfigsKey).Result()
	if err == nil {
		var configs []models.WeightConfigVersion
		if jsonErr := json.Unmarshal([]byte(cached), &configs); jsonErr == nil {
			c.logger.Debug("active configs served from cache", map[string]interface{}{"count": len(configs)})
			return configs, nil
		}
		c.logger.Warn("discarding unreadable cached configs", map[string]interface{}{"key": activeConfigsKey})
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("redis get failed, reading store", map[string]interface{}{"error": err.Error()})
	}

	configs, err := c.source.ActiveConfigs(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(configs); err == nil {
		if err := c.redis.Set(ctx, activeConfigsKey, data, c.ttl).Err(); err != nil {
			c.logger.Warn("failed to cache active configs", map[string]interface{}{"error": err.Error()})
		}
	}
	return configs, nil
}

// Invalidate drops the cached snapshot after an admin change.
func (c *CachedSource) Invalidate(ctx context.Context) error {
	return c.redis.Del(ctx, activeConfigsKey).Err()
}
