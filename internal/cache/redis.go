// internal/cache/redis.go
package cache

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"roi-navigator/internal/models"
)

const rateConfigKey = "roi:global_rate_config"

// Redis is a shared RateCache so a settings update on one instance
// invalidates the memo everywhere. Expiry is delegated to the key TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis-backed rate cache.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context) (*models.GlobalRateConfig, bool, error) {
	raw, err := r.client.Get(ctx, rateConfigKey).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var cfg models.GlobalRateConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, false, err
	}

	return &cfg, true, nil
}

func (r *Redis) Set(ctx context.Context, cfg *models.GlobalRateConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, rateConfigKey, raw, r.ttl).Err()
}

func (r *Redis) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, rateConfigKey).Err()
}
