package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/settings"
)

const settingsKey = "quotations:configuration"

// SettingsCache stores the configuration document as JSON under one key.
type SettingsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSettingsCache(rdb *redis.Client, ttl time.Duration) *SettingsCache {
	return &SettingsCache{rdb: rdb, ttl: ttl}
}

// Get returns nil, nil on a miss.
func (c *SettingsCache) Get(ctx context.Context) (*settings.Configuration, error) {
	raw, err := c.rdb.Get(ctx, settingsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errx.WrapRedis(err)
	}
	var cfg settings.Configuration
	if err := json.Unmarshal(raw, &cfg); err != nil {
		// stale shape after a deploy; treat as a miss
		_ = c.rdb.Del(ctx, settingsKey).Err()
		return nil, nil
	}
	return &cfg, nil
}

func (c *SettingsCache) Set(ctx context.Context, cfg settings.Configuration) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return errx.WrapRedis(c.rdb.Set(ctx, settingsKey, raw, c.ttl).Err())
}

func (c *SettingsCache) Invalidate(ctx context.Context) error {
	return errx.WrapRedis(c.rdb.Del(ctx, settingsKey).Err())
}
