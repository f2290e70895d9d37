package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"heartcheck/internal/model"
)

const statsKey = "population:stats"

// StatsCache caches the computed population statistics so the dataset
// is not re-aggregated on every comparison request. A miss returns
// (nil, nil).
type StatsCache interface {
	Get(ctx context.Context) (*model.PopulationStats, error)
	Set(ctx context.Context, stats *model.PopulationStats) error
	Invalidate(ctx context.Context) error
}

type statsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a Redis-backed stats cache.
func NewStatsCache(client *redis.Client, ttl time.Duration) StatsCache {
	return &statsCache{client: client, ttl: ttl}
}

func (c *statsCache) Get(ctx context.Context) (*model.PopulationStats, error) {
	data, err := c.client.Get(ctx, statsKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var stats model.PopulationStats
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *statsCache) Set(ctx context.Context, stats *model.PopulationStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey, data, c.ttl).Err()
}

func (c *statsCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, statsKey).Err()
}
