// Package leaderboard provides an optional Redis snapshot cache for ranked
// output. Aggregation always recomputes from the rating store; this cache
// only short-circuits repeated leaderboard reads and is invalidated on
// every rating write and team removal, so it can never serve a stale
// aggregate past a write.
package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"hackhub/internal/judging/models"
)

const snapshotKey = "leaderboard:snapshot:v1"

// Cache is a cache-aside wrapper over Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached snapshot, or ok=false on miss. Redis failures are
// returned so callers can fall through to a recompute while logging.
func (c *Cache) Get(ctx context.Context) ([]models.LeaderboardEntry, bool, error) {
	raw, err := c.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("leaderboard cache get: %w", err)
	}
	var entries []models.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, fmt.Errorf("leaderboard cache decode: %w", err)
	}
	return entries, true, nil
}

// Set stores a freshly ranked snapshot with the configured TTL.
func (c *Cache) Set(ctx context.Context, entries []models.LeaderboardEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("leaderboard cache encode: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("leaderboard cache set: %w", err)
	}
	return nil
}

// Invalidate drops the snapshot. Called on every rating upsert and team removal.
func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, snapshotKey).Err(); err != nil {
		return fmt.Errorf("leaderboard cache invalidate: %w", err)
	}
	return nil
}
