// Package cache implements the volatile Redis tier for rate snapshots.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fxsync/internal/rates"
)

const keyPrefix = "fx:"

func snapshotKey(day rates.Day) string {
	return keyPrefix + day.String()
}

// SnapshotCache stores one snapshot per day in a Redis hash with a TTL.
// Eviction is Redis's business; callers only see "present" or "absent".
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.SugaredLogger
}

// NewSnapshotCache creates a SnapshotCache writing entries with the given TTL.
func NewSnapshotCache(client *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) *SnapshotCache {
	return &SnapshotCache{
		client: client,
		ttl:    ttl,
		log:    logger,
	}
}

// Get returns the cached snapshot for day, or (nil, nil) when no entry
// exists. A cached payload that cannot be decoded is treated as absent.
// Errors reaching Redis wrap rates.ErrTierUnavailable.
func (c *SnapshotCache) Get(ctx context.Context, day rates.Day) (*rates.Snapshot, error) {
	key := snapshotKey(day)

	vals, err := c.client.HMGet(ctx, key, "base", "rates", "fetched_at").Result()
	if err != nil {
		return nil, fmt.Errorf("%w: cache read %s: %v", rates.ErrTierUnavailable, key, err)
	}
	if len(vals) != 3 || vals[0] == nil || vals[1] == nil {
		return nil, nil
	}

	base, ok1 := asString(vals[0])
	rawRates, ok2 := asString(vals[1])
	if !ok1 || !ok2 {
		return nil, nil
	}

	var factors map[string]float64
	if err := json.Unmarshal([]byte(rawRates), &factors); err != nil {
		// Undecodable cached payloads read as absent so the chain falls
		// through to the durable store and heals the entry.
		c.log.Warnw("Discarding malformed cache entry", "key", key, "error", err)
		return nil, nil
	}

	snap := &rates.Snapshot{
		Day:   day,
		Base:  base,
		Rates: factors,
	}
	if ts, ok := asString(vals[2]); ok {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			snap.FetchedAt = t
		}
	}

	return snap, nil
}

// Put stores the snapshot under the day key, fully superseding any previous
// entry, and refreshes the TTL.
func (c *SnapshotCache) Put(ctx context.Context, day rates.Day, snap *rates.Snapshot) error {
	rawRates, err := json.Marshal(snap.Rates)
	if err != nil {
		return fmt.Errorf("encode rates for cache: %w", err)
	}

	key := snapshotKey(day)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, "base", snap.Base, "rates", rawRates, "fetched_at", snap.FetchedAt.UTC().Format(time.RFC3339))
	pipe.Expire(ctx, key, c.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: cache write %s: %v", rates.ErrTierUnavailable, key, err)
	}
	return nil
}

func asString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	default:
		return "", false
	}
}
