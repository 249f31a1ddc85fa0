// Package cache provides the fail-open Redis cache for the filter-options
// snapshot. Unavailability of the backing store degrades performance (every
// request recomputes) but never surfaces as an error.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Outcome distinguishes a cache miss from an unavailable backing store.
// Callers treat both by recomputing, but the distinction is explicit so the
// fail-open policy lives in code rather than behind a nil.
type Outcome int

const (
	Hit Outcome = iota
	Miss
	Unavailable
)

const (
	filterOptionsKey = "filter_options"

	// DefaultTTL is how long a stored snapshot stays fresh. Staleness is
	// tolerated; nothing invalidates the key on data change.
	DefaultTTL = time.Hour
)

// Cache is a single-key, fixed-TTL read-through cache client. A nil Cache
// or nil Redis client always reports Unavailable.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a cache over an existing Redis client. rdb may be nil, which
// yields a permanently unavailable (always recompute) cache.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get loads the cached snapshot into dest. Hit means dest was populated;
// Miss means the key is absent or expired; Unavailable means the store
// could not be reached (or the payload was unreadable) and the caller
// should recompute.
func (c *Cache) Get(ctx context.Context, dest any) Outcome {
	if c == nil || c.rdb == nil {
		return Unavailable
	}

	payload, err := c.rdb.Get(ctx, filterOptionsKey).Bytes()
	if err == redis.Nil {
		return Miss
	}
	if err != nil {
		log.Warn().Err(err).Msg("cache read failed, recomputing")
		return Unavailable
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		log.Warn().Err(err).Msg("cache payload unreadable, recomputing")
		return Unavailable
	}
	return Hit
}

// Set stores the snapshot with the fixed TTL. Failures are logged and
// swallowed; the next Get simply recomputes.
func (c *Cache) Set(ctx context.Context, value any) {
	if c == nil || c.rdb == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Msg("cache encode failed, skipping write")
		return
	}
	if err := c.rdb.Set(ctx, filterOptionsKey, payload, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("cache write failed, skipping")
	}
}

// Invalidate drops the cached snapshot. Used by the bulk loader after a
// reimport; advisory like everything else here.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, filterOptionsKey).Err(); err != nil {
		log.Warn().Err(err).Msg("cache invalidation failed, skipping")
	}
}
