package ledger

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/retailops/arledger/pkg/logger"
	"github.com/retailops/arledger/pkg/redis"
)

// VersionStore is the subset of the redis client the cache needs.
type VersionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

// Cache memoizes derived dashboard views behind a snapshot version. Every
// order or payment write bumps the version, so cached entries keyed by the
// old version simply stop being read and expire via TTL. A nil *Cache is
// valid and disables caching.
type Cache struct {
	store VersionStore
	ttl   time.Duration
	logg  *logger.Logger
}

// NewCache wires the dashboard cache. Pass a nil store to disable it.
func NewCache(store VersionStore, ttl time.Duration, logg *logger.Logger) *Cache {
	if store == nil {
		return nil
	}
	return &Cache{store: store, ttl: ttl, logg: logg}
}

// Bump invalidates all cached views by advancing the snapshot version.
// Failures are logged and swallowed; writes must not fail on cache trouble.
func (c *Cache) Bump(ctx context.Context) {
	if c == nil {
		return
	}
	if _, err := c.store.Incr(ctx, redis.SnapshotVersionKey()); err != nil && c.logg != nil {
		c.logg.Warn(ctx, "bumping snapshot version failed: "+err.Error())
	}
}

func (c *Cache) version(ctx context.Context) (int64, error) {
	raw, err := c.store.Get(ctx, redis.SnapshotVersionKey())
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// GetView returns the cached payload for a view at the current snapshot
// version. The second return reports a hit.
func (c *Cache) GetView(ctx context.Context, view string) (string, bool) {
	if c == nil {
		return "", false
	}
	version, err := c.version(ctx)
	if err != nil {
		return "", false
	}
	payload, err := c.store.Get(ctx, redis.DashboardKey(view, version))
	if err != nil {
		return "", false
	}
	return payload, true
}

// SetView stores a view payload under the current snapshot version.
func (c *Cache) SetView(ctx context.Context, view string, payload string) {
	if c == nil {
		return
	}
	version, err := c.version(ctx)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, redis.DashboardKey(view, version), payload, c.ttl); err != nil && c.logg != nil {
		c.logg.Warn(ctx, "storing dashboard view failed: "+err.Error())
	}
}
