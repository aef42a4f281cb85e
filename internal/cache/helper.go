package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"webblogger/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Cache is a JSON cache-aside layer over Redis. A nil *Cache, or one built
// without a client, is a disabled cache: every lookup misses and writes are dropped.
type Cache struct {
	client *redis.Client
	logger *observability.Logger
}

// New wraps client. A nil client yields a disabled cache.
func New(client *redis.Client, logger *observability.Logger) *Cache {
	if logger == nil {
		logger = observability.GlobalLogger
	}
	return &Cache{client: client, logger: logger}
}

// Enabled reports whether lookups reach Redis.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Client returns the underlying Redis client, nil when disabled.
func (c *Cache) Client() *redis.Client {
	if c == nil {
		return nil
	}
	return c.client
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	family := keyFamily(key)
	s, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		observability.CacheLookups.WithLabelValues(family, "miss").Inc()
		return false, nil
	}
	if err != nil {
		observability.CacheLookups.WithLabelValues(family, "error").Inc()
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		observability.CacheLookups.WithLabelValues(family, "error").Inc()
		return false, err
	}
	observability.CacheLookups.WithLabelValues(family, "hit").Inc()
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first, on miss it calls fetch (which must populate dest),
// then stores the result with ttl. Redis failures degrade to a plain fetch.
func (c *Cache) Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := c.GetJSON(ctx, key, dest)
	if err != nil {
		c.logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	if found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	if err := c.SetJSON(ctx, key, dest, ttl); err != nil {
		c.logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil
}

// Invalidate removes keys. Failures are logged, not returned.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache invalidation failed",
			slog.Any("keys", keys),
			slog.String("error", err.Error()),
		)
	}
}

func keyFamily(key string) string {
	family, _, _ := strings.Cut(key, ":")
	return family
}
