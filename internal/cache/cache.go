package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/saurabhbakolia/disaster-response-platform/internal/metrics"
)

// DefaultTTL applies when Set is called without an explicit ttl.
const DefaultTTL = 5 * time.Minute

const (
	keyPrefix = "cache:"

	// ttlGrace pads the storage-level backstop so the envelope's
	// expires_at stays the authority on staleness.
	ttlGrace = time.Minute
)

// Status is the outcome of a cache lookup. Callers collapse Miss and
// Unavailable to "proceed without cache".
type Status int

const (
	Hit Status = iota
	Miss
	Unavailable
)

func (s Status) String() string {
	switch s {
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// entry is the serialized envelope stored per key.
type entry struct {
	Value     json.RawMessage `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Cache is a TTL key/value cache over a Store. Entries are observable via
// Get exactly while now < expires_at; past that they read as absent and are
// evicted best-effort.
type Cache struct {
	store      Store
	clock      clockwork.Clock
	defaultTTL time.Duration
}

// New creates a cache. A non-positive defaultTTL falls back to DefaultTTL.
func New(store Store, clock clockwork.Clock, defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Cache{store: store, clock: clock, defaultTTL: defaultTTL}
}

// Set stores value under key with absolute expiry now+ttl, overwriting any
// existing entry (last writer wins). A non-positive ttl uses the default.
// Store failures are logged and swallowed: the write becomes a no-op.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	raw, err := json.Marshal(value)
	if err != nil {
		slog.WarnContext(ctx, "Cache set skipped: value not serializable", "key", key, "error", err)
		return
	}

	now := c.clock.Now()
	data, err := json.Marshal(entry{Value: raw, CreatedAt: now, ExpiresAt: now.Add(ttl)})
	if err != nil {
		slog.WarnContext(ctx, "Cache set skipped: envelope marshal failed", "key", key, "error", err)
		return
	}

	if err := c.store.Set(ctx, keyPrefix+key, data, ttl+ttlGrace); err != nil {
		metrics.CacheWriteFailures.Inc()
		slog.WarnContext(ctx, "Cache set failed, continuing without cache", "key", key, "error", err)
		return
	}

	slog.DebugContext(ctx, "Cache set", "key", key, "ttl", ttl)
}

// Get loads the entry for key into dest. Returns Hit only for a present,
// unexpired entry; Miss for absent, expired, or undecodable entries;
// Unavailable when the store itself failed.
func (c *Cache) Get(ctx context.Context, key string, dest any) Status {
	data, err := c.store.Get(ctx, keyPrefix+key)
	if errors.Is(err, ErrNotFound) {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return Miss
	}
	if err != nil {
		metrics.CacheLookupsTotal.WithLabelValues("unavailable").Inc()
		slog.WarnContext(ctx, "Cache get failed, continuing without cache", "key", key, "error", err)
		return Unavailable
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		slog.WarnContext(ctx, "Evicting undecodable cache entry", "key", key, "error", err)
		c.evict(ctx, key)
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return Miss
	}

	if !c.clock.Now().Before(e.ExpiresAt) {
		slog.DebugContext(ctx, "Cache expired", "key", key)
		c.evict(ctx, key)
		metrics.CacheLookupsTotal.WithLabelValues("expired").Inc()
		return Miss
	}

	if err := json.Unmarshal(e.Value, dest); err != nil {
		slog.WarnContext(ctx, "Cache value does not fit destination", "key", key, "error", err)
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return Miss
	}

	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	slog.DebugContext(ctx, "Cache hit", "key", key)
	return Hit
}

// evict deletes a dead entry; eviction failure is non-fatal.
func (c *Cache) evict(ctx context.Context, key string) {
	if err := c.store.Del(ctx, keyPrefix+key); err != nil {
		slog.WarnContext(ctx, "Cache eviction failed", "key", key, "error", err)
	}
}
