// Package cache provides the read-through cache that wraps each upstream
// unit of work (fetch, project, aggregate, bucket, classify) behind a
// per-key entry with request coalescing and stale-on-error fallback.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Loader performs the upstream unit of work for one key. It runs at most
// once per key at a time; concurrent callers coalesce onto the same flight.
type Loader[V any] func(ctx context.Context, key string) (V, error)

// Config holds the cache TTLs. StaleTTL should be >= FreshTTL, otherwise the
// stale fallback can never trigger.
type Config struct {
	FreshTTL time.Duration
	StaleTTL time.Duration
}

type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

// Cache is a per-key read-through cache. Entries are replaced on every
// successful refresh and never evicted; the key space is small (one entry
// per year or dataset) and bounded by process lifetime.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	flight  singleflight.Group
	loader  Loader[V]
	fresh   time.Duration
	stale   time.Duration
	now     func() time.Time
}

// Option adjusts a Cache at construction.
type Option[V any] func(*Cache[V])

// WithClock injects the time source, so tests control entry aging.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) { c.now = now }
}

// New creates a cache around the given loader.
func New[V any](cfg Config, loader Loader[V], opts ...Option[V]) *Cache[V] {
	c := &Cache[V]{
		entries: make(map[string]entry[V]),
		loader:  loader,
		fresh:   cfg.FreshTTL,
		stale:   cfg.StaleTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the payload for key. A fresh entry short-circuits without an
// upstream call; otherwise callers coalesce onto one flight per key. When
// the flight fails and a cached entry younger than the stale TTL exists, the
// stale payload is served silently instead of the error. force bypasses the
// fresh short-circuit but still coalesces and still degrades to stale.
func (c *Cache[V]) Get(ctx context.Context, key string, force bool) (V, error) {
	if !force {
		if v, ok := c.lookup(key, c.fresh); ok {
			log.Debug().Str("key", key).Msg("Cache hit (fresh)")
			return v, nil
		}
	}

	res, err, shared := c.flight.Do(key, func() (any, error) {
		// The flight is shared: once started it runs to completion even if
		// the initiating caller disconnects, so coalesced waiters still get
		// the payload.
		v, err := c.loader(context.WithoutCancel(ctx), key)
		if err != nil {
			if stale, ok := c.lookup(key, c.stale); ok {
				log.Warn().Err(err).Str("key", key).Msg("Upstream fetch failed, serving stale payload")
				return stale, nil
			}
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = entry[V]{value: v, fetchedAt: c.now()}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	if shared {
		log.Debug().Str("key", key).Msg("Coalesced onto in-flight fetch")
	}
	return res.(V), nil
}

// Peek returns the cached entry regardless of age, without fetching.
func (c *Cache[V]) Peek(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e.value, ok
}

func (c *Cache[V]) lookup(key string, maxAge time.Duration) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.fetchedAt) >= maxAge {
		var zero V
		return zero, false
	}
	return e.value, true
}
