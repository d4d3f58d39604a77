// Package staticcache caches arbitrary named result sets (filter facets,
// enumerations) under a namespace that can be invalidated wholesale. Each
// namespace carries a generation tag in the shared store; bumping the tag
// orphans every entry of the namespace in one atomic increment, the same
// trick the search version uses. No key enumeration, no wildcard deletes.
package staticcache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/openestate/searchcache"
	"github.com/openestate/searchcache/codec"
	"github.com/openestate/searchcache/internal/util"
	"github.com/openestate/searchcache/internal/wire"
)

const defaultTTL = 10 * time.Minute

// Options tune a namespace cache. Namespace, Client and Codec are required.
type Options[V any] struct {
	Namespace string
	Client    *searchcache.Client
	Codec     codec.Codec[V]

	Logger     searchcache.Logger // nil => NopLogger
	DefaultTTL time.Duration      // 0 => 10m
}

// Cache is a get-or-compute cache for one namespace. With the store
// unavailable it degrades to compute-through: every lookup runs the compute
// function and nothing is written.
type Cache[V any] struct {
	ns     string
	client *searchcache.Client
	codec  codec.Codec[V]
	log    searchcache.Logger
	ttl    time.Duration
}

func New[V any](opts Options[V]) (*Cache[V], error) {
	if opts.Namespace == "" {
		return nil, fmt.Errorf("staticcache: namespace is required")
	}
	if opts.Client == nil {
		return nil, fmt.Errorf("staticcache: client is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("staticcache: codec is required")
	}
	c := &Cache[V]{
		ns:     opts.Namespace,
		client: opts.Client,
		codec:  opts.Codec,
	}
	c.log = opts.Logger
	if c.log == nil {
		c.log = searchcache.NopLogger{}
	}
	c.ttl = opts.DefaultTTL
	if c.ttl == 0 {
		c.ttl = defaultTTL
	}
	return c, nil
}

// GetOrCompute returns the cached value for key, or computes, stores and
// returns it on a miss. ttl 0 uses the cache default. A concurrent namespace
// invalidation between snapshot and write makes the write a silent skip, so
// stale values never land under the new generation.
func (c *Cache[V]) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute func(context.Context) (V, error)) (V, error) {
	var zero V
	s, ok := c.client.Store(ctx)
	if !ok {
		return compute(ctx)
	}

	gen := c.gen(ctx)
	k := util.StaticEntryKey(c.ns, gen, key)
	if raw, found, err := s.Get(ctx, k); err == nil && found {
		entryGen, payload, derr := wire.DecodeEntry(raw)
		if derr == nil && entryGen == gen {
			if v, verr := c.codec.Decode(payload); verr == nil {
				return v, nil
			}
		}
		_ = s.Del(ctx, k) // self-heal corrupt or stale
	}

	v, err := compute(ctx)
	if err != nil {
		return zero, err
	}

	if ttl == 0 {
		ttl = c.ttl
	}
	if cur := c.gen(ctx); cur == gen {
		payload, eerr := c.codec.Encode(v)
		if eerr != nil {
			c.log.Debug("static entry encode failed", searchcache.Fields{"ns": c.ns, "key": key, "err": eerr})
			return v, nil
		}
		if _, serr := s.Set(ctx, k, wire.EncodeEntry(gen, payload), ttl); serr != nil {
			c.log.Debug("static entry write failed", searchcache.Fields{"ns": c.ns, "key": key, "err": serr})
		}
	} else {
		c.log.Debug("static write skipped (generation moved)", searchcache.Fields{"ns": c.ns, "key": key})
	}
	return v, nil
}

// Invalidate orphans every entry of the namespace by bumping its generation
// tag. Completes without error on a namespace that has no entries yet.
// Degraded mode is a no-op: nothing is cached, so nothing needs clearing.
func (c *Cache[V]) Invalidate(ctx context.Context) error {
	s, ok := c.client.Store(ctx)
	if !ok {
		return nil
	}
	newGen, err := s.Incr(ctx, util.NamespaceGenKey(c.ns))
	if err != nil {
		return fmt.Errorf("staticcache: invalidate %q: %w", c.ns, err)
	}
	c.log.Debug("namespace invalidated", searchcache.Fields{"ns": c.ns, "gen": newGen})
	return nil
}

// gen snapshots the namespace generation; missing or unreadable tags count
// as 0 so readers and writers stay consistent with each other.
func (c *Cache[V]) gen(ctx context.Context) uint64 {
	s, ok := c.client.Store(ctx)
	if !ok {
		return 0
	}
	raw, found, err := s.Get(ctx, util.NamespaceGenKey(c.ns))
	if err != nil || !found {
		return 0
	}
	g, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0
	}
	return g
}
