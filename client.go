package searchcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/openestate/searchcache/store"
)

// dialTimeout bounds the one-shot dial+ping. The verdict freezes for the
// process lifetime, so it must not inherit the deadline of whichever request
// happens to arrive first.
const dialTimeout = 5 * time.Second

// DialFunc establishes a connection to the shared store. It is called at
// most once per Client.
type DialFunc func(ctx context.Context) (store.Store, error)

// Client manages the single shared store handle for one process. The first
// Store call dials and pings; the outcome is frozen for the process
// lifetime. A failed dial is logged once and puts the Client permanently in
// degraded mode, where Store reports ok=false and every caller degrades to a
// no-op or miss. Availability of the primary data path never depends on the
// cache being reachable.
//
// Construct explicitly and inject; there is no package-level singleton, so
// tests can substitute an unavailable Client deterministically.
type Client struct {
	dial  DialFunc
	log   Logger
	hooks Hooks

	mu        sync.Mutex
	attempted bool
	s         store.Store // nil after a failed dial
}

// NewClient wraps a dial function. log and hooks may be nil.
func NewClient(dial DialFunc, log Logger, hooks Hooks) *Client {
	return &Client{
		dial:  dial,
		log:   coalesce[Logger](log, NopLogger{}),
		hooks: coalesce[Hooks](hooks, NopHooks{}),
	}
}

// NewStaticClient wraps an already-constructed store, skipping the dial and
// liveness check. Intended for in-process stores and tests.
func NewStaticClient(s store.Store) *Client {
	return &Client{
		log:       NopLogger{},
		hooks:     NopHooks{},
		attempted: true,
		s:         s,
	}
}

// Store returns the live store handle, or ok=false in degraded mode.
// Failures within a single call are surfaced to the caller through the
// store's own errors; the Client never re-dials.
func (c *Client) Store(ctx context.Context) (store.Store, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.attempted {
		return c.s, c.s != nil
	}
	c.attempted = true

	// Detach from the caller's cancellation but keep its values (tracing).
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dialTimeout)
	defer cancel()

	s, err := c.dial(dctx)
	if err == nil {
		err = s.Ping(dctx)
		if err != nil {
			_ = s.Close(dctx)
		}
	}
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrUnavailable, err)
		c.log.Warn("cache store unavailable; running degraded", Fields{"err": err})
		c.hooks.StoreUnavailable(err)
		return nil, false
	}
	c.s = s
	return c.s, true
}

// Close releases the store handle if one was established.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.s == nil {
		return nil
	}
	err := c.s.Close(ctx)
	c.s = nil
	return err
}
