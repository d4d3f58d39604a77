package searchcache

import (
	"context"
	"errors"
	"testing"

	"github.com/openestate/searchcache/internal/storetest"
	"github.com/openestate/searchcache/store"
)

func TestClientDialsOnce(t *testing.T) {
	ctx := context.Background()
	mp := storetest.NewMem()
	dials := 0
	c := NewClient(func(context.Context) (store.Store, error) {
		dials++
		return mp, nil
	}, nil, nil)

	for i := 0; i < 3; i++ {
		s, ok := c.Store(ctx)
		if !ok || s == nil {
			t.Fatalf("Store call %d: ok=%v", i, ok)
		}
	}
	if dials != 1 {
		t.Fatalf("dialed %d times, want 1", dials)
	}
}

func TestClientFreezesFailedDial(t *testing.T) {
	ctx := context.Background()
	dials := 0
	c := NewClient(func(context.Context) (store.Store, error) {
		dials++
		return nil, errors.New("connection refused")
	}, nil, nil)

	for i := 0; i < 3; i++ {
		if _, ok := c.Store(ctx); ok {
			t.Fatalf("Store call %d reported available after failed dial", i)
		}
	}
	// The outcome is frozen; no retry storms against a down store.
	if dials != 1 {
		t.Fatalf("dialed %d times after failure, want 1", dials)
	}
}

func TestClientDialDetachedFromCallerContext(t *testing.T) {
	// The first caller may arrive with an exhausted deadline; that must not
	// decide the frozen verdict against a healthy store.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mp := storetest.NewMem()
	c := NewClient(func(dctx context.Context) (store.Store, error) {
		if err := dctx.Err(); err != nil {
			return nil, err
		}
		if _, ok := dctx.Deadline(); !ok {
			return nil, errors.New("dial context must carry its own deadline")
		}
		return mp, nil
	}, nil, nil)

	if _, ok := c.Store(ctx); !ok {
		t.Fatal("expired caller context froze the client into degraded mode")
	}
}

func TestClientPingFailureDegrades(t *testing.T) {
	ctx := context.Background()
	mp := storetest.NewMem()
	mp.FailAll = true
	c := NewClient(func(context.Context) (store.Store, error) {
		return mp, nil
	}, nil, nil)

	if _, ok := c.Store(ctx); ok {
		t.Fatalf("store with failing ping reported available")
	}
	// Even after the store recovers, the frozen verdict stands.
	mp.FailAll = false
	if _, ok := c.Store(ctx); ok {
		t.Fatalf("degraded verdict not frozen")
	}
}

func TestClientUnavailableHookFiresOnce(t *testing.T) {
	ctx := context.Background()
	fired := 0
	h := &countingUnavailableHooks{n: &fired}
	c := NewClient(func(context.Context) (store.Store, error) {
		return nil, errors.New("connection refused")
	}, nil, h)

	c.Store(ctx)
	c.Store(ctx)
	if fired != 1 {
		t.Fatalf("StoreUnavailable fired %d times, want 1", fired)
	}
}

type countingUnavailableHooks struct {
	NopHooks
	n *int
}

func (h *countingUnavailableHooks) StoreUnavailable(error) { (*h.n)++ }

func TestClientClose(t *testing.T) {
	ctx := context.Background()
	c := NewStaticClient(storetest.NewMem())
	if err := c.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := c.Store(ctx); ok {
		t.Fatalf("Store available after Close")
	}
	// Closing twice is safe.
	if err := c.Close(ctx); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
