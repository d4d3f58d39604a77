package asynchook

import (
	"errors"
	"sync"
	"testing"

	"github.com/openestate/searchcache"
)

type countingHooks struct {
	searchcache.NopHooks
	mu    sync.Mutex
	count int
}

func (h *countingHooks) StaleEntryHealed(string, string) {
	h.mu.Lock()
	h.count++
	h.mu.Unlock()
}

func (h *countingHooks) n() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

func TestEventsReachInnerHooks(t *testing.T) {
	inner := &countingHooks{}
	h := New(inner, 2, 64)

	for i := 0; i < 10; i++ {
		h.StaleEntryHealed("k", "corrupt")
	}
	h.Close() // drains the queue

	if got := inner.n(); got != 10 {
		t.Fatalf("inner saw %d events, want 10", got)
	}
}

func TestFullQueueDropsInsteadOfBlocking(t *testing.T) {
	inner := &countingHooks{}
	block := make(chan struct{})

	// A worker stuck inside the inner hook must not stall producers.
	gate := &gatedHooks{inner: inner, gate: block}
	h := New(gate, 1, 1)

	h.StaleEntryHealed("k", "corrupt") // occupies the worker
	for i := 0; i < 100; i++ {
		h.StaleEntryHealed("k", "corrupt") // fills then overflows the queue
	}
	close(block)
	h.Close()

	if got := inner.n(); got < 1 || got > 2 {
		t.Fatalf("inner saw %d events, want 1 or 2 (rest dropped)", got)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	h := New(searchcache.NopHooks{}, 1, 8)
	h.StoreUnavailable(errors.New("down"))
	h.Close()
	h.Close()
}

type gatedHooks struct {
	inner *countingHooks
	gate  chan struct{}
	searchcache.NopHooks
}

func (g *gatedHooks) StaleEntryHealed(k, r string) {
	<-g.gate
	g.inner.StaleEntryHealed(k, r)
}
