// Package asynchook decouples hook execution from the cache's hot paths.
// Events are handed to a small worker pool through a bounded queue; when the
// queue is full the event is dropped rather than blocking a cache operation.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{SelfHealEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	ctrl, _ := searchcache.New(searchcache.Options{
//	    Client: client,
//	    Hooks:  hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/openestate/searchcache"
)

type Hooks struct {
	inner searchcache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ searchcache.Hooks = (*Hooks)(nil)

func New(inner searchcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) StoreUnavailable(err error) { h.try(func() { h.inner.StoreUnavailable(err) }) }
func (h *Hooks) VersionParseError(raw string, err error) {
	h.try(func() { h.inner.VersionParseError(raw, err) })
}
func (h *Hooks) StaleEntryHealed(k, r string) { h.try(func() { h.inner.StaleEntryHealed(k, r) }) }
func (h *Hooks) StoreSetRejected(k string)    { h.try(func() { h.inner.StoreSetRejected(k) }) }
func (h *Hooks) InvalidateStepFailed(step, reason string, err error) {
	h.try(func() { h.inner.InvalidateStepFailed(step, reason, err) })
}
func (h *Hooks) PrewarmScheduled(reason string, count int) {
	h.try(func() { h.inner.PrewarmScheduled(reason, count) })
}
