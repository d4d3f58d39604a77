package searchcache

import (
	"context"
	"time"

	"github.com/openestate/searchcache/codec"
	"github.com/openestate/searchcache/internal/util"
	"github.com/openestate/searchcache/internal/wire"
)

// Results caches one result page per (version, canonical filter set). A
// version bump makes every prior entry unreachable; entries additionally
// carry the version in their wire framing, so a read that somehow lands on a
// stale or foreign entry self-heals by deleting it.
//
// Entries are immutable once written for a given version. TTL bounds how
// long orphaned entries survive after a bump.
type Results[V any] struct {
	client *Client
	codec  codec.Codec[V]
	log    Logger
	hooks  Hooks
	ttl    time.Duration
}

// Get returns the page cached for canonical under version. Degraded mode and
// every decode problem are misses, never errors that reach a request.
func (r *Results[V]) Get(ctx context.Context, version uint64, canonical string) (V, bool, error) {
	var zero V
	s, ok := r.client.Store(ctx)
	if !ok {
		return zero, false, nil
	}
	k := util.SearchResultKey(version, canonical)
	raw, found, err := s.Get(ctx, k)
	if err != nil || !found {
		return zero, false, err
	}
	entryVer, payload, err := wire.DecodeEntry(raw)
	if err != nil {
		_ = s.Del(ctx, k) // self-heal corrupt
		r.hooks.StaleEntryHealed(k, "corrupt")
		return zero, false, nil
	}
	if entryVer != version {
		_ = s.Del(ctx, k)
		r.hooks.StaleEntryHealed(k, "version_mismatch")
		return zero, false, nil
	}
	v, err := r.codec.Decode(payload)
	if err != nil {
		_ = s.Del(ctx, k) // self-heal
		r.hooks.StaleEntryHealed(k, "value_decode")
		return zero, false, nil
	}
	return v, true, nil
}

// Set writes the page computed for canonical under version. Best-effort: in
// degraded mode it is a no-op, and a rejected write only fires a hook.
func (r *Results[V]) Set(ctx context.Context, version uint64, canonical string, v V) error {
	s, ok := r.client.Store(ctx)
	if !ok {
		return nil
	}
	payload, err := r.codec.Encode(v)
	if err != nil {
		return err
	}
	k := util.SearchResultKey(version, canonical)
	stored, err := s.Set(ctx, k, wire.EncodeEntry(version, payload), r.ttl)
	if err != nil {
		return err
	}
	if !stored {
		r.hooks.StoreSetRejected(k)
		r.log.Debug("result write rejected by store", Fields{"key": k})
	}
	return nil
}
