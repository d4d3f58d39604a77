package searchcache

import (
	"context"
	"sync"
	"testing"

	"github.com/openestate/searchcache/codec"
	"github.com/openestate/searchcache/internal/storetest"
	"github.com/openestate/searchcache/internal/util"
	"github.com/openestate/searchcache/internal/wire"
)

type page struct {
	Total int      `json:"total"`
	IDs   []string `json:"ids"`
}

// recordingHooks captures self-heal and rejection events.
type recordingHooks struct {
	NopHooks
	mu       sync.Mutex
	healed   []string // reasons
	rejected []string // keys
}

func (h *recordingHooks) StaleEntryHealed(_ string, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.healed = append(h.healed, reason)
}

func (h *recordingHooks) StoreSetRejected(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rejected = append(h.rejected, key)
}

func newTestResults(t *testing.T, mp *storetest.Mem, hooks Hooks) *Results[page] {
	t.Helper()
	r, err := NewResults(ResultsOptions[page]{
		Client: NewStaticClient(mp),
		Codec:  codec.JSON[page]{},
		Hooks:  hooks,
	})
	if err != nil {
		t.Fatalf("NewResults: %v", err)
	}
	return r
}

func TestResultsRoundTrip(t *testing.T) {
	ctx := context.Background()
	mp := storetest.NewMem()
	r := newTestResults(t, mp, nil)

	want := page{Total: 42, IDs: []string{"a", "b"}}
	if err := r.Set(ctx, 3, "limit=20&page=1", want); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := r.Get(ctx, 3, "limit=20&page=1")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.Total != want.Total || len(got.IDs) != 2 {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestResultsVersionIsolation(t *testing.T) {
	ctx := context.Background()
	mp := storetest.NewMem()
	r := newTestResults(t, mp, nil)

	if err := r.Set(ctx, 5, "limit=20&page=1", page{Total: 1}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	// A bumped version addresses a disjoint keyspace; the old entry is
	// simply unreachable, not deleted.
	if _, ok, err := r.Get(ctx, 6, "limit=20&page=1"); ok || err != nil {
		t.Fatalf("Get at bumped version: ok=%v err=%v, want miss", ok, err)
	}
	if _, ok, _ := r.Get(ctx, 5, "limit=20&page=1"); !ok {
		t.Fatalf("entry at original version lost")
	}
}

func TestResultsSelfHealCorrupt(t *testing.T) {
	ctx := context.Background()
	mp := storetest.NewMem()
	hooks := &recordingHooks{}
	r := newTestResults(t, mp, hooks)

	k := util.SearchResultKey(2, "page=1")
	mp.Put(k, []byte("garbage, not a framed entry"))

	if _, ok, err := r.Get(ctx, 2, "page=1"); ok || err != nil {
		t.Fatalf("corrupt entry: ok=%v err=%v, want clean miss", ok, err)
	}
	if _, still := mp.Raw(k); still {
		t.Fatalf("corrupt entry not deleted")
	}
	if len(hooks.healed) != 1 || hooks.healed[0] != "corrupt" {
		t.Fatalf("healed reasons = %v, want [corrupt]", hooks.healed)
	}
}

func TestResultsSelfHealVersionMismatch(t *testing.T) {
	ctx := context.Background()
	mp := storetest.NewMem()
	hooks := &recordingHooks{}
	r := newTestResults(t, mp, hooks)

	// Well-formed frame, but stamped with a different version than the key
	// claims. Only possible via key manipulation; healed all the same.
	k := util.SearchResultKey(7, "page=1")
	mp.Put(k, wire.EncodeEntry(4, []byte(`{"total":9}`)))

	if _, ok, _ := r.Get(ctx, 7, "page=1"); ok {
		t.Fatalf("mismatched entry served")
	}
	if _, still := mp.Raw(k); still {
		t.Fatalf("mismatched entry not deleted")
	}
	if len(hooks.healed) != 1 || hooks.healed[0] != "version_mismatch" {
		t.Fatalf("healed reasons = %v, want [version_mismatch]", hooks.healed)
	}
}

func TestResultsSelfHealBadPayload(t *testing.T) {
	ctx := context.Background()
	mp := storetest.NewMem()
	hooks := &recordingHooks{}
	r := newTestResults(t, mp, hooks)

	k := util.SearchResultKey(2, "page=1")
	mp.Put(k, wire.EncodeEntry(2, []byte("{not json")))

	if _, ok, _ := r.Get(ctx, 2, "page=1"); ok {
		t.Fatalf("undecodable entry served")
	}
	if len(hooks.healed) != 1 || hooks.healed[0] != "value_decode" {
		t.Fatalf("healed reasons = %v, want [value_decode]", hooks.healed)
	}
}

func TestResultsDegradedMode(t *testing.T) {
	ctx := context.Background()
	r, err := NewResults(ResultsOptions[page]{
		Client: degradedClient(),
		Codec:  codec.JSON[page]{},
	})
	if err != nil {
		t.Fatalf("NewResults: %v", err)
	}
	if err := r.Set(ctx, 1, "page=1", page{Total: 1}); err != nil {
		t.Fatalf("degraded Set returned error: %v", err)
	}
	if _, ok, err := r.Get(ctx, 1, "page=1"); ok || err != nil {
		t.Fatalf("degraded Get: ok=%v err=%v, want silent miss", ok, err)
	}
}

func TestResultsRejectedWrite(t *testing.T) {
	ctx := context.Background()
	mp := storetest.NewMem()
	mp.RejectSet = true
	hooks := &recordingHooks{}
	r := newTestResults(t, mp, hooks)

	if err := r.Set(ctx, 1, "page=1", page{Total: 1}); err != nil {
		t.Fatalf("rejected Set returned error: %v", err)
	}
	if len(hooks.rejected) != 1 {
		t.Fatalf("rejection hook fired %d times, want 1", len(hooks.rejected))
	}
}
