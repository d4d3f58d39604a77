package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/openestate/searchcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	SelfHealEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

// Hooks logs high-signal cache events through slog. Self-heal events can be
// sampled since they fire on hot read paths.
type Hooks struct {
	l    *slog.Logger
	opts Options

	selfHealCtr atomic.Uint64
}

var _ searchcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) StoreUnavailable(err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("searchcache.store_unavailable", "err", err)
}

func (h *Hooks) VersionParseError(raw string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("searchcache.version_parse_error",
		"raw", raw,
		"err", err)
}

func (h *Hooks) StaleEntryHealed(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("searchcache.stale_entry_healed",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) StoreSetRejected(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Warn("searchcache.store_set_rejected",
		"key", h.redact(storageKey))
}

func (h *Hooks) InvalidateStepFailed(step, reason string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("searchcache.invalidate_step_failed",
		"step", step,
		"reason", reason,
		"err", err)
}

func (h *Hooks) PrewarmScheduled(reason string, count int) {
	if h.l == nil {
		return
	}
	h.l.Info("searchcache.prewarm_scheduled",
		"reason", reason,
		"count", count)
}
