package searchcache

import (
	"context"
	"strconv"

	"github.com/openestate/searchcache/internal/util"
)

// Controller owns the cache version counter. Bumping it is the entire
// invalidation: an O(1) write instead of enumerating or pattern-deleting
// every cached key, at the cost of leaving orphaned entries to expire under
// their TTL.
type Controller struct {
	client     *Client
	enq        Enqueuer
	log        Logger
	hooks      Hooks
	prewarm    bool
	versionKey string
}

// DefaultWarmFilters returns the fixed set of filter combinations submitted
// as warm-up tasks after an invalidation: the unfiltered front page plus the
// rent and sale variants. Representative hot keys, not an exhaustive sweep.
func DefaultWarmFilters() []map[string]any {
	base := func(m map[string]any) map[string]any {
		m["page"] = 1
		m["limit"] = 20
		m["sort_by"] = "published_at"
		m["sort_order"] = "desc"
		return m
	}
	return []map[string]any{
		base(map[string]any{}),
		base(map[string]any{"operation": "rent"}),
		base(map[string]any{"operation": "sale"}),
	}
}

// Version returns the current cache version. It never fails: an unreachable
// store or an unparsable value degrades to DefaultVersion. A missing key is
// initialized to DefaultVersion durably so all replicas observe the same
// starting point.
func (c *Controller) Version(ctx context.Context) uint64 {
	s, ok := c.client.Store(ctx)
	if !ok {
		return DefaultVersion
	}
	raw, found, err := s.Get(ctx, c.versionKey)
	if err != nil {
		c.log.Debug("version read failed; using default", Fields{"err": err})
		return DefaultVersion
	}
	if !found {
		// initialize lazily; SetNX keeps a concurrent bump authoritative
		if _, err := s.SetNX(ctx, c.versionKey, []byte(strconv.FormatUint(DefaultVersion, 10)), 0); err != nil {
			c.log.Debug("version init failed", Fields{"err": err})
		}
		return DefaultVersion
	}
	v, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		c.log.Warn("malformed version value; using default", Fields{"raw": string(raw), "err": err})
		c.hooks.VersionParseError(string(raw), err)
		return DefaultVersion
	}
	return v
}

// Invalidate is performed whenever a listing is created, updated, deleted,
// or changes publication/verification status. Three independent best-effort
// steps: bump the version counter, clear the search-filters namespace, and
// (when schedulePrewarm and the global prewarm flag are both set) submit the
// default warm-up tasks. A failure in one step never blocks another and
// nothing rolls back.
//
// Returns the version now in effect and an *InvalidateError aggregating any
// step failures; the error is informational and safe to ignore. With the
// store unavailable the whole call is a silent no-op: nothing to invalidate,
// no tasks submitted.
func (c *Controller) Invalidate(ctx context.Context, reason string, schedulePrewarm bool) (uint64, error) {
	s, ok := c.client.Store(ctx)
	if !ok {
		c.log.Debug("invalidate skipped; store unavailable", Fields{"reason": reason})
		return DefaultVersion, nil
	}

	ierr := &InvalidateError{Reason: reason}
	newVer := DefaultVersion

	// Step 1: version bump. The only step whose failure matters; everything
	// cached before it becomes unaddressable the moment it lands.
	// SetNX first so a bump from a virgin store advances past the default
	// version that concurrent readers already handed out.
	if _, err := s.SetNX(ctx, c.versionKey, []byte(strconv.FormatUint(DefaultVersion, 10)), 0); err != nil {
		c.log.Debug("version init before bump failed", Fields{"err": err})
	}
	if n, err := s.Incr(ctx, c.versionKey); err != nil {
		ierr.BumpErr = err
		c.hooks.InvalidateStepFailed("bump", reason, err)
		c.log.Error("version bump failed", Fields{"reason": reason, "err": err})
	} else {
		newVer = uint64(n)
		c.log.Info("search cache invalidated", Fields{"reason": reason, "version": newVer})
	}

	// Step 2: facet data depends on listing data too.
	if _, err := s.Incr(ctx, util.NamespaceGenKey(FiltersNamespace)); err != nil {
		ierr.NamespaceErr = err
		c.hooks.InvalidateStepFailed("namespace", reason, err)
		c.log.Warn("static namespace clear failed", Fields{"namespace": FiltersNamespace, "err": err})
	}

	// Step 3: fire-and-forget warm-up. Invalidation correctness does not
	// depend on any of these landing.
	if schedulePrewarm && c.prewarm && c.enq != nil {
		submitted := 0
		for _, kwargs := range DefaultWarmFilters() {
			if err := c.enq.Enqueue(ctx, TaskWarmSearch, kwargs); err != nil {
				ierr.EnqueueErrs = append(ierr.EnqueueErrs, err)
				c.hooks.InvalidateStepFailed("prewarm", reason, err)
				c.log.Warn("prewarm enqueue failed", Fields{"reason": reason, "err": err})
				continue
			}
			submitted++
		}
		if submitted > 0 {
			c.hooks.PrewarmScheduled(reason, submitted)
			c.log.Debug("prewarm tasks submitted", Fields{"reason": reason, "count": submitted})
		}
	}

	if ierr.empty() {
		return newVer, nil
	}
	return newVer, ierr
}
