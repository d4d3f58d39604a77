package searchcache

import (
	"context"
	"fmt"
	"time"

	"github.com/openestate/searchcache/codec"
)

const (
	// DefaultVersion is what version reads fall back to whenever the store
	// is unavailable or the stored value is malformed.
	DefaultVersion uint64 = 1

	// DefaultVersionKey holds the shared version counter.
	DefaultVersionKey = "search:version"

	// FiltersNamespace is the static namespace for search facet data; it
	// depends on listing data, so every invalidation clears it too.
	FiltersNamespace = "search-filters"

	// TaskWarmSearch is the task name the Controller submits for each
	// default filter set after an invalidation.
	TaskWarmSearch = "search.warm_cache"

	// DefaultResultTTL bounds how long orphaned (post-invalidation) result
	// entries linger in the store.
	DefaultResultTTL = 5 * time.Minute
)

// Enqueuer submits a named background task. tasks.Client implements it; nil
// disables prewarm scheduling entirely.
type Enqueuer interface {
	Enqueue(ctx context.Context, name string, kwargs map[string]any) error
}

// Options tune the Controller. Only Client is required.
type Options struct {
	// Required
	Client *Client

	Enqueuer       Enqueuer // nil => no prewarm tasks are ever submitted
	Logger         Logger   // nil => NopLogger
	Hooks          Hooks    // nil => NopHooks
	PrewarmEnabled bool     // global prewarm flag; false => Invalidate never enqueues
	VersionKey     string   // "" => DefaultVersionKey
}

// New builds the Controller that owns the version key's write path. No other
// component may increment it.
func New(opts Options) (*Controller, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("searchcache: client is required")
	}
	return &Controller{
		client:     opts.Client,
		enq:        opts.Enqueuer,
		log:        coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:      coalesce[Hooks](opts.Hooks, NopHooks{}),
		prewarm:    opts.PrewarmEnabled,
		versionKey: coalesce[string](opts.VersionKey, DefaultVersionKey),
	}, nil
}

// ResultsOptions tune the versioned result-page cache.
type ResultsOptions[V any] struct {
	// Required
	Client *Client
	Codec  codec.Codec[V]

	Logger Logger        // nil => NopLogger
	Hooks  Hooks         // nil => NopHooks
	TTL    time.Duration // 0 => DefaultResultTTL
}

// NewResults builds a Results cache for pages of type V.
func NewResults[V any](opts ResultsOptions[V]) (*Results[V], error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("searchcache: client is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("searchcache: codec is required")
	}
	return &Results[V]{
		client: opts.Client,
		codec:  opts.Codec,
		log:    coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:  coalesce[Hooks](opts.Hooks, NopHooks{}),
		ttl:    coalesce[time.Duration](opts.TTL, DefaultResultTTL),
	}, nil
}
