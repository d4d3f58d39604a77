package search

import (
	"context"
	"fmt"
	"time"

	"github.com/openestate/searchcache"
)

// Listing is the summary shape of one search hit, enough for a result page.
type Listing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Operation   string    `json:"operation"`
	City        string    `json:"city,omitempty"`
	Price       int64     `json:"price"`
	PublishedAt time.Time `json:"published_at"`
}

// Page is one page of search results plus the total count across all pages.
type Page struct {
	Items        []Listing `json:"items"`
	TotalResults int       `json:"total_results"`
	Page         int       `json:"page"`
	Limit        int       `json:"limit"`
}

// Executor computes a result page for a filter set. Implementations must be
// deterministic for identical filters and tolerate invocation from both the
// request path and a background task.
type Executor interface {
	Execute(ctx context.Context, f Filters) (Page, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, f Filters) (Page, error)

func (fn ExecutorFunc) Execute(ctx context.Context, f Filters) (Page, error) { return fn(ctx, f) }

// Versions supplies the cache version current at execution time. The
// Controller implements it.
type Versions interface {
	Version(ctx context.Context) uint64
}

// CachingExecutor wraps an Executor with the versioned result cache:
// read-through on hits, write-through population on misses. Writing the
// computed page under the current version is this type's explicit contract;
// warm-up tasks only need to call Execute and the cache fills as a
// consequence. A cache failure is never an execution failure.
type CachingExecutor struct {
	inner    Executor
	versions Versions
	results  *searchcache.Results[Page]
	log      searchcache.Logger
}

var _ Executor = (*CachingExecutor)(nil)

func NewCachingExecutor(inner Executor, versions Versions, results *searchcache.Results[Page], log searchcache.Logger) (*CachingExecutor, error) {
	if inner == nil {
		return nil, fmt.Errorf("search: inner executor is required")
	}
	if versions == nil {
		return nil, fmt.Errorf("search: versions source is required")
	}
	if results == nil {
		return nil, fmt.Errorf("search: results cache is required")
	}
	if log == nil {
		log = searchcache.NopLogger{}
	}
	return &CachingExecutor{inner: inner, versions: versions, results: results, log: log}, nil
}

func (e *CachingExecutor) Execute(ctx context.Context, f Filters) (Page, error) {
	ver := e.versions.Version(ctx)
	canonical := f.Canonical()

	if p, ok, err := e.results.Get(ctx, ver, canonical); ok {
		return p, nil
	} else if err != nil {
		e.log.Debug("result cache read failed; recomputing", searchcache.Fields{"filters": canonical, "err": err})
	}

	p, err := e.inner.Execute(ctx, f)
	if err != nil {
		return Page{}, err
	}
	if err := e.results.Set(ctx, ver, canonical, p); err != nil {
		e.log.Debug("result cache write failed", searchcache.Fields{"filters": canonical, "err": err})
	}
	return p, nil
}
