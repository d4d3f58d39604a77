// Package jobs holds the concrete task handlers: search cache warm-up,
// image ingestion and periodic notification draining. Handlers only wire
// validated inputs to the domain interfaces; anything that can go wrong
// comes back as a structured result for the task queue to record.
package jobs

import (
	"context"
	"fmt"

	"github.com/openestate/searchcache"
	"github.com/openestate/searchcache/search"
	"github.com/openestate/searchcache/tasks"
)

// WarmSearch returns the handler for searchcache.TaskWarmSearch. It parses
// the raw filter mapping (a malformed mapping fails the task, not the
// worker) and executes the search. Executing under the current version
// populates that version's cache entry as a consequence of the caching
// executor's write-through contract; the handler itself never touches the
// cache.
func WarmSearch(exec search.Executor, log searchcache.Logger) tasks.Handler {
	if log == nil {
		log = searchcache.NopLogger{}
	}
	return func(ctx context.Context, kwargs map[string]any) (map[string]any, error) {
		f, err := search.ParseFilters(kwargs)
		if err != nil {
			return nil, err
		}
		p, err := exec.Execute(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("warm %q: %w", f.Canonical(), err)
		}
		log.Debug("search cache warmed", searchcache.Fields{"filters": f.Canonical(), "total": p.TotalResults})
		return map[string]any{
			"total_results": p.TotalResults,
			"page":          p.Page,
			"limit":         p.Limit,
		}, nil
	}
}
