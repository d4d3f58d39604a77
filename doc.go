// Package searchcache keeps a listing backend's search-result cache
// consistent with its mutable store via a single shared version counter.
// Every cached result page is keyed under the current version; a listing
// mutation bumps the counter (one atomic increment), which orphans all prior
// entries at once, and optionally schedules warm-up tasks for the hottest
// filter sets.
//
// Components:
//   - Client: lazily dials the shared store once, then freezes the outcome.
//     A failed dial puts the process in degraded mode where every cache
//     operation is a transparent no-op or miss.
//   - Controller: owns the version key's write path. Version reads never
//     fail a request; they fall back to the default version 1.
//   - Results[V]: versioned result-page cache with wire framing; entries
//     written under an older version self-heal on read.
//
// Keys:
//
//	search-results:v<version>:<canonical>  - result pages
//	static:<ns>:g<gen>:<key>               - static namespace entries
//	static:gen:<ns>                        - namespace generation tags
//	search:version                         - the cache version counter
//
// Invalidation pattern:
//
//	ctrl, _ := searchcache.New(searchcache.Options{Client: client, Enqueuer: tasksClient})
//	ver, _ := ctrl.Invalidate(ctx, "listing_updated", true)
//	// returns immediately; warm-up runs on the task workers
package searchcache
