package searchcache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// The dial to the shared store failed; the process runs degraded from
	// now on. Fired at most once per process.
	StoreUnavailable(err error)

	// The stored version value could not be parsed as an integer; the
	// reader fell back to the default version.
	VersionParseError(raw string, err error)

	// A cached entry was deleted by the cache on read.
	// reason ∈ {"corrupt", "version_mismatch", "value_decode"}
	StaleEntryHealed(storageKey, reason string)

	// The store returned ok=false on Set (backpressure/eviction).
	StoreSetRejected(storageKey string)

	// One independent step of an invalidation failed.
	// step ∈ {"bump", "namespace", "prewarm"}
	InvalidateStepFailed(step, reason string, err error)

	// Warm-up tasks were submitted after an invalidation.
	PrewarmScheduled(reason string, count int)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) StoreUnavailable(error)                     {}
func (NopHooks) VersionParseError(string, error)            {}
func (NopHooks) StaleEntryHealed(string, string)            {}
func (NopHooks) StoreSetRejected(string)                    {}
func (NopHooks) InvalidateStepFailed(string, string, error) {}
func (NopHooks) PrewarmScheduled(string, int)               {}
