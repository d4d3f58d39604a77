package searchcache

import (
	"errors"
	"fmt"
)

// ErrUnavailable reports that the shared cache store could not be reached.
// Callers inside this module treat it as a regular branch (degraded mode),
// never as a request failure.
var ErrUnavailable = errors.New("searchcache: cache store unavailable")

// InvalidateError aggregates the failures of an invalidation's independent
// steps. Invalidation is best-effort beyond the version bump itself, so the
// Controller returns this for observability only; it is always safe to
// ignore.
type InvalidateError struct {
	Reason       string
	BumpErr      error
	NamespaceErr error
	EnqueueErrs  []error
}

func (e *InvalidateError) Error() string {
	switch {
	case e.BumpErr != nil:
		return fmt.Sprintf("invalidate (%s): version bump failed: %v", e.Reason, e.BumpErr)
	case e.NamespaceErr != nil:
		return fmt.Sprintf("invalidate (%s): namespace clear failed: %v", e.Reason, e.NamespaceErr)
	case len(e.EnqueueErrs) > 0:
		return fmt.Sprintf("invalidate (%s): %d prewarm enqueue(s) failed: %v",
			e.Reason, len(e.EnqueueErrs), e.EnqueueErrs[0])
	default:
		return fmt.Sprintf("invalidate (%s): unknown error", e.Reason)
	}
}

func (e *InvalidateError) Unwrap() []error {
	errs := make([]error, 0, 2+len(e.EnqueueErrs))
	if e.BumpErr != nil {
		errs = append(errs, e.BumpErr)
	}
	if e.NamespaceErr != nil {
		errs = append(errs, e.NamespaceErr)
	}
	errs = append(errs, e.EnqueueErrs...)
	return errs
}

func (e *InvalidateError) empty() bool {
	return e.BumpErr == nil && e.NamespaceErr == nil && len(e.EnqueueErrs) == 0
}
