// Package errutil centralizes the library's programmer-error handling:
// panics for violated invariants, gated behind a debug switch for the
// checks that are too expensive to run in a release build.
package errutil

import "fmt"

// debug gates the invariant checks that are too costly for a release
// build (currently sortedflat's cross-check of its binary-search run
// end against the rank/select skip list). Flip to true when chasing a
// corruption bug; leave false for benchmarks.
const debug = false

// Debug reports whether expensive invariant checks are compiled in.
func Debug() bool { return debug }

// Bug panics with a formatted message. Used for conditions that can
// only be reached by a bug in this package, never by bad caller input.
func Bug(format string, args ...any) {
	panic(fmt.Sprintf("brie: "+format, args...))
}

// BugOn panics with a formatted message if cond holds.
func BugOn(cond bool, format string, args ...any) {
	if cond {
		Bug(format, args...)
	}
}

// DebugOn is like BugOn but only evaluates when debug checks are
// enabled. cond is a thunk so the caller can skip computing it.
func DebugOn(cond func() bool, format string, args ...any) {
	if debug && cond() {
		Bug(format, args...)
	}
}

// First returns the first non-nil error among errs, or nil.
func First(errs ...error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}
