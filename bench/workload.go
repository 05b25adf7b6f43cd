package bench

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/dgryski/go-radixsort"

	"brie/tuple"
)

// Shape names a synthetic workload's arity, matching spec.md's three
// comparison points: flat (1-level), mid (3-level), nested (5-level).
type Shape int

const (
	Flat   Shape = 1
	Mid    Shape = 3
	Nested Shape = 5
)

// GenerateInt builds n random tuples of the given shape's arity, each
// column drawn from [0, fanout), sorted lexicographically — the shape
// sortedflat and hashflat both require of their input.
func GenerateInt(shape Shape, n, fanout int, r *rand.Rand) []tuple.Tuple[int] {
	arity := int(shape)
	out := make([]tuple.Tuple[int], n)
	for i := range out {
		vs := make([]int, arity)
		for j := range vs {
			vs[j] = r.Intn(fanout)
		}
		out[i] = tuple.Tuple[int]{Values: vs}
	}
	sort.Slice(out, func(i, j int) bool { return tuple.Less(out[i], out[j]) })
	return out
}

// GenerateString builds a flat (single-column) string-keyed workload,
// pre-sorted with github.com/dgryski/go-radixsort's byte-keyed sort —
// the library's actual surface (Strings/Bytes, not a general
// comparator) fits this single-column case directly, unlike
// sortedflat's multi-attribute generic sort.
func GenerateString(n, keyLen int, r *rand.Rand) []string {
	keys := make([]string, n)
	for i := range keys {
		buf := make([]byte, keyLen)
		for j := range buf {
			buf[j] = byte('a' + r.Intn(26))
		}
		keys[i] = string(buf)
	}
	radixsort.Strings(keys)
	return keys
}

// TuplesFromStrings wraps a flat string workload as arity-1 tuples,
// for variants that want a uniform tuple.Tuple[V] input regardless of
// column type.
func TuplesFromStrings(keys []string) []tuple.Tuple[string] {
	out := make([]tuple.Tuple[string], len(keys))
	for i, k := range keys {
		out[i] = tuple.Tuple[string]{Values: []string{k}}
	}
	return out
}

// Label renders a shape for report/printf output.
func (s Shape) Label() string {
	switch s {
	case Flat:
		return "flat(1)"
	case Mid:
		return "mid(3)"
	case Nested:
		return "nested(5)"
	default:
		return fmt.Sprintf("arity(%d)", int(s))
	}
}
