// Package tuple defines the value and tuple types shared by every
// trie variant: a totally ordered, hashable, copyable value type V,
// and a fixed-arity sequence of V.
//
// The original expresses V as an associated type in its Oneshot
// trait; Go generics have no associated-type mechanism, so every trie
// constructor is itself generic over V, constrained the way the
// teacher constrains its generic tries (Thesis/trie/hzft's UNumber
// pattern), widened from "unsigned integers" to "anything ordered".
package tuple

import "golang.org/x/exp/constraints"

// Ordered is the constraint every trie value type must satisfy: it is
// comparable (usable as a Go map key, required by the nested and
// hashflat backings) and totally ordered (required by the sortedflat
// backing's sort/merge and by the nested-sorted backing's binary
// search).
type Ordered = constraints.Ordered

// Tuple is a fixed-arity sequence of values. Go cannot tie an array
// length to a type parameter the way the original's const generic N
// does, so arity is carried as len(Values) and validated by callers
// against the trie's own Arity().
type Tuple[V Ordered] struct {
	Values []V
}

// Arity returns the tuple's length.
func (t Tuple[V]) Arity() int { return len(t.Values) }

// Less reports whether t sorts before o under lexicographic order on
// Values, the order sortedflat and nested-sorted both rely on.
func Less[V Ordered](t, o Tuple[V]) bool {
	n := len(t.Values)
	if len(o.Values) < n {
		n = len(o.Values)
	}
	for i := 0; i < n; i++ {
		if t.Values[i] != o.Values[i] {
			return t.Values[i] < o.Values[i]
		}
	}
	return len(t.Values) < len(o.Values)
}

// Equal reports whether t and o hold the same values.
func Equal[V Ordered](t, o Tuple[V]) bool {
	if len(t.Values) != len(o.Values) {
		return false
	}
	for i, v := range t.Values {
		if v != o.Values[i] {
			return false
		}
	}
	return true
}

// Of is a convenience constructor: tuple.Of(1, 2, 3).
func Of[V Ordered](vs ...V) Tuple[V] {
	return Tuple[V]{Values: vs}
}
