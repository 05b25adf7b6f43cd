// Package ordmap implements OrderedMap (spec component C3): a sorted
// (key, value) slice searched by binary search, used as the backing
// store for NestedTrie's sorted variant. Grounded directly on
// original_source/brie/src/sorted/nested.rs's Map type.
package ordmap

import (
	"brie/arena"
	"brie/internal/rawvec"
	"brie/tuple"
)

type entry[K tuple.Ordered, V any] struct {
	key K
	val V
}

// Map is a sorted, arena-backed association list searched by binary
// search. The zero value is not usable; construct with New.
type Map[K tuple.Ordered, V any] struct {
	buf *rawvec.Vec[entry[K, V]]
}

// New returns an empty Map whose storage is charged to a.
func New[K tuple.Ordered, V any](a *arena.Arena) *Map[K, V] {
	return &Map[K, V]{buf: rawvec.New[entry[K, V]](a)}
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return m.buf.Len() }

// At returns the key and value stored at position i in sorted order.
func (m *Map[K, V]) At(i int) (K, V) {
	e := m.buf.Get(i)
	return e.key, e.val
}

// Get returns the value stored for k, if any.
func (m *Map[K, V]) Get(k K) (V, bool) {
	i, ok := m.search(k)
	if !ok {
		var zero V
		return zero, false
	}
	return m.buf.Get(i).val, true
}

// Insert sets k's value to v, returning the previous value if k was
// already present.
func (m *Map[K, V]) Insert(k K, v V) (prev V, hadPrev bool) {
	i, found := m.search(k)
	if found {
		old := m.buf.Get(i)
		m.buf.Set(i, entry[K, V]{key: k, val: v})
		return old.val, true
	}
	m.insertAt(i, entry[K, V]{key: k, val: v})
	var zero V
	return zero, false
}

// GetOrInsert returns a pointer-free accessor pattern: if k is
// present its value is returned; otherwise mk() is called to produce
// a value, which is inserted and returned. Mirrors the original's
// get_or_insert used to walk-or-create NestedTrie child nodes.
func (m *Map[K, V]) GetOrInsert(k K, mk func() V) V {
	i, found := m.search(k)
	if found {
		return m.buf.Get(i).val
	}
	v := mk()
	m.insertAt(i, entry[K, V]{key: k, val: v})
	return v
}

// search performs the original's branch-ordered (not branch-free, Go
// has no perf-portable equivalent of the original's hand-tuned
// three-way compare) binary search: if/else in Less-then-Greater
// order, matching the original's comment that match reorders compares
// in a perf-sensitive way.
func (m *Map[K, V]) search(k K) (index int, found bool) {
	left, right := 0, m.buf.Len()
	for left < right {
		mid := left + (right-left)/2
		midKey := m.buf.Get(mid).key
		if midKey < k {
			left = mid + 1
		} else if midKey > k {
			right = mid
		} else {
			return mid, true
		}
	}
	return left, false
}

func (m *Map[K, V]) insertAt(index int, e entry[K, V]) {
	m.buf.Push(e) // grow by one, value temporarily duplicated at the tail
	s := m.buf.Slice()
	copy(s[index+1:], s[index:len(s)-1])
	s[index] = e
}

// Keys returns every key in ascending order.
func (m *Map[K, V]) Keys() []K {
	ks := make([]K, m.buf.Len())
	for i := range ks {
		ks[i] = m.buf.Get(i).key
	}
	return ks
}

// ByteSize estimates the backing store's footprint.
func (m *Map[K, V]) ByteSize() int { return m.buf.ByteSize() }
