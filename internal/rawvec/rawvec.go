// Package rawvec implements the growable vector every trie backing
// store is built from, grounded on the original's bump-arena BumpVec
// (original_source/brie/src/sorted/vec/mod.rs) and on the arena-backed
// Vec used by the example pack's arena package.
//
// A literal byte-level carve out of an arena (as the original does
// with its untyped bump allocator) is unsound in Go whenever T
// contains pointers: the garbage collector would not know to scan
// arena bytes reinterpreted as pointer-bearing values. Vec instead
// tracks the arena it was built from purely for bookkeeping (reports,
// ByteSize) and grows its backing store with ordinary Go slice
// doubling, which the runtime GC already scans correctly.
package rawvec

import (
	"brie/arena"
	"unsafe"
)

// Vec is a growable, arena-accounted slice. The zero value is not
// usable; construct with New.
type Vec[T any] struct {
	a    *arena.Arena
	data []T
}

// New returns an empty Vec that charges its growth to a.
func New[T any](a *arena.Arena) *Vec[T] {
	return &Vec[T]{a: a}
}

// WithCapacity returns an empty Vec pre-sized to hold n elements
// without reallocating.
func WithCapacity[T any](a *arena.Arena, n int) *Vec[T] {
	v := &Vec[T]{a: a}
	if n > 0 {
		v.data = make([]T, 0, n)
	}
	return v
}

// FromSlice wraps an existing slice as a Vec, taking ownership of it.
func FromSlice[T any](a *arena.Arena, s []T) *Vec[T] {
	return &Vec[T]{a: a, data: s}
}

// Push appends v, growing the backing store (doubling) if needed.
func (vec *Vec[T]) Push(v T) {
	vec.data = append(vec.data, v)
}

// PushAll appends every element of vs.
func (vec *Vec[T]) PushAll(vs []T) {
	vec.data = append(vec.data, vs...)
}

// Len returns the number of live elements.
func (vec *Vec[T]) Len() int { return len(vec.data) }

// Cap returns the backing store's capacity.
func (vec *Vec[T]) Cap() int { return cap(vec.data) }

// Get returns the element at i.
func (vec *Vec[T]) Get(i int) T { return vec.data[i] }

// Set overwrites the element at i.
func (vec *Vec[T]) Set(i int, v T) { vec.data[i] = v }

// Slice returns the live elements as a plain Go slice. The slice
// aliases Vec's storage; callers must not retain it across further
// mutation of the Vec.
func (vec *Vec[T]) Slice() []T { return vec.data }

// Truncate drops elements beyond index n. A no-op if n >= Len().
func (vec *Vec[T]) Truncate(n int) {
	if n < len(vec.data) {
		vec.data = vec.data[:n]
	}
}

// ByteSize estimates the backing store's footprint, element size
// times capacity, for memory reports.
func (vec *Vec[T]) ByteSize() int {
	var zero T
	return int(unsafe.Sizeof(zero)) * cap(vec.data)
}
