// Package bench supplies the comparison harness: build benchmarks over
// the trie variants and the reinstated Vanilla baseline on flat
// (1-level), mid (3-level) and nested (5-level) synthetic tuple shapes,
// plus an extra succinct-structure reference point. The intersect
// benchmark covers hashflat only, on the mid and nested shapes; the
// other variants are not intersect-benchmarked.
package bench

import (
	"unsafe"

	"brie/tuple"
)

// Vanilla is the "no cleverness" baseline the original ships
// (original_source/brie/src/vanilla.rs's Trie<T>(HashMap<T,Self>)): a
// plain recursive map-of-maps with no flattening, no arena, no hashed
// addressing — the floor every real variant in this module is
// expected to beat on both memory and intersect throughput.
type Vanilla[V tuple.Ordered] struct {
	arity int
	root  *vanillaNode[V]
}

type vanillaNode[V tuple.Ordered] struct {
	children map[V]*vanillaNode[V]
}

func newVanillaNode[V tuple.Ordered]() *vanillaNode[V] {
	return &vanillaNode[V]{children: make(map[V]*vanillaNode[V])}
}

// BuildVanilla constructs a Vanilla trie with one walk-and-insert pass
// per tuple, the same shape as every other variant's Build.
func BuildVanilla[V tuple.Ordered](tuples []tuple.Tuple[V]) *Vanilla[V] {
	t := &Vanilla[V]{root: newVanillaNode[V]()}
	for _, tup := range tuples {
		if t.arity == 0 {
			t.arity = tup.Arity()
		}
		cur := t.root
		for _, v := range tup.Values {
			next, ok := cur.children[v]
			if !ok {
				next = newVanillaNode[V]()
				cur.children[v] = next
			}
			cur = next
		}
	}
	return t
}

// VanillaCursor identifies a node reached by a sequence of values.
type VanillaCursor[V tuple.Ordered] struct{ n *vanillaNode[V] }

// Root returns a cursor at the trie's root.
func (t *Vanilla[V]) Root() VanillaCursor[V] { return VanillaCursor[V]{n: t.root} }

// Advance looks up v among cur's children.
func (t *Vanilla[V]) Advance(cur VanillaCursor[V], v V) (VanillaCursor[V], bool) {
	c, ok := cur.n.children[v]
	if !ok {
		return VanillaCursor[V]{}, false
	}
	return VanillaCursor[V]{n: c}, true
}

// Children returns cur's child values, in whatever order the
// underlying Go map iterates them in — Vanilla makes no ordering
// promise, unlike every other variant.
func (t *Vanilla[V]) Children(cur VanillaCursor[V]) []V {
	out := make([]V, 0, len(cur.n.children))
	for v := range cur.n.children {
		out = append(out, v)
	}
	return out
}

// Intersect does the simplest possible thing: scan the smallest
// child map, probe every other one by direct lookup.
func (t *Vanilla[V]) Intersect(self VanillaCursor[V], others ...VanillaCursor[V]) []V {
	smallest := self
	for _, o := range others {
		if len(o.n.children) < len(smallest.n.children) {
			smallest = o
		}
	}

	var out []V
	for v := range smallest.n.children {
		ok := true
		if smallest.n != self.n {
			if _, present := self.n.children[v]; !present {
				ok = false
			}
		}
		if ok {
			for _, o := range others {
				if o.n == smallest.n {
					continue
				}
				if _, present := o.n.children[v]; !present {
					ok = false
					break
				}
			}
		}
		if ok {
			out = append(out, v)
		}
	}
	return out
}

// ByteSize estimates Vanilla's heap footprint: no arena tracks it (it
// never uses one), so this is a per-entry map-overhead estimate only,
// used as the memory-comparison ceiling the arena-backed variants are
// expected to undercut.
func (t *Vanilla[V]) ByteSize() int {
	return byteSizeVanilla(t.root)
}

func byteSizeVanilla[V tuple.Ordered](n *vanillaNode[V]) int {
	var zero V
	const mapBucketOverhead = 48 // rough per-entry overhead of a Go map bucket
	total := len(n.children) * (mapBucketOverhead + int(unsafe.Sizeof(zero)))
	for _, c := range n.children {
		total += byteSizeVanilla(c)
	}
	return total
}
