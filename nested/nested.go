// Package nested implements NestedTrie (spec component C4): a
// recursive Map[V -> NestedTrie] built by walking each tuple, with two
// interchangeable backings — a Go map (hash-nested, grounded on
// original_source/brie/src/vanilla.rs's Trie<T>(HashMap<T,Self>)) and
// an ordmap.Map (sorted-nested, grounded on
// original_source/brie/src/sorted/nested.rs's Trie<T>(Map<T,Self>)).
//
// Duplicates collapse at every level: this variant has set semantics,
// matching spec invariant I1's carve-out for NestedTrie.
package nested

import (
	"sort"
	"unsafe"

	"brie/arena"
	"brie/ordmap"
	"brie/tuple"
)

// Backing selects how a node's children are indexed.
type Backing int

const (
	// Hash indexes children with a Go map (amortized O(1) advance).
	Hash Backing = iota
	// Sorted indexes children with an ordmap.Map (O(log n) advance,
	// ordered iteration without a sort).
	Sorted
)

type node[V tuple.Ordered] struct {
	hashChildren   map[V]*node[V]
	sortedChildren *ordmap.Map[V, *node[V]]
}

func newNode[V tuple.Ordered](a *arena.Arena, backing Backing) *node[V] {
	n := &node[V]{}
	switch backing {
	case Hash:
		n.hashChildren = make(map[V]*node[V])
	case Sorted:
		n.sortedChildren = ordmap.New[V, *node[V]](a)
	}
	return n
}

func (n *node[V]) get(v V) (*node[V], bool) {
	if n.hashChildren != nil {
		c, ok := n.hashChildren[v]
		return c, ok
	}
	return n.sortedChildren.Get(v)
}

func (n *node[V]) getOrInsert(v V, a *arena.Arena, backing Backing) *node[V] {
	if n.hashChildren != nil {
		if c, ok := n.hashChildren[v]; ok {
			return c
		}
		c := newNode[V](a, backing)
		n.hashChildren[v] = c
		return c
	}
	return n.sortedChildren.GetOrInsert(v, func() *node[V] { return newNode[V](a, backing) })
}

func (n *node[V]) keysSorted() []V {
	if n.hashChildren != nil {
		ks := make([]V, 0, len(n.hashChildren))
		for k := range n.hashChildren {
			ks = append(ks, k)
		}
		sort.Slice(ks, func(i, j int) bool { return ks[i] < ks[j] })
		return ks
	}
	return n.sortedChildren.Keys()
}

func (n *node[V]) len() int {
	if n.hashChildren != nil {
		return len(n.hashChildren)
	}
	return n.sortedChildren.Len()
}

// Trie is a NestedTrie over tuples of V, rooted at an internal node
// one level above the first attribute.
type Trie[V tuple.Ordered] struct {
	arena   *arena.Arena
	backing Backing
	arity   int
	root    *node[V]
}

// Build constructs a Trie from tuples, one walk-and-insert pass per
// tuple, exactly as the original's from_iter does.
func Build[V tuple.Ordered](a *arena.Arena, backing Backing, tuples []tuple.Tuple[V]) *Trie[V] {
	t := &Trie[V]{arena: a, backing: backing, root: newNode[V](a, backing)}
	for _, tup := range tuples {
		if t.arity == 0 {
			t.arity = tup.Arity()
		}
		cur := t.root
		for _, v := range tup.Values {
			cur = cur.getOrInsert(v, a, backing)
		}
	}
	return t
}

// Arity returns the tuple arity this trie was built for.
func (t *Trie[V]) Arity() int { return t.arity }

// Cursor identifies a node reached by a sequence of Advance calls.
type Cursor[V tuple.Ordered] struct {
	n *node[V]
}

// Root returns a cursor at the trie's root.
func (t *Trie[V]) Root() Cursor[V] { return Cursor[V]{n: t.root} }

// Advance looks up v among cur's children, returning the child cursor
// and whether it exists.
func (t *Trie[V]) Advance(cur Cursor[V], v V) (Cursor[V], bool) {
	c, ok := cur.n.get(v)
	if !ok {
		return Cursor[V]{}, false
	}
	return Cursor[V]{n: c}, true
}

// Children returns cur's child values in ascending order.
func (t *Trie[V]) Children(cur Cursor[V]) []V {
	return cur.n.keysSorted()
}

// Intersect walks the smallest child set among self and others,
// emitting values present in every one. Both backings use this same
// scan: the smallest set's keys are visited in ascending order (the
// hash backing sorts them first) and every other set is probed by
// lookup; no k-way merge over the sorted sources is performed. The
// output is therefore ascending for both backings.
func (t *Trie[V]) Intersect(self Cursor[V], others ...Cursor[V]) []V {
	smallest := self
	for _, o := range others {
		if o.n.len() < smallest.n.len() {
			smallest = o
		}
	}

	var out []V
	for _, v := range smallest.n.keysSorted() {
		ok := true
		if smallest.n != self.n {
			if _, present := self.n.get(v); !present {
				ok = false
			}
		}
		if ok {
			for _, o := range others {
				if o.n == smallest.n {
					continue
				}
				if _, present := o.n.get(v); !present {
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

// ByteSize estimates the trie's heap footprint for memory reports.
// The hash backing's map overhead cannot be measured precisely from
// outside the runtime, so this reports the arena-tracked allocations
// only (sorted backing) or a per-entry estimate (hash backing).
func (t *Trie[V]) ByteSize() int {
	return t.byteSize(t.root)
}

func (t *Trie[V]) byteSize(n *node[V]) int {
	total := 0
	if n.hashChildren != nil {
		var zero V
		total += len(n.hashChildren) * (8 + sizeofValue(zero))
		for _, c := range n.hashChildren {
			total += t.byteSize(c)
		}
	} else {
		total += n.sortedChildren.ByteSize()
		for _, k := range n.sortedChildren.Keys() {
			c, _ := n.sortedChildren.Get(k)
			total += t.byteSize(c)
		}
	}
	return total
}

func sizeofValue[V any](v V) int {
	return int(unsafe.Sizeof(v))
}
