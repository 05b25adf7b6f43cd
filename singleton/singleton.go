// Package singleton implements SingletonHashTrie (spec component C7):
// a node starts Empty, stays a cheap single-value Data node as long as
// it only ever sees one distinct child value, and is promoted to a
// hashed Map node only once a second distinct value arrives. Grounded
// on original_source/brie/src/simple_hash.rs and simple_hash2.rs's
// Empty/Data/Map node enum and promote-on-second-distinct-value rule;
// bucket widths come from a per-column github.com/axiomhq/hyperloglog
// estimate rather than simple_hash2.rs's running counters, since that
// is the library the rest of the module already leans on for
// cardinality estimation and the teacher's pack wires it for exactly
// this purpose (sized maps, not exact counts).
package singleton

import (
	"sort"
	"unsafe"

	"github.com/axiomhq/hyperloglog"

	"brie/hashutil"
	"brie/internal/bitutil"
	"brie/internal/errutil"
	"brie/tuple"
)

// maxColBits bounds the initial bucket table a promotion allocates,
// so a wildly overestimated column cardinality can't pre-allocate an
// unreasonable table; grow() still extends a table that turns out to
// be too small.
const maxColBits = 20

type state int

const (
	stateEmpty state = iota
	stateData
	stateMap
)

// bucket is one slot of a promoted node's open-addressed table.
type bucket[V tuple.Ordered] struct {
	occupied    bool
	value       V
	fingerprint uint64
	count       int
	child       *node[V]
}

// node is a SingletonHashTrie node in one of its three states.
type node[V tuple.Ordered] struct {
	st state

	// stateData
	dataValue V
	dataCount int
	dataChild *node[V]

	// stateMap
	buckets    []bucket[V]
	bucketBits int
	filled     int
}

func newNode[V tuple.Ordered]() *node[V] { return &node[V]{st: stateEmpty} }

// insert records v as a child of n, returning the (possibly new)
// child node reached through it. colBits sizes the bucket table if
// this insertion is the one that promotes n to a Map node.
func (n *node[V]) insert(v V, colBits int) *node[V] {
	switch n.st {
	case stateEmpty:
		n.st = stateData
		n.dataValue = v
		n.dataCount = 1
		n.dataChild = newNode[V]()
		return n.dataChild

	case stateData:
		if n.dataValue == v {
			n.dataCount++
			return n.dataChild
		}
		n.promote(colBits)
		return n.insertBucket(v)

	case stateMap:
		return n.insertBucket(v)

	default:
		errutil.Bug("singleton: node in unknown state %d", n.st)
		return nil
	}
}

// promote moves a Data node's single (value, count, child) triple
// into a freshly allocated bucket table, sized from the column's
// HyperLogLog estimate with a floor of 2 slots (it must fit the
// entry being displaced plus the one about to be inserted).
func (n *node[V]) promote(colBits int) {
	bits := colBits
	if bits < 1 {
		bits = 1
	}
	n.buckets = make([]bucket[V], 1<<uint(bits))
	n.bucketBits = bits
	n.filled = 0

	oldValue, oldCount, oldChild := n.dataValue, n.dataCount, n.dataChild
	n.st = stateMap
	b := n.insertBucketEntry(oldValue)
	b.count = oldCount
	b.child = oldChild
}

// insertBucket records one more occurrence of v in n's table, creating
// its entry (fresh child) if v is new, and growing the table first if
// it is already full.
func (n *node[V]) insertBucket(v V) *node[V] {
	if n.filled >= len(n.buckets) {
		n.grow()
	}
	b := n.insertBucketEntry(v)
	b.count++
	return b.child
}

// insertBucketEntry finds v's slot via linear probing from the top
// bits of its fingerprint, creating a fresh entry (count 0, new child)
// if v is not already present, and returns that slot.
func (n *node[V]) insertBucketEntry(v V) *bucket[V] {
	fp := hashutil.Fingerprint64(v)
	mask := uint64(len(n.buckets) - 1)
	idx := (fp >> (64 - uint(n.bucketBits))) & mask
	for i := uint64(0); i < uint64(len(n.buckets)); i++ {
		slot := (idx + i) & mask
		b := &n.buckets[slot]
		if !b.occupied {
			b.occupied = true
			b.value = v
			b.fingerprint = fp
			b.count = 0
			b.child = newNode[V]()
			n.filled++
			return b
		}
		if b.fingerprint == fp && b.value == v {
			return b
		}
	}
	errutil.Bug("singleton: bucket table full after grow")
	return nil
}

// grow doubles the table and rehashes every occupied entry into it.
func (n *node[V]) grow() {
	old := n.buckets
	n.bucketBits++
	n.buckets = make([]bucket[V], 1<<uint(n.bucketBits))
	n.filled = 0
	for _, b := range old {
		if !b.occupied {
			continue
		}
		nb := n.insertBucketEntry(b.value)
		nb.count = b.count
		nb.child = b.child
	}
}

// lookup returns the child reached by v, without mutating n.
func (n *node[V]) lookup(v V) (*node[V], bool) {
	switch n.st {
	case stateEmpty:
		return nil, false
	case stateData:
		if n.dataValue == v {
			return n.dataChild, true
		}
		return nil, false
	case stateMap:
		fp := hashutil.Fingerprint64(v)
		mask := uint64(len(n.buckets) - 1)
		idx := (fp >> (64 - uint(n.bucketBits))) & mask
		for i := uint64(0); i < uint64(len(n.buckets)); i++ {
			b := &n.buckets[(idx+i)&mask]
			if !b.occupied {
				return nil, false
			}
			if b.fingerprint == fp && b.value == v {
				return b.child, true
			}
		}
		return nil, false
	default:
		return nil, false
	}
}

// keysSorted returns n's distinct child values in ascending order.
// Map nodes store entries at hash-derived positions, not value order,
// so they're sorted on the way out; Leapfrog-style intersection needs
// ascending children regardless of how the node stores them.
func (n *node[V]) keysSorted() []V {
	switch n.st {
	case stateEmpty:
		return nil
	case stateData:
		return []V{n.dataValue}
	case stateMap:
		out := make([]V, 0, n.filled)
		for _, b := range n.buckets {
			if b.occupied {
				out = append(out, b.value)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
		return out
	default:
		return nil
	}
}

func (n *node[V]) childCount() int {
	switch n.st {
	case stateEmpty:
		return 0
	case stateData:
		return 1
	case stateMap:
		return n.filled
	default:
		return 0
	}
}

// Trie is a SingletonHashTrie over arity-N tuples of V.
type Trie[V tuple.Ordered] struct {
	arity   int
	root    *node[V]
	colBits []int
}

// Build runs spec.md's two-pass construction: first a per-column
// HyperLogLog cardinality estimate (one sketch per attribute
// position, fed every tuple's value at that column regardless of
// where it sits in the tree — a deliberately coarse, global estimate,
// since a per-prefix sketch would cost one sketch per node instead of
// one per column), then a single insertion pass that walks each tuple
// level by level through insert, relying on promote to size each
// newly-hashed node from its column's estimate.
func Build[V tuple.Ordered](tuples []tuple.Tuple[V]) *Trie[V] {
	if len(tuples) == 0 {
		return &Trie[V]{}
	}
	arity := tuples[0].Arity()

	colBits := make([]int, arity)
	for lvl := 0; lvl < arity; lvl++ {
		sk, err := hyperloglog.NewSketch(4, true)
		errutil.BugOn(err != nil, "singleton: cannot create HyperLogLog sketch: %v", err)
		for _, t := range tuples {
			sk.Insert(hashutil.EncodeBytes(t.Values[lvl]))
		}
		bits := bitutil.BitsFor(sk.Estimate())
		if bits > maxColBits {
			bits = maxColBits
		}
		colBits[lvl] = bits
	}

	root := newNode[V]()
	for _, t := range tuples {
		cur := root
		for lvl := 0; lvl < arity; lvl++ {
			cur = cur.insert(t.Values[lvl], colBits[lvl])
		}
	}

	return &Trie[V]{arity: arity, root: root, colBits: colBits}
}

// Cursor identifies a node reached by some prefix of values.
type Cursor[V tuple.Ordered] struct {
	n *node[V]
}

// Root returns a cursor over the trie's root node.
func (t *Trie[V]) Root() Cursor[V] { return Cursor[V]{n: t.root} }

// Arity returns the tuple arity this trie was built for.
func (t *Trie[V]) Arity() int { return t.arity }

// Advance descends cur by one value, reporting whether v is present.
func (t *Trie[V]) Advance(cur Cursor[V], v V) (Cursor[V], bool) {
	if cur.n == nil {
		return Cursor[V]{}, false
	}
	child, ok := cur.n.lookup(v)
	if !ok {
		return Cursor[V]{}, false
	}
	return Cursor[V]{n: child}, true
}

// Children returns cur's distinct child values in ascending order.
func (t *Trie[V]) Children(cur Cursor[V]) []V {
	if cur.n == nil {
		return nil
	}
	return cur.n.keysSorted()
}

// Multiplicity returns how many tuples share the exact prefix that
// reached cur, read off the count recorded against the last value
// consumed to get here. Callers reach this through the Advance that
// produced cur, not through Cursor itself, so it takes the parent and
// the value advanced on.
func (t *Trie[V]) Multiplicity(parent Cursor[V], v V) int {
	if parent.n == nil {
		errutil.Bug("singleton: Multiplicity called on a nil cursor")
	}
	switch parent.n.st {
	case stateData:
		if parent.n.dataValue == v {
			return parent.n.dataCount
		}
	case stateMap:
		fp := hashutil.Fingerprint64(v)
		mask := uint64(len(parent.n.buckets) - 1)
		idx := (fp >> (64 - uint(parent.n.bucketBits))) & mask
		for i := uint64(0); i < uint64(len(parent.n.buckets)); i++ {
			b := &parent.n.buckets[(idx+i)&mask]
			if !b.occupied {
				break
			}
			if b.fingerprint == fp && b.value == v {
				return b.count
			}
		}
	}
	errutil.Bug("singleton: Multiplicity called with a value absent from parent")
	return 0
}

// Intersect scans the smallest child set among self and others,
// keeping only values present in every cursor's children — the same
// smallest-set-scan strategy nested.Intersect uses, appropriate here
// too since neither trie guarantees a fast skip-ahead the way the flat
// variants do.
func (t *Trie[V]) Intersect(self Cursor[V], others ...Cursor[V]) []V {
	all := append([]Cursor[V]{self}, others...)
	smallest := 0
	for i, c := range all {
		if c.n == nil {
			return nil
		}
		if c.n.childCount() < all[smallest].n.childCount() {
			smallest = i
		}
	}

	candidates := all[smallest].n.keysSorted()
	var out []V
	for _, v := range candidates {
		matchesAll := true
		for i, c := range all {
			if i == smallest {
				continue
			}
			if _, ok := c.n.lookup(v); !ok {
				matchesAll = false
				break
			}
		}
		if matchesAll {
			out = append(out, v)
		}
	}
	return out
}

// ByteSize estimates the trie's heap footprint for memory reports.
func (t *Trie[V]) ByteSize() int {
	if t.root == nil {
		return 0
	}
	return byteSize(t.root)
}

func byteSize[V tuple.Ordered](n *node[V]) int {
	if n == nil {
		return 0
	}
	total := int(unsafe.Sizeof(*n))
	switch n.st {
	case stateData:
		total += byteSize(n.dataChild)
	case stateMap:
		total += len(n.buckets) * int(unsafe.Sizeof(bucket[V]{}))
		for _, b := range n.buckets {
			if b.occupied {
				total += byteSize(b.child)
			}
		}
	}
	return total
}
