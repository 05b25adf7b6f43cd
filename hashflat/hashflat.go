// Package hashflat implements HashFlatTrie (spec component C6), the
// main algorithmic core: two flat arrays of cache-line-sized key
// blocks addressed by a level-indexed hash, with open collision
// chains and a separate ascending-value sibling chain for
// Leapfrog-style intersection. Grounded on
// original_source/brie/src/hash.rs's Trie/Key/Sibling/Child design,
// extended with the tupleSib chain spec.md's intersect algorithm
// requires (hash.rs's own Sibling field is a collision chain only; it
// has no notion of value-ascending traversal across distinct
// children, which this package adds as a second, tagged sibling
// field — see key.go and DESIGN.md).
package hashflat

import (
	"errors"
	"math/bits"
	"unsafe"

	"github.com/bits-and-blooms/bitset"
	"github.com/bits-and-blooms/bloom/v3"

	"brie/hashutil"
	"brie/internal/errutil"
	"brie/tuple"
)

// ErrCapacityUnknown is returned by BuildFromIter when the input
// source cannot report a lower-bound size, since the slot table must
// be sized up front (spec 4.4.8).
var ErrCapacityUnknown = errors.New("hashflat: input has no size hint")

type sizing struct {
	hashCap  uint64
	hashBits int
	lvlBits  int
}

func computeSizing(l, n int) sizing {
	needed := uint64(float64(l*n)*1.25 + 0.999999) // ceil
	hashCap := nextPow2(needed)
	lvlCap := nextPow2(uint64(n))
	return sizing{
		hashCap:  hashCap,
		hashBits: log2(hashCap),
		lvlBits:  log2(lvlCap),
	}
}

func nextPow2(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	return uint64(1) << uint(64-bits.LeadingZeros64(n-1))
}

func log2(n uint64) int {
	if n <= 1 {
		return 0
	}
	return bits.Len64(n - 1)
}

// Trie is a HashFlatTrie over arity-N tuples of V.
type Trie[V tuple.Ordered] struct {
	arity    int
	sz       sizing
	primary  []key[V]
	overflow []key[V]
	data     []tuple.Tuple[V]
	rootChild Child

	claimed *bitset.BitSet       // primary slots written at least once
	filters []*bloom.BloomFilter // one per level, membership of (parentIx,value) pairs seen
}

// BuildFromIter builds from a source that may not know its own size.
// knownSize models the iterator's lower-bound size hint: when
// knownSize is false construction fails with ErrCapacityUnknown
// before consuming tuples, exactly as spec 4.4.8 prescribes.
func BuildFromIter[V tuple.Ordered](tuples []tuple.Tuple[V], knownSize bool) (*Trie[V], error) {
	if !knownSize {
		return nil, ErrCapacityUnknown
	}
	return Build(tuples)
}

// Build constructs a Trie from tuples, which MUST already be sorted
// lexicographically (spec 4.4.3's precondition; violating it produces
// a malformed tupleSib chain and is not checked here).
func Build[V tuple.Ordered](tuples []tuple.Tuple[V]) (*Trie[V], error) {
	t := &Trie[V]{rootChild: NoneChild}
	if len(tuples) == 0 {
		return t, nil
	}
	arity := tuples[0].Arity()
	sz := computeSizing(len(tuples), arity)
	primaryLen := sz.hashCap << uint(sz.lvlBits)

	t.arity = arity
	t.sz = sz
	t.primary = make([]key[V], primaryLen)
	t.claimed = bitset.New(uint(primaryLen))
	t.filters = make([]*bloom.BloomFilter, arity)
	for i := range t.primary {
		t.primary[i] = newKey[V]()
	}
	for lvl := range t.filters {
		t.filters[lvl] = bloom.NewWithEstimates(uint(len(tuples)+1), 0.01)
	}

	type sibEntry struct {
		valid bool
		value V
		block Ix
	}
	curSibs := make([]sibEntry, arity)

	var prev tuple.Tuple[V]
	hasPrev := false

	for _, tup := range tuples {
		lcp := 0
		if hasPrev {
			lcp = commonPrefixLen(prev, tup)
		}
		for lvl := lcp + 1; lvl < arity; lvl++ {
			curSibs[lvl].valid = false
		}

		curIx := NoneIx
		for lvl := 0; lvl < arity; lvl++ {
			v := tup.Values[lvl]
			newBlockIx := t.insertAt(curIx, v, lvl)
			t.filters[lvl].Add(pairKey(curIx.Raw(), v))

			if lvl == 0 {
				if t.rootChild.IsNone() {
					t.rootChild = blockIxToChild(newBlockIx)
				}
			} else {
				parent := t.block(curIx)
				if parent.child.IsNone() {
					parent.child = blockIxToChild(newBlockIx)
				}
			}

			if curSibs[lvl].valid && curSibs[lvl].value != v {
				prevBlock := t.block(curSibs[lvl].block)
				if prevBlock.tupleSib.IsNone() {
					prevBlock.tupleSib = newBlockIx
				}
			}
			curSibs[lvl] = sibEntry{valid: true, value: v, block: newBlockIx}

			curIx = newBlockIx
		}

		t.data = append(t.data, tup)
		// Only the first occurrence of a terminal block claims the data
		// pointer: later exact duplicates append to t.data but must not
		// move it forward, or Materialize's forward scan from this
		// block would skip straight past the earlier occurrences.
		terminal := t.block(curIx)
		if terminal.child.IsNone() {
			terminal.child = ChildData(uint64(len(t.data) - 1))
		}

		prev = tup
		hasPrev = true
	}

	return t, nil
}

func pairKey[V tuple.Ordered](parentIx uint64, v V) []byte {
	h := hashutil.PairFingerprint64(parentIx, v)
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(h >> (8 * i))
	}
	return buf[:]
}

func commonPrefixLen[V tuple.Ordered](a, b tuple.Tuple[V]) int {
	n := len(a.Values)
	if len(b.Values) < n {
		n = len(b.Values)
	}
	i := 0
	for i < n && a.Values[i] == b.Values[i] {
		i++
	}
	return i
}

func blockIxToChild(ix Ix) Child {
	if ix.IsOverflow() {
		return ChildOverflow(ix.Index())
	}
	return ChildPrimary(ix.Index())
}

// slot computes spec 4.4.2's index function.
func (t *Trie[V]) slot(parentIx Ix, value V, level int) uint64 {
	h := hashutil.Index64(parentIx.Raw(), level, value)
	hv := h & (t.sz.hashCap - 1)
	lv := uint64(level) << uint(t.sz.hashBits)
	return hv | lv
}

func (t *Trie[V]) block(ix Ix) *key[V] {
	if ix.IsOverflow() {
		return &t.overflow[ix.Index()]
	}
	return &t.primary[ix.Index()]
}

// insertAt implements spec 4.4.3's per-level step: claim the natural
// slot if free, reuse it if it already belongs to (parentIx, value),
// or append to that slot's collision chain in overflow.
func (t *Trie[V]) insertAt(parentIx Ix, v V, level int) Ix {
	slotIx := t.slot(parentIx, v, level)
	head := &t.primary[slotIx]

	if !t.claimed.Test(uint(slotIx)) {
		t.claimed.Set(uint(slotIx))
		head.parentIx = parentIx
		head.value = v
		head.occupied = true
		return PrimaryIx(slotIx)
	}
	if head.occupied && head.parentIx == parentIx && head.value == v {
		return PrimaryIx(slotIx)
	}

	// Collision: walk the chain (in overflow only) to its tail,
	// reusing a matching block if found. Track the tail by index, not
	// pointer: appending below may reallocate t.overflow, which would
	// strand a pointer taken before the append.
	tailInPrimary := true
	var tailIx uint64
	next := head.hashSib
	nextValid := head.hashSibValid
	for nextValid {
		tailInPrimary = false
		tailIx = next
		cand := &t.overflow[tailIx]
		if cand.parentIx == parentIx && cand.value == v {
			return OverflowIx(tailIx)
		}
		next = cand.hashSib
		nextValid = cand.hashSibValid
	}

	newIx := uint64(len(t.overflow))
	t.overflow = append(t.overflow, newKey[V]())
	nb := &t.overflow[newIx]
	nb.parentIx = parentIx
	nb.value = v
	nb.occupied = true

	if tailInPrimary {
		head.hashSib = newIx
		head.hashSibValid = true
	} else {
		tail := &t.overflow[tailIx]
		tail.hashSib = newIx
		tail.hashSibValid = true
	}
	return OverflowIx(newIx)
}

// QueryToIx resolves a prefix to the Ix of its terminal key block, or
// NoneIx if the prefix was never inserted. Grounded on spec 4.4.6,
// with a per-level Bloom prefilter short-circuiting chain walks for
// prefixes that provably were never inserted.
func (t *Trie[V]) QueryToIx(prefix []V) Ix {
	cur := NoneIx
	for lvl, v := range prefix {
		if lvl >= len(t.filters) {
			return NoneIx // empty trie, or prefix longer than the arity
		}
		if t.filters[lvl] != nil && !t.filters[lvl].Test(pairKey(cur.Raw(), v)) {
			return NoneIx
		}
		slotIx := t.slot(cur, v, lvl)
		found := NoneIx
		head := &t.primary[slotIx]
		if head.occupied && head.parentIx == cur && head.value == v {
			found = PrimaryIx(slotIx)
		} else if head.occupied {
			walker := head
			for walker.hashSibValid {
				next := &t.overflow[walker.hashSib]
				if next.parentIx == cur && next.value == v {
					found = OverflowIx(walker.hashSib)
					break
				}
				walker = next
			}
		}
		if found.IsNone() {
			return NoneIx
		}
		cur = found
	}
	return cur
}

// getDataIx follows child pointers from ix until it reaches a data
// row, per spec 4.4.4.
func (t *Trie[V]) getDataIx(ix Ix) int {
	b := t.block(ix)
	for {
		errutil.BugOn(b.child.IsNone(), "hashflat: encountered an uninitialized child (invariant I3 violated)")
		switch b.child.Tag() {
		case childTagPrimary:
			b = &t.primary[b.child.Index()]
		case childTagOverflow:
			b = &t.overflow[b.child.Index()]
		default:
			return int(b.child.Index())
		}
	}
}

// Materialize yields every stored tuple whose prefix equals prefix,
// found by descending from ix to the first matching data row and
// then scanning forward while the prefix still matches (spec 4.4.4;
// the data array is lexicographically ordered, so a mismatch ends the
// scan).
func (t *Trie[V]) Materialize(prefix []V, ix Ix) []tuple.Tuple[V] {
	it := t.MaterializeIter(prefix, ix)
	var out []tuple.Tuple[V]
	for {
		row, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, row)
	}
}

// MaterializeIter streams Materialize's rows one at a time instead of
// building the whole slice up front, carrying over the original's
// iterator size_hint (spec 4.4.4's supplemented feature): a caller
// that only wants to know whether a prefix exists at all, or wants the
// first handful of matches, can stop after Next reports false without
// having paid for rows it never asked for.
type MaterializeIter[V tuple.Ordered] struct {
	t      *Trie[V]
	prefix []V
	i      int
	done   bool
}

// MaterializeIter returns a streaming form of Materialize.
func (t *Trie[V]) MaterializeIter(prefix []V, ix Ix) *MaterializeIter[V] {
	if ix.IsNone() {
		return &MaterializeIter[V]{done: true}
	}
	return &MaterializeIter[V]{t: t, prefix: prefix, i: t.getDataIx(ix)}
}

// Next returns the next matching row, or ok=false once the prefix run
// is exhausted.
func (it *MaterializeIter[V]) Next() (row tuple.Tuple[V], ok bool) {
	if it.done || it.t == nil || it.i >= len(it.t.data) || !matchesPrefix(it.t.data[it.i], it.prefix) {
		it.done = true
		return tuple.Tuple[V]{}, false
	}
	row = it.t.data[it.i]
	it.i++
	return row, true
}

// Len reports a size hint for the rows Next will still yield: 1 when
// prefix already names a full tuple, or the count of rows not yet
// visited otherwise. The full-arity figure does not count repeated
// copies of that tuple: when the input held it more than once, Next
// yields every copy while Len still reports 1.
func (it *MaterializeIter[V]) Len() int {
	if it.done || it.t == nil {
		return 0
	}
	if len(it.prefix) >= it.t.arity {
		return 1
	}
	return len(it.t.data) - it.i
}

func matchesPrefix[V tuple.Ordered](row tuple.Tuple[V], prefix []V) bool {
	if len(prefix) > len(row.Values) {
		return false
	}
	for i, v := range prefix {
		if row.Values[i] != v {
			return false
		}
	}
	return true
}

// Arity returns the tuple arity this trie was built for.
func (t *Trie[V]) Arity() int { return t.arity }

// Cursor is a position in a tupleSib walk, used by Intersect.
type Cursor struct{ cur Ix }

// NewCursor wraps a raw Ix (as returned by FirstChild) as a Cursor.
func NewCursor(ix Ix) Cursor { return Cursor{cur: ix} }

// FirstChild returns the Ix of the lexicographically smallest child
// under parentIx at the next level, or !ok if parentIx has no
// children (its prefix is absent or already at full arity).
// parentIx == NoneIx means "the trie's root", i.e. level 0.
func (t *Trie[V]) FirstChild(parentIx Ix) (Ix, bool) {
	var c Child
	if parentIx.IsNone() {
		c = t.rootChild
	} else {
		c = t.block(parentIx).child
	}
	if c.IsNone() || c.Tag() == childTagData {
		return NoneIx, false
	}
	return c.AsIx(), true
}

// Intersect performs the Leapfrog-style merge described in spec
// 4.4.5 across self and others, all supplied as cursors already
// positioned at their first child under a shared prefix (see
// FirstChild), returning the values present at every cursor in
// ascending order.
func (t *Trie[V]) Intersect(self Cursor, others ...Cursor) []V {
	cursors := make([]Ix, 1+len(others))
	cursors[0] = self.cur
	for i, o := range others {
		cursors[1+i] = o.cur
	}

	var out []V
	for {
		anyDone := false
		for _, c := range cursors {
			if c.IsNone() {
				anyDone = true
				break
			}
		}
		if anyDone {
			break
		}

		curMax := t.block(cursors[0]).value
		for _, c := range cursors[1:] {
			if v := t.block(c).value; v > curMax {
				curMax = v
			}
		}

		restart := false
		for i, c := range cursors {
			for t.block(c).value < curMax {
				c = t.block(c).tupleSib
				if c.IsNone() {
					break
				}
			}
			cursors[i] = c
			if c.IsNone() {
				restart = true
				break
			}
			if t.block(c).value > curMax {
				restart = true
			}
		}
		if restart {
			continue
		}

		out = append(out, curMax)
		for i, c := range cursors {
			cursors[i] = t.block(c).tupleSib
		}
	}
	return out
}

// ByteSize estimates the trie's heap footprint for memory reports.
func (t *Trie[V]) ByteSize() int {
	var zk key[V]
	perKey := int(unsafe.Sizeof(zk))
	total := len(t.primary)*perKey + len(t.overflow)*perKey
	total += len(t.primary) / 8 // claimed bitset, one bit per primary slot
	var zv V
	total += len(t.data) * t.arity * int(unsafe.Sizeof(zv))
	return total
}
