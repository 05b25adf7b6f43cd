// Package sortedflat implements SortedFlatTrie (spec component C5): a
// single sorted, deduplicated tuple buffer with a per-level skip
// structure, grounded on original_source/brie/src/sorted/flat.rs
// (finalize's sort_unstable+dedup) and skip_list.rs (per-level
// run-length tracking).
//
// Each level's run boundaries are additionally recorded in an
// github.com/hillbig/rsdic rank/select bitvector (one bit per row, set
// at the first row of every maximal equal-prefix run). Advance still
// resolves ranges by binary search, the same algorithm skip_list.rs
// describes; the bitvector is cross-checked against the binary-search
// result in debug builds (errutil.DebugOn) so a future caller that
// switches Advance over to Select-based navigation inherits a tested
// invariant rather than an unverified one.
package sortedflat

import (
	"sort"
	"unsafe"

	"github.com/hillbig/rsdic"

	"brie/internal/errutil"
	"brie/internal/sliceutil"
	"brie/tuple"
)

// Trie is a SortedFlatTrie over arity-N tuples of V.
type Trie[V tuple.Ordered] struct {
	arity  int
	rows   []tuple.Tuple[V]
	counts []int // multiplicity of each surviving row, parallel to rows
	// runStart[level] has one bit per row: 1 if that row begins a new
	// run of equal (level+1)-length prefixes. len(runStart) == arity.
	runStart []*rsdic.RSDic
}

// Build sorts tuples lexicographically, deduplicates them (tracking
// multiplicity), and derives the per-level skip structure with one
// linear pass over the rows per level.
func Build[V tuple.Ordered](tuples []tuple.Tuple[V]) *Trie[V] {
	if len(tuples) == 0 {
		return &Trie[V]{}
	}
	arity := tuples[0].Arity()

	rows := make([]tuple.Tuple[V], len(tuples))
	copy(rows, tuples)
	sort.Slice(rows, func(i, j int) bool { return tuple.Less(rows[i], rows[j]) })

	dedup, counts := sliceutil.Dedup(rows, tuple.Equal[V])

	t := &Trie[V]{arity: arity, rows: dedup, counts: counts}
	t.buildSkipList()
	return t
}

func (t *Trie[V]) buildSkipList() {
	t.runStart = make([]*rsdic.RSDic, t.arity)
	for lvl := 0; lvl < t.arity; lvl++ {
		bv := rsdic.New()
		for i, row := range t.rows {
			isBoundary := i == 0 || !equalPrefix(t.rows[i-1], row, lvl+1)
			bv.PushBack(isBoundary)
		}
		t.runStart[lvl] = bv
	}
}

func equalPrefix[V tuple.Ordered](a, b tuple.Tuple[V], n int) bool {
	for i := 0; i < n; i++ {
		if a.Values[i] != b.Values[i] {
			return false
		}
	}
	return true
}

// Arity returns the tuple arity this trie was built for.
func (t *Trie[V]) Arity() int { return t.arity }

// Len returns the number of distinct rows.
func (t *Trie[V]) Len() int { return len(t.rows) }

// Cursor is a (level, range) pair: [Start, End) indexes rows sharing
// the Level-length prefix chosen so far.
type Cursor struct {
	Level      int
	Start, End int
}

// Root returns a cursor covering every row at level 0.
func (t *Trie[V]) Root() Cursor {
	return Cursor{Level: 0, Start: 0, End: len(t.rows)}
}

// Advance binary-searches within the current run for v at cur.Level,
// descending one level on success.
func (t *Trie[V]) Advance(cur Cursor, v V) (Cursor, bool) {
	lo := cur.Start + sort.Search(cur.End-cur.Start, func(i int) bool {
		return t.rows[cur.Start+i].Values[cur.Level] >= v
	})
	if lo >= cur.End || t.rows[lo].Values[cur.Level] != v {
		return Cursor{}, false
	}
	hi := lo + sort.Search(cur.End-lo, func(i int) bool {
		return t.rows[lo+i].Values[cur.Level] != v
	})

	errutil.DebugOn(func() bool {
		return hi != t.runEnd(cur.Level, lo)
	}, "sortedflat: binary-search run end disagrees with skip-list run end")

	return Cursor{Level: cur.Level + 1, Start: lo, End: hi}, true
}

// runEnd uses the level's rank/select bitvector to find where the run
// starting at start ends: the position of the next set bit after
// start, or Len() if start's run is the last one.
func (t *Trie[V]) runEnd(level, start int) int {
	bv := t.runStart[level]
	rank := bv.Rank(uint64(start), true) // ones strictly before start
	next, err := bv.Select(rank+2, true) // start itself is ones-rank+1
	if err != nil {
		return len(t.rows)
	}
	return int(next)
}

// Children returns the distinct next-level values under cur, in
// ascending order.
func (t *Trie[V]) Children(cur Cursor) []V {
	var out []V
	for i := cur.Start; i < cur.End; {
		v := t.rows[i].Values[cur.Level]
		out = append(out, v)
		i++
		for i < cur.End && t.rows[i].Values[cur.Level] == v {
			i++
		}
	}
	return out
}

// Multiplicity returns how many input tuples equal rows[i] after
// dedup, for a fully descended (level == arity) cursor spanning
// exactly one row.
func (t *Trie[V]) Multiplicity(cur Cursor) int {
	if cur.End-cur.Start != 1 {
		errutil.Bug("sortedflat: Multiplicity called on a non-leaf cursor")
	}
	return t.counts[cur.Start]
}

// Intersect merges self and others' current-level ranges: each round
// takes the largest current value among the cursors and binary-searches
// every cursor forward to it, emitting it once when all of them land on
// it, until any range is exhausted.
func (t *Trie[V]) Intersect(self Cursor, others ...Cursor) []V {
	type cur struct {
		c   Cursor
		pos int
	}
	all := make([]cur, 0, 1+len(others))
	all = append(all, cur{c: self, pos: self.Start})
	for _, o := range others {
		all = append(all, cur{c: o, pos: o.Start})
	}

	var out []V
	for {
		// Find the max current value among all cursors; any cursor
		// behind it must catch up.
		var maxV V
		first := true
		done := false
		for _, c := range all {
			if c.pos >= c.c.End {
				done = true
				break
			}
			v := t.rows[c.pos].Values[c.c.Level]
			if first || v > maxV {
				maxV = v
				first = false
			}
		}
		if done {
			break
		}

		allMatch := true
		for i := range all {
			all[i].pos += sort.Search(all[i].c.End-all[i].pos, func(k int) bool {
				return t.rows[all[i].pos+k].Values[all[i].c.Level] >= maxV
			})
			if all[i].pos >= all[i].c.End || t.rows[all[i].pos].Values[all[i].c.Level] != maxV {
				allMatch = false
			}
		}
		if allMatch {
			out = append(out, maxV)
			// Skip the whole run of maxV: at a non-leaf level several
			// rows share it, and each value is emitted once.
			for i := range all {
				for all[i].pos < all[i].c.End && t.rows[all[i].pos].Values[all[i].c.Level] == maxV {
					all[i].pos++
				}
			}
		}
	}
	return out
}

// ByteSize estimates the trie's heap footprint for memory reports.
func (t *Trie[V]) ByteSize() int {
	var zero V
	rowBytes := len(t.rows) * t.arity * sizeofValue(zero)
	countBytes := len(t.counts) * 8
	skipBytes := 0
	for _, bv := range t.runStart {
		if bv != nil {
			skipBytes += int(bv.AllocSize())
		}
	}
	return rowBytes + countBytes + skipBytes
}

func sizeofValue[V any](v V) int {
	return int(unsafe.Sizeof(v))
}
