// Package oneshot unifies the four trie variants (nested, sortedflat,
// hashflat, singleton) behind one stateful, value-at-a-time interface,
// matching the shared `from_iter`/`advance`/`intersect` contract every
// variant in original_source/brie implements via a common Rust trait.
// Go generics cannot express that trait directly (its associated
// `KeyIter<const M: usize>` has no Go equivalent), so each variant
// keeps its own free-function build (hashflat.Build, nested.Build,
// ...) and its own stateless (cursor, value) -> cursor walker methods;
// Handle adapts any such walker into the stateful shape below by
// carrying the current cursor itself.
package oneshot

import (
	"iter"

	"brie/hashflat"
	"brie/tuple"
)

// Walker is the common shape nested.Trie, sortedflat.Trie and
// singleton.Trie already present: a root cursor, a step that consumes
// one value, and a merge-intersect over a set of cursors. C is the
// variant's own cursor type (nested.Cursor[V], sortedflat.Cursor,
// singleton.Cursor[V]).
type Walker[V tuple.Ordered, C any] interface {
	Root() C
	Advance(cur C, v V) (C, bool)
	Intersect(self C, others ...C) []V
}

// Handle is a stateful cursor over a Walker: each Advance call returns
// a new Handle holding the next cursor, matching spec's
// Advance(v) (cursor, ok) shape rather than the walkers' own
// Advance(cur, v) (cursor, ok) shape (which threads the cursor
// explicitly so the walkers stay allocation-free and reusable).
type Handle[V tuple.Ordered, C any] struct {
	w   Walker[V, C]
	cur C
}

// New wraps w at its root cursor.
func New[V tuple.Ordered, C any](w Walker[V, C]) *Handle[V, C] {
	return &Handle[V, C]{w: w, cur: w.Root()}
}

// Advance consumes v, returning a new Handle positioned one level
// deeper, or ok=false if v is absent under the current cursor.
func (h *Handle[V, C]) Advance(v V) (*Handle[V, C], bool) {
	next, ok := h.w.Advance(h.cur, v)
	if !ok {
		return nil, false
	}
	return &Handle[V, C]{w: h.w, cur: next}, true
}

// Cursor exposes the underlying walker cursor, for callers that need
// to pass it to another Handle's Intersect directly.
func (h *Handle[V, C]) Cursor() C { return h.cur }

// Intersect merges h's current children against others', returning a
// lazily-yielded ascending sequence.
func (h *Handle[V, C]) Intersect(others ...*Handle[V, C]) iter.Seq[V] {
	cs := make([]C, len(others))
	for i, o := range others {
		cs[i] = o.cur
	}
	vals := h.w.Intersect(h.cur, cs...)
	return func(yield func(V) bool) {
		for _, v := range vals {
			if !yield(v) {
				return
			}
		}
	}
}

// ManagedTrie resolves spec's Open Question over HashFlatTrie's
// partial advance: hashflat has no cheap single-step (cursor, value)
// walker the way the other three variants do — its fast path is
// QueryToIx, which re-derives a node address from the full prefix in
// one hashed descent rather than threading an intermediate cursor
// through siblings. ManagedTrie instead accumulates the prefix itself
// across Advance calls and only asks hashflat to resolve it, via
// QueryToIx, at Advance- and Intersect-time — so the stateful contract
// is upheld at the cost of re-hashing the whole prefix per step
// instead of reusing a partial one, exactly as spec.md §9 prescribes.
type ManagedTrie[V tuple.Ordered] struct {
	t     *hashflat.Trie[V]
	query []V
}

// NewManaged wraps t at the empty prefix.
func NewManaged[V tuple.Ordered](t *hashflat.Trie[V]) *ManagedTrie[V] {
	return &ManagedTrie[V]{t: t}
}

// Advance appends v to the accumulated prefix and confirms it still
// resolves to a real node, returning a new ManagedTrie if so.
func (m *ManagedTrie[V]) Advance(v V) (*ManagedTrie[V], bool) {
	next := make([]V, len(m.query)+1)
	copy(next, m.query)
	next[len(m.query)] = v

	if m.t.QueryToIx(next).IsNone() {
		return nil, false
	}
	return &ManagedTrie[V]{t: m.t, query: next}, true
}

// Query returns the accumulated prefix.
func (m *ManagedTrie[V]) Query() []V {
	out := make([]V, len(m.query))
	copy(out, m.query)
	return out
}

// Intersect resolves m's and others' accumulated prefixes down to
// their first-child cursors and merges them via hashflat's own
// leapfrog Intersect. Intersect wants cursors already positioned at a
// first child (see hashflat.FirstChild), not at the prefix node
// itself, so QueryToIx's result is stepped one further via FirstChild
// before use — for the empty prefix this is exactly FirstChild(NoneIx),
// i.e. the root's own children. Each of others is resolved against its
// own trie, but the merge runs on m's trie and reads every cursor as a
// block of m's trie, so the result is only correct when every handle in
// others wraps the same hashflat.Trie as m.
func (m *ManagedTrie[V]) Intersect(others ...*ManagedTrie[V]) iter.Seq[V] {
	self, ok := firstChildCursor(m.t, m.query)
	if !ok {
		return func(func(V) bool) {}
	}
	cs := make([]hashflat.Cursor, 0, len(others))
	for _, o := range others {
		c, ok := firstChildCursor(o.t, o.query)
		if !ok {
			return func(func(V) bool) {}
		}
		cs = append(cs, c)
	}
	vals := m.t.Intersect(self, cs...)
	return func(yield func(V) bool) {
		for _, v := range vals {
			if !yield(v) {
				return
			}
		}
	}
}

func firstChildCursor[V tuple.Ordered](t *hashflat.Trie[V], prefix []V) (hashflat.Cursor, bool) {
	parent := t.QueryToIx(prefix)
	if len(prefix) > 0 && parent.IsNone() {
		return hashflat.Cursor{}, false
	}
	first, ok := t.FirstChild(parent)
	if !ok {
		return hashflat.Cursor{}, false
	}
	return hashflat.NewCursor(first), true
}
