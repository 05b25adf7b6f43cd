package hashflat

// Ix addresses a key block in either the primary or the overflow
// array. The high bit discriminates which array; the remaining bits
// are the index within it. All-ones is the NONE sentinel, chosen
// (per spec) so a single equality compares for "uninitialized or
// absent" regardless of tag.
type Ix uint64

const ixTagBit = uint64(1) << 63

// NoneIx is the sentinel meaning "no block".
const NoneIx Ix = Ix(^uint64(0))

// PrimaryIx addresses index i within the primary array.
func PrimaryIx(i uint64) Ix { return Ix(i &^ ixTagBit) }

// OverflowIx addresses index i within the overflow array.
func OverflowIx(i uint64) Ix { return Ix((i &^ ixTagBit) | ixTagBit) }

// IsNone reports whether x is the NONE sentinel.
func (x Ix) IsNone() bool { return x == NoneIx }

// IsOverflow reports whether x addresses the overflow array. Only
// meaningful when !x.IsNone().
func (x Ix) IsOverflow() bool { return uint64(x)&ixTagBit != 0 }

// Index returns the untagged index into whichever array x addresses.
func (x Ix) Index() uint64 { return uint64(x) &^ ixTagBit }

// Raw returns x's full bit pattern, used as a hash seed: mixing in the
// tag as well as the index gives each concrete block, not just each
// slot number, its own hash domain.
func (x Ix) Raw() uint64 { return uint64(x) }

// Child is a key block's pointer to its own child: another key block
// one level deeper (in either array) or, at the terminal level, a
// row in the data array. Two high bits carry the discriminant because
// three destinations plus NONE don't fit in one tag bit.
type Child uint64

const (
	childTagShift     = 62
	childTagPrimary   = uint64(0b00)
	childTagOverflow  = uint64(0b01)
	childTagData      = uint64(0b10)
	childIndexMask    = (uint64(1) << childTagShift) - 1
	childTagMask      = ^childIndexMask
)

// NoneChild is the sentinel meaning "no child yet" (an uninitialized
// block) — all bits one, tag 0b11, a value no constructor below
// produces.
const NoneChild Child = Child(^uint64(0))

func ChildPrimary(i uint64) Child {
	return Child((i & childIndexMask) | (childTagPrimary << childTagShift))
}

func ChildOverflow(i uint64) Child {
	return Child((i & childIndexMask) | (childTagOverflow << childTagShift))
}

func ChildData(i uint64) Child {
	return Child((i & childIndexMask) | (childTagData << childTagShift))
}

// IsNone reports whether c is the NONE sentinel.
func (c Child) IsNone() bool { return c == NoneChild }

// Tag returns c's two-bit discriminant.
func (c Child) Tag() uint64 { return uint64(c) >> childTagShift }

// Index returns c's untagged payload.
func (c Child) Index() uint64 { return uint64(c) & childIndexMask }

// AsIx reinterprets a primary/overflow child as an Ix, for traversal
// code that wants to treat "the next block" uniformly regardless of
// whether it arrived via Child or via tupleSib.
func (c Child) AsIx() Ix {
	switch c.Tag() {
	case childTagPrimary:
		return PrimaryIx(c.Index())
	case childTagOverflow:
		return OverflowIx(c.Index())
	default:
		return NoneIx
	}
}

// key is the fixed-shape block stored in both the primary and
// overflow arrays.
type key[V any] struct {
	parentIx Ix
	value    V
	occupied bool

	// hashSib chains blocks whose slot() collided, always inside the
	// overflow array; it carries no tag (spec 4.4.7's "the Sib type
	// needs no tag because all siblings live in overflow").
	hashSib      uint64
	hashSibValid bool

	// tupleSib chains distinct children of the same parent in
	// ascending value order, for the leapfrog merge in Intersect. A
	// sibling may live in either array, so this one is a tagged Ix.
	tupleSib Ix

	child Child
}

func newKey[V any]() key[V] {
	return key[V]{child: NoneChild, tupleSib: NoneIx}
}
