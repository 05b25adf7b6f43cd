package hashflat

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIxRoundTrip(t *testing.T) {
	for i := uint64(0); i < 1000; i++ {
		p := PrimaryIx(i)
		require.False(t, p.IsNone())
		require.False(t, p.IsOverflow())
		require.Equal(t, i, p.Index())

		o := OverflowIx(i)
		require.False(t, o.IsNone())
		require.True(t, o.IsOverflow())
		require.Equal(t, i, o.Index())
	}
	require.True(t, NoneIx.IsNone())
}

func TestChildRoundTrip(t *testing.T) {
	for i := uint64(0); i < 1000; i++ {
		p := ChildPrimary(i)
		require.False(t, p.IsNone())
		require.Equal(t, uint64(childTagPrimary), p.Tag())
		require.Equal(t, i, p.Index())
		require.Equal(t, PrimaryIx(i), p.AsIx())

		o := ChildOverflow(i)
		require.Equal(t, uint64(childTagOverflow), o.Tag())
		require.Equal(t, i, o.Index())
		require.Equal(t, OverflowIx(i), o.AsIx())

		d := ChildData(i)
		require.Equal(t, uint64(childTagData), d.Tag())
		require.Equal(t, i, d.Index())
		require.True(t, d.AsIx().IsNone(), "a data child has no Ix reinterpretation")
	}
	require.True(t, NoneChild.IsNone())
}

// TestChildIxRoundTripProperty is the supplemented bit-pack round-trip
// property test (spec's edge-case property 6, the original's
// Child::hashed/sibbed/data/none constructors): for any random index
// and tag combination, encode then decode must recover the original.
func TestChildIxRoundTripProperty(t *testing.T) {
	seed := time.Now().UnixNano()
	r := rand.New(rand.NewSource(seed))

	for i := 0; i < 10_000; i++ {
		idx := uint64(r.Int63()) & childIndexMask
		switch r.Intn(3) {
		case 0:
			c := ChildPrimary(idx)
			require.Equal(t, idx, c.Index(), "seed %d", seed)
			require.Equal(t, PrimaryIx(idx), c.AsIx(), "seed %d", seed)
		case 1:
			c := ChildOverflow(idx)
			require.Equal(t, idx, c.Index(), "seed %d", seed)
			require.Equal(t, OverflowIx(idx), c.AsIx(), "seed %d", seed)
		case 2:
			c := ChildData(idx)
			require.Equal(t, idx, c.Index(), "seed %d", seed)
		}
	}
}
