package sortedflat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"brie/tuple"
)

func sampleTuples() []tuple.Tuple[int] {
	return []tuple.Tuple[int]{
		tuple.Of(2, 2, 3),
		tuple.Of(1, 2, 3),
		tuple.Of(1, 2, 4),
		tuple.Of(1, 5, 6),
		tuple.Of(1, 2, 3), // duplicate
	}
}

func TestBuildSortsDedupsAndCounts(t *testing.T) {
	tr := Build(sampleTuples())
	require.Equal(t, 4, tr.Len(), "5 input rows, one exact duplicate")
	require.Equal(t, 3, tr.Arity())

	root := tr.Root()
	require.Equal(t, []int{1, 2}, tr.Children(root))
}

func TestAdvanceAndMultiplicity(t *testing.T) {
	tr := Build(sampleTuples())

	c1, ok := tr.Advance(tr.Root(), 1)
	require.True(t, ok)
	require.Equal(t, []int{2, 5}, tr.Children(c1))

	c12, ok := tr.Advance(c1, 2)
	require.True(t, ok)

	c123, ok := tr.Advance(c12, 3)
	require.True(t, ok)
	require.Equal(t, 2, tr.Multiplicity(c123), "row (1,2,3) was inserted twice")

	c124, ok := tr.Advance(c12, 4)
	require.True(t, ok)
	require.Equal(t, 1, tr.Multiplicity(c124))

	_, ok = tr.Advance(c12, 99)
	require.False(t, ok)
}

func TestIntersect(t *testing.T) {
	tuples := []tuple.Tuple[int]{
		tuple.Of(1, 10),
		tuple.Of(1, 20),
		tuple.Of(1, 30),
		tuple.Of(2, 10),
		tuple.Of(2, 20),
	}
	tr := Build(tuples)

	c1, _ := tr.Advance(tr.Root(), 1)
	c2, _ := tr.Advance(tr.Root(), 2)

	got := tr.Intersect(c1, c2)
	require.Equal(t, []int{10, 20}, got)
}

func TestEmptyInput(t *testing.T) {
	tr := Build[int](nil)
	require.Equal(t, 0, tr.Len())
	require.Equal(t, 0, tr.ByteSize())
}
