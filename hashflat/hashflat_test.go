package hashflat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"brie/tuple"
)

// sampleTuples must already be lexicographically sorted: Build's
// precondition (spec 4.4.3).
func sampleTuples() []tuple.Tuple[int] {
	return []tuple.Tuple[int]{
		tuple.Of(1, 10),
		tuple.Of(1, 20),
		tuple.Of(1, 30),
		tuple.Of(2, 10),
		tuple.Of(2, 20),
	}
}

func TestBuildFromIterRejectsUnknownSize(t *testing.T) {
	_, err := BuildFromIter(sampleTuples(), false)
	require.ErrorIs(t, err, ErrCapacityUnknown)
}

func TestQueryToIxResolvesInsertedPrefixes(t *testing.T) {
	tr, err := Build(sampleTuples())
	require.NoError(t, err)

	for _, prefix := range [][]int{{1}, {2}, {1, 10}, {1, 20}, {1, 30}, {2, 10}, {2, 20}} {
		ix := tr.QueryToIx(prefix)
		require.False(t, ix.IsNone(), "prefix %v should resolve", prefix)
	}

	for _, prefix := range [][]int{{3}, {1, 99}, {2, 30}} {
		ix := tr.QueryToIx(prefix)
		require.True(t, ix.IsNone(), "prefix %v should not resolve", prefix)
	}
}

func TestMaterialize(t *testing.T) {
	tr, err := Build(sampleTuples())
	require.NoError(t, err)

	ix := tr.QueryToIx([]int{1, 10})
	require.False(t, ix.IsNone())
	rows := tr.Materialize([]int{1, 10}, ix)
	require.Len(t, rows, 1)
	require.Equal(t, []int{1, 10}, rows[0].Values)

	ixPrefix := tr.QueryToIx([]int{1})
	require.False(t, ixPrefix.IsNone())
	rows = tr.Materialize([]int{1}, ixPrefix)
	require.Len(t, rows, 3)
}

func TestIntersectAcrossParents(t *testing.T) {
	tr, err := Build(sampleTuples())
	require.NoError(t, err)

	ix1 := tr.QueryToIx([]int{1})
	ix2 := tr.QueryToIx([]int{2})
	require.False(t, ix1.IsNone())
	require.False(t, ix2.IsNone())

	first1, ok := tr.FirstChild(ix1)
	require.True(t, ok)
	first2, ok := tr.FirstChild(ix2)
	require.True(t, ok)

	got := tr.Intersect(NewCursor(first1), NewCursor(first2))
	require.Equal(t, []int{10, 20}, got, "30 only occurs under parent 1")
}

func TestFirstChildOfRoot(t *testing.T) {
	tr, err := Build(sampleTuples())
	require.NoError(t, err)

	ix, ok := tr.FirstChild(NoneIx)
	require.True(t, ok)
	_ = ix // the block for value 1, the smallest first column; its slot number depends on hash layout
}

func TestDuplicateFullRowsEachGetADataEntry(t *testing.T) {
	tuples := []tuple.Tuple[int]{
		tuple.Of(1, 10),
		tuple.Of(1, 10),
		tuple.Of(1, 20),
	}
	tr, err := Build(tuples)
	require.NoError(t, err)

	ix := tr.QueryToIx([]int{1})
	require.False(t, ix.IsNone())
	rows := tr.Materialize([]int{1}, ix)
	require.Len(t, rows, 3, "duplicate full tuples are preserved as separate data rows")
}

func TestByteSizePositive(t *testing.T) {
	tr, err := Build(sampleTuples())
	require.NoError(t, err)
	require.Greater(t, tr.ByteSize(), 0)
}

func TestMaterializeIterMatchesMaterialize(t *testing.T) {
	tr, err := Build(sampleTuples())
	require.NoError(t, err)

	ix := tr.QueryToIx([]int{1})
	require.False(t, ix.IsNone())

	want := tr.Materialize([]int{1}, ix)

	it := tr.MaterializeIter([]int{1}, ix)
	var got []tuple.Tuple[int]
	for {
		row, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, row)
	}
	require.Equal(t, want, got)
}

func TestMaterializeIterLenIsOneAtFullArity(t *testing.T) {
	tr, err := Build(sampleTuples())
	require.NoError(t, err)

	ix := tr.QueryToIx([]int{1, 10})
	require.False(t, ix.IsNone())
	it := tr.MaterializeIter([]int{1, 10}, ix)
	require.Equal(t, 1, it.Len())
}

func TestMaterializeIterOnAbsentPrefix(t *testing.T) {
	tr, err := Build(sampleTuples())
	require.NoError(t, err)

	it := tr.MaterializeIter([]int{9}, NoneIx)
	_, ok := it.Next()
	require.False(t, ok)
	require.Equal(t, 0, it.Len())
}
