package bench

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"brie/arena"
	"brie/tuple"
)

func TestGenerateIntIsSortedAndShapedRight(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for _, shape := range []Shape{Flat, Mid, Nested} {
		tuples := GenerateInt(shape, 300, 10, r)
		require.Len(t, tuples, 300)
		for _, tup := range tuples {
			require.Equal(t, int(shape), tup.Arity())
		}
		require.True(t, sort.SliceIsSorted(tuples, func(i, j int) bool {
			return tuple.Less(tuples[i], tuples[j])
		}))
	}
}

func TestGenerateStringIsSortedAndRightLength(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	keys := GenerateString(100, 5, r)
	require.Len(t, keys, 100)
	for _, k := range keys {
		require.Len(t, k, 5)
	}
	require.True(t, sort.StringsAreSorted(keys))
}

func TestTuplesFromStringsWrapsEachAsArityOne(t *testing.T) {
	keys := []string{"a", "b", "c"}
	tuples := TuplesFromStrings(keys)
	require.Len(t, tuples, 3)
	for i, tup := range tuples {
		require.Equal(t, 1, tup.Arity())
		require.Equal(t, keys[i], tup.Values[0])
	}
}

func TestShapeLabel(t *testing.T) {
	require.Equal(t, "flat(1)", Flat.Label())
	require.Equal(t, "mid(3)", Mid.Label())
	require.Equal(t, "nested(5)", Nested.Label())
	require.Contains(t, Shape(9).Label(), "arity")
}

func TestBuildVanillaMatchesInsertedTuples(t *testing.T) {
	tuples := GenerateInt(Mid, 50, 4, rand.New(rand.NewSource(3)))
	v := BuildVanilla(tuples)

	root := v.Root()
	for _, tup := range tuples {
		cur := root
		for _, val := range tup.Values {
			next, ok := v.Advance(cur, val)
			require.True(t, ok)
			cur = next
		}
	}
	require.Greater(t, v.ByteSize(), 0)
}

func TestVanillaIntersect(t *testing.T) {
	tuples := []tuple.Tuple[int]{
		tuple.Of(1, 10),
		tuple.Of(1, 20),
		tuple.Of(2, 10),
		tuple.Of(2, 30),
	}
	v := BuildVanilla(tuples)
	root := v.Root()

	c1, ok := v.Advance(root, 1)
	require.True(t, ok)
	c2, ok := v.Advance(root, 2)
	require.True(t, ok)

	got := v.Intersect(c1, c2)
	require.ElementsMatch(t, []int{10}, got)
}

func TestBuildAllProducesEveryVariant(t *testing.T) {
	tuples := GenerateInt(Mid, 80, 5, rand.New(rand.NewSource(11)))
	a := arena.New()

	built, err := BuildAll(a, tuples)
	require.NoError(t, err)
	require.NotNil(t, built.Vanilla)
	require.NotNil(t, built.NestedHash)
	require.NotNil(t, built.NestedSort)
	require.NotNil(t, built.Sorted)
	require.NotNil(t, built.Hash)
	require.NotNil(t, built.Singleton)
}

func TestMemoryReportCoversAllVariants(t *testing.T) {
	tuples := GenerateInt(Flat, 40, 8, rand.New(rand.NewSource(5)))
	a := arena.New()
	built, err := BuildAll(a, tuples)
	require.NoError(t, err)

	report := built.MemoryReport()
	require.Equal(t, "variants", report.Name)
	require.Len(t, report.Children, 6)
	require.Greater(t, report.TotalBytes, 0)
}
