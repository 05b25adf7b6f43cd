package ordmap

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"brie/arena"
)

func TestInsertAndGet(t *testing.T) {
	a := arena.New()
	m := New[int, string](a)

	_, had := m.Insert(5, "five")
	require.False(t, had)
	_, had = m.Insert(3, "three")
	require.False(t, had)
	_, had = m.Insert(7, "seven")
	require.False(t, had)

	v, ok := m.Get(3)
	require.True(t, ok)
	require.Equal(t, "three", v)

	require.Equal(t, []int{3, 5, 7}, m.Keys())
}

func TestInsertOverwritesReturnsPrevious(t *testing.T) {
	a := arena.New()
	m := New[int, string](a)
	m.Insert(1, "a")
	prev, had := m.Insert(1, "b")
	require.True(t, had)
	require.Equal(t, "a", prev)

	v, _ := m.Get(1)
	require.Equal(t, "b", v)
}

func TestGetOrInsert(t *testing.T) {
	a := arena.New()
	m := New[int, int](a)
	calls := 0
	mk := func() int { calls++; return 42 }

	v1 := m.GetOrInsert(9, mk)
	v2 := m.GetOrInsert(9, mk)
	require.Equal(t, 42, v1)
	require.Equal(t, 42, v2)
	require.Equal(t, 1, calls, "mk must only run on first insert")
}

func TestMissingKey(t *testing.T) {
	a := arena.New()
	m := New[int, string](a)
	m.Insert(1, "a")
	_, ok := m.Get(2)
	require.False(t, ok)
}

func TestKeysStaySortedUnderRandomInsertOrder(t *testing.T) {
	t.Parallel()
	seed := time.Now().UnixNano()
	r := rand.New(rand.NewSource(seed))

	keys := r.Perm(200)
	a := arena.New()
	m := New[int, int](a)
	for _, k := range keys {
		m.Insert(k, k*2)
	}

	got := m.Keys()
	require.True(t, sort.IntsAreSorted(got), "seed %d: keys not sorted: %v", seed, got)
	require.Equal(t, 200, m.Len())

	for _, k := range keys {
		v, ok := m.Get(k)
		require.True(t, ok)
		require.Equal(t, k*2, v)
	}
}
