package sliceutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	got := Map([]int{1, 2, 3}, func(v int) string {
		return string(rune('a' + v))
	})
	require.Equal(t, []string{"b", "c", "d"}, got)
}

func TestMapEmpty(t *testing.T) {
	got := Map([]int{}, func(v int) int { return v * 2 })
	require.Empty(t, got)
}

func TestDedupCollapsesRunsAndCountsThem(t *testing.T) {
	out, counts := Dedup([]int{1, 1, 2, 3, 3, 3, 4}, func(a, b int) bool { return a == b })
	require.Equal(t, []int{1, 2, 3, 4}, out)
	require.Equal(t, []int{2, 1, 3, 1}, counts)
}

func TestDedupNoDuplicates(t *testing.T) {
	out, counts := Dedup([]int{1, 2, 3}, func(a, b int) bool { return a == b })
	require.Equal(t, []int{1, 2, 3}, out)
	require.Equal(t, []int{1, 1, 1}, counts)
}

func TestDedupEmpty(t *testing.T) {
	out, counts := Dedup([]int{}, func(a, b int) bool { return a == b })
	require.Empty(t, out)
	require.Nil(t, counts)
}

func TestDedupAllEqual(t *testing.T) {
	out, counts := Dedup([]int{5, 5, 5, 5}, func(a, b int) bool { return a == b })
	require.Equal(t, []int{5}, out)
	require.Equal(t, []int{4}, counts)
}
