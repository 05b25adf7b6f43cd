package bitutil

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCeilLog2AndNextPow2(t *testing.T) {
	cases := []struct {
		n        uint64
		wantBits int
		wantPow2 uint64
	}{
		{0, 0, 1},
		{1, 0, 1},
		{2, 1, 2},
		{3, 2, 4},
		{4, 2, 4},
		{5, 3, 8},
		{1024, 10, 1024},
		{1025, 11, 2048},
	}
	for _, c := range cases {
		require.Equal(t, c.wantBits, CeilLog2(c.n), "CeilLog2(%d)", c.n)
		require.Equal(t, c.wantPow2, NextPow2(c.n), "NextPow2(%d)", c.n)
	}
}

func TestBitsForFloor(t *testing.T) {
	require.Equal(t, 1, BitsFor(0))
	require.Equal(t, 1, BitsFor(1))
	require.Equal(t, 1, BitsFor(2))
	require.Equal(t, 2, BitsFor(3))
}

func TestPackUnpackRoundTrip(t *testing.T) {
	seed := time.Now().UnixNano()
	r := rand.New(rand.NewSource(seed))

	for _, bitWidth := range []int{1, 3, 7, 13, 31, 63} {
		mask := uint64(1)<<uint(bitWidth) - 1
		values := make([]uint64, 500)
		for i := range values {
			values[i] = uint64(r.Int63()) & mask
		}

		packed := PackBits(values, bitWidth)
		for i, want := range values {
			got := UnpackBit(packed, i, bitWidth)
			require.Equal(t, want, got, "seed %d bitWidth %d index %d", seed, bitWidth, i)
		}
	}
}
