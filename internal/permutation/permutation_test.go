// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package permutation

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTable24_LexicographicOrder(t *testing.T) {
	// First and last entries of itertools.permutations(range(4)).
	require.Equal(t, []int{0, 1, 2, 3}, table24[0])
	require.Equal(t, []int{3, 2, 1, 0}, table24[23])
	// A few interior entries, hand-checked against itertools ordering.
	require.Equal(t, []int{0, 2, 1, 3}, table24[2])
	require.Equal(t, []int{1, 0, 2, 3}, table24[6])
	require.Equal(t, []int{2, 3, 1, 0}, table24[17])
}

func TestTable24_AllDistinctAndValid(t *testing.T) {
	seen := make(map[string]bool)
	for _, perm := range table24 {
		cp := append([]int(nil), perm...)
		sort.Ints(cp)
		require.Equal(t, []int{0, 1, 2, 3}, cp)
		key := ""
		for _, v := range perm {
			key += string(rune('0' + v))
		}
		require.False(t, seen[key], "duplicate permutation %v", perm)
		seen[key] = true
	}
	require.Len(t, table24, 24)
}

func TestForBlock_X4IsPermutation(t *testing.T) {
	for b := uint64(0); b < 50; b++ {
		perm, err := ForBlock(4, b, []byte("key"), []byte("phi-block-digest-bytes-32byte!!!"))
		require.NoError(t, err)
		cp := append([]int(nil), perm...)
		sort.Ints(cp)
		require.Equal(t, []int{0, 1, 2, 3}, cp)
	}
}

func TestForBlock_GeneralPathIsPermutation(t *testing.T) {
	for _, x := range []int{2, 3, 5, 7, 16} {
		for b := uint64(0); b < 20; b++ {
			perm, err := ForBlock(x, b, []byte("key"), []byte("phi"))
			require.NoError(t, err)
			cp := append([]int(nil), perm...)
			sort.Ints(cp)
			expected := make([]int, x)
			for i := range expected {
				expected[i] = i
			}
			require.Equal(t, expected, cp)
		}
	}
}

func TestForBlock_Deterministic(t *testing.T) {
	a, err := ForBlock(5, 3, []byte("k"), []byte("p"))
	require.NoError(t, err)
	b, err := ForBlock(5, 3, []byte("k"), []byte("p"))
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestForBlock_RejectsTooSmallX(t *testing.T) {
	_, err := ForBlock(1, 0, []byte("k"), []byte("p"))
	require.ErrorIs(t, err, ErrPermutationSize)
}
