// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package permutation

// table24 holds every permutation of {0,1,2,3} in lexicographic order,
// matching Python's itertools.permutations(range(4)) exactly (SPEC_FULL.md
// §5.4 / spec.md §9: "the lexicographic ordering ... is load-bearing").
// It is generated once via generateLexicographic, not hand-typed, so the
// ordering guarantee is enforced by an algorithm rather than a transcription
// that could silently drift.
var table24 = generateLexicographic(4)

// generateLexicographic returns every permutation of {0,...,n-1} in
// lexicographic order using the standard next-permutation algorithm,
// starting from the identity (which is lexicographically first).
func generateLexicographic(n int) [][]int {
	perms := make([][]int, 0, factorial(n))
	current := make([]int, n)
	for i := range current {
		current[i] = i
	}
	for {
		perms = append(perms, append([]int(nil), current...))
		if !nextPermutation(current) {
			break
		}
	}
	return perms
}

// nextPermutation advances a in place to its lexicographic successor and
// reports whether one existed.
func nextPermutation(a []int) bool {
	n := len(a)
	k := -1
	for i := n - 2; i >= 0; i-- {
		if a[i] < a[i+1] {
			k = i
			break
		}
	}
	if k == -1 {
		return false
	}
	l := -1
	for i := n - 1; i > k; i-- {
		if a[k] < a[i] {
			l = i
			break
		}
	}
	a[k], a[l] = a[l], a[k]
	for i, j := k+1, n-1; i < j; i, j = i+1, j-1 {
		a[i], a[j] = a[j], a[i]
	}
	return true
}

func factorial(n int) int {
	f := 1
	for i := 2; i <= n; i++ {
		f *= i
	}
	return f
}
