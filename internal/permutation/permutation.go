// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package permutation implements the PCPL blockwise permutation schedule
// (SPEC_FULL.md §5.4): the length-x permutation that determines which
// lane emits for each of the x cycles in a block.
package permutation

import (
	"errors"
	"math/big"

	"github.com/cekkr/phaselane/internal/pcplhash"
)

// ErrPermutationSize is returned when x is too small to permute (x < 2,
// matching the Params invariant upstream callers are expected to enforce
// before reaching this package).
var ErrPermutationSize = errors.New("permutation: x must be at least 2")

// ForBlock computes pi_B, the permutation of {0,...,x-1} for block B,
// keyed by permKey and the block's phase digest phiBlock (the Phi of
// phase.Clock(B*x, params)).
//
// For x == 4 this uses the precomputed lexicographic 24-entry table (the
// fast path from spec.md §4.4); for any other x it runs a keyed
// Fisher-Yates shuffle seeded from H(permKey, B, phiBlock, "PERMSEED").
func ForBlock(x int, b uint64, permKey, phiBlock []byte) ([]int, error) {
	if x < 2 {
		return nil, ErrPermutationSize
	}
	if x == 4 {
		return forBlockFast(b, permKey, phiBlock), nil
	}
	return forBlockGeneral(x, b, permKey, phiBlock), nil
}

func forBlockFast(b uint64, permKey, phiBlock []byte) []int {
	digest := pcplhash.MustH(4,
		pcplhash.Bytes(permKey), pcplhash.Uint64(b), pcplhash.Bytes(phiBlock),
		pcplhash.String("PERM"),
	)
	id := new(big.Int).SetBytes(digest)
	id.Mod(id, big.NewInt(24))
	perm := table24[id.Int64()]
	out := make([]int, len(perm))
	copy(out, perm)
	return out
}

func forBlockGeneral(x int, b uint64, permKey, phiBlock []byte) []int {
	perm := make([]int, x)
	for i := range perm {
		perm[i] = i
	}

	seed := pcplhash.MustH(32,
		pcplhash.Bytes(permKey), pcplhash.Uint64(b), pcplhash.Bytes(phiBlock),
		pcplhash.String("PERMSEED"),
	)

	for k := x - 1; k >= 1; k-- {
		rDigest := pcplhash.MustH(8, pcplhash.Bytes(seed), pcplhash.Int64(int64(k)), pcplhash.String("R"))
		r := new(big.Int).SetBytes(rDigest)
		r.Mod(r, big.NewInt(int64(k+1)))
		ri := int(r.Int64())
		perm[k], perm[ri] = perm[ri], perm[k]
	}
	return perm
}
