// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bouquet implements PCPL bouquet evaluation (SPEC_FULL.md §5.5):
// the modular multi-exponentiation a lane runs over one of its three
// compound sequences at a given phase residue.
package bouquet

import (
	"errors"
	"math/big"

	"github.com/cekkr/phaselane/internal/params"
	"github.com/cekkr/phaselane/internal/pcplhash"
)

// ErrCompoundDivisibleByM is returned when a configured compound reduces
// to 0 mod M, which would make that term of the product vanish; per
// spec.md §4.5 this is a hard error, not silently skipped.
var ErrCompoundDivisibleByM = errors.New("bouquet: compound is divisible by M; choose different primes")

// Eval folds the full bouquet's modular multi-exponentiation:
//
//	acc = 1 mod M
//	for j, compound := range bouquet:
//	    base = compound mod M
//	    exp  = H(xres, u, j, "EXP", out_len=32) mod (M-1)
//	    acc  = acc * base^exp mod M
//
// Per spec.md §9 Open Question (a), compounds are reduced mod M up front
// (matching the reference implementation) rather than exponentiating the
// full, possibly much larger, compound integer directly; this does not
// change the result since modular exponentiation is invariant under
// reducing the base mod M first.
func Eval(compounds []*big.Int, xres, u *big.Int, p *params.Params) (*big.Int, error) {
	mMinus1 := new(big.Int).Sub(p.M, big.NewInt(1))
	acc := new(big.Int).Mod(big.NewInt(1), p.M)

	for j, compound := range compounds {
		base := new(big.Int).Mod(compound, p.M)
		if base.Sign() == 0 {
			return nil, ErrCompoundDivisibleByM
		}

		expDigest := pcplhash.MustH(32,
			pcplhash.Int(xres), pcplhash.Int(u), pcplhash.Int64(int64(j)),
			pcplhash.String("EXP"),
		)
		exponent := new(big.Int).SetBytes(expDigest)
		exponent.Mod(exponent, mMinus1)

		term := new(big.Int).Exp(base, exponent, p.M)
		acc.Mul(acc, term)
		acc.Mod(acc, p.M)
	}
	return acc, nil
}
