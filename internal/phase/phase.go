// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package phase implements the PCPL phase clock (SPEC_FULL.md §5.3): a
// pure, stateless function from a cycle index t to the residues and
// cross-products that every other component binds its derivation to.
package phase

import (
	"math/big"

	"github.com/cekkr/phaselane/internal/pcplhash"
	"github.com/cekkr/phaselane/internal/params"
)

// Phase is the arithmetic state of one cycle t, plus the 32-byte
// domain-separated digest that binds the tuple (Phi).
type Phase struct {
	A, B, C    *big.Int
	U1, U2, U3 *big.Int
	Phi        []byte
}

// Clock computes the Phase for cycle t under p. It is pure and total: the
// same (t, p) always yields byte-identical output.
func Clock(t uint64, p *params.Params) Phase {
	tBig := new(big.Int).SetUint64(t)

	a := new(big.Int).Add(big.NewInt(p.A0), tBig)
	a.Mod(a, p.P)
	b := new(big.Int).Add(big.NewInt(p.B0), tBig)
	b.Mod(b, p.Q)
	c := new(big.Int).Add(big.NewInt(p.C0), tBig)
	c.Mod(c, p.R)

	u1 := new(big.Int).Mul(a, b)
	u1.Mod(u1, p.M)
	u2 := new(big.Int).Mul(b, c)
	u2.Mod(u2, p.M)
	u3 := new(big.Int).Mul(c, a)
	u3.Mod(u3, p.M)

	phi := pcplhash.MustH(32,
		pcplhash.Int(a), pcplhash.Int(b), pcplhash.Int(c),
		pcplhash.Int(u1), pcplhash.Int(u2), pcplhash.Int(u3),
		pcplhash.String("PHASE"),
	)

	return Phase{A: a, B: b, C: c, U1: u1, U2: u2, U3: u3, Phi: phi}
}

// Period returns lcm(P, Q, R), the structural (non-security-relevant)
// period after which Clock's Phi repeats. It is a reporting helper for
// the external difficulty-report collaborator and for the round-trip
// test oracle in SPEC_FULL.md §9; the core never calls it.
func Period(p *params.Params) *big.Int {
	pq := lcm(p.P, p.Q)
	return lcm(pq, p.R)
}

func lcm(a, b *big.Int) *big.Int {
	gcd := new(big.Int).GCD(nil, nil, a, b)
	product := new(big.Int).Mul(a, b)
	return product.Div(product, gcd)
}
