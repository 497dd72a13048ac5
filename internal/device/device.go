// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package device implements the PCPL device cycle and chained seed
// (SPEC_FULL.md §5.7): the single mutating operation in the core, which
// owns the DeviceState aggregate (W, S, perm_key, secrets) for the
// lifetime of a simulation.
package device

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/cekkr/phaselane/internal/params"
	"github.com/cekkr/phaselane/internal/pcplhash"
	"github.com/cekkr/phaselane/internal/permutation"
	"github.com/cekkr/phaselane/internal/phase"
	"github.com/cekkr/phaselane/internal/secrets"
	"github.com/cekkr/phaselane/internal/token"
)

// ErrNonMonotonicCycle is returned when Cycle is called with a t that is
// not exactly one greater than the last t committed into State, per the
// ordering guarantee in spec.md §5 ("device_cycle must be invoked with
// monotonically increasing t starting at 0").
var ErrNonMonotonicCycle = errors.New("device: cycle t must increase monotonically from 0")

// State is the mutable DeviceState aggregate from spec.md §3. It is
// constructed once (by the fixture builder) and mutated exclusively by
// Cycle; there is no aliasing support — callers needing concurrency must
// partition work across independent State instances.
type State struct {
	W       []*big.Int
	S       []byte
	PermKey []byte
	Secrets []secrets.ProviderSecrets

	started bool
	nextT   uint64
}

// Cycle advances State by exactly one cycle t, selecting the emitting
// lane via the block's permutation, deriving and committing that lane's
// token into W, and folding the full W vector, its adjacent products, and
// the phase digest into S.
//
// t must equal 0 on the first call and increase by exactly one on every
// subsequent call against the same State; any other t returns
// ErrNonMonotonicCycle and leaves State untouched, matching spec.md §7's
// "a cycle either completes and mutates state, or it raises and leaves
// state untouched."
func Cycle(t uint64, p *params.Params, st *State) (idx int, tok *big.Int, err error) {
	if !st.started {
		if t != 0 {
			return 0, nil, fmt.Errorf("%w: first cycle must be t=0, got %d", ErrNonMonotonicCycle, t)
		}
	} else if t != st.nextT {
		return 0, nil, fmt.Errorf("%w: expected t=%d, got %d", ErrNonMonotonicCycle, st.nextT, t)
	}

	ph := phase.Clock(t, p)

	block := t / uint64(p.X)
	slot := int(t % uint64(p.X))
	phaseBlock := phase.Clock(block*uint64(p.X), p)
	perm, err := permutation.ForBlock(p.X, block, st.PermKey, phaseBlock.Phi)
	if err != nil {
		return 0, nil, err
	}
	idx = perm[slot]

	tok, err = token.Derive(t, ph, p, st.Secrets[idx])
	if err != nil {
		return 0, nil, err
	}

	newW := make([]*big.Int, len(st.W))
	copy(newW, st.W)
	newW[idx] = tok

	chainProducts := make([]*big.Int, p.X-1)
	for i := 0; i < p.X-1; i++ {
		prod := new(big.Int).Mul(newW[i], newW[i+1])
		prod.Mod(prod, p.M)
		chainProducts[i] = prod
	}

	parts := make([]pcplhash.Part, 0, 1+len(newW)+len(chainProducts)+2)
	parts = append(parts, pcplhash.Bytes(st.S))
	for _, w := range newW {
		parts = append(parts, pcplhash.Bytes(fixedBytes(w, p.TokenBytes)))
	}
	for _, prod := range chainProducts {
		parts = append(parts, pcplhash.Bytes(fixedBytes(prod, p.ModBytes)))
	}
	parts = append(parts, pcplhash.Bytes(ph.Phi), pcplhash.String("EVOLVE"))

	newS, err := pcplhash.H(p.SeedBytes, parts...)
	if err != nil {
		return 0, nil, err
	}

	st.W = newW
	st.S = newS
	st.started = true
	st.nextT = t + 1

	return idx, tok, nil
}

// fixedBytes encodes v as a fixed-width big-endian byte slice of the
// given length, as required for byte-exact reproducibility of the
// chained seed (spec.md §4.7).
func fixedBytes(v *big.Int, length int) []byte {
	out := make([]byte, length)
	v.FillBytes(out)
	return out
}
