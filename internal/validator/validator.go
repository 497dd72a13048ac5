// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package validator re-runs a simulation and asserts the structural
// invariants of the PCPL scheme (SPEC_FULL.md §5.9): every block's
// permutation is valid, every cycle's emitting lane is the unique match
// against all providers' independently-derived tokens, every full block's
// emission counts are all one, and a tampered lane diverges the chained
// seed on the next cycle.
package validator

import (
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/cekkr/phaselane/internal/device"
	"github.com/cekkr/phaselane/internal/params"
	"github.com/cekkr/phaselane/internal/permutation"
	"github.com/cekkr/phaselane/internal/phase"
	"github.com/cekkr/phaselane/internal/secrets"
	"github.com/cekkr/phaselane/internal/token"
)

// AssertionFailure carries enough context about a failed invariant for a
// caller (cmd/pcpl) to print a useful diagnostic. It is returned, never
// panicked, matching spec.md §7's "hard assertion; no recovery" contract
// — the failure is surfaced as data, not as a recovered exception.
type AssertionFailure struct {
	Cycle  int64 // -1 when the failure is not cycle-scoped
	Block  int64 // -1 when the failure is not block-scoped
	Detail string
}

func (e *AssertionFailure) Error() string {
	switch {
	case e.Cycle >= 0:
		return fmt.Sprintf("validator: assertion failed at cycle %d: %s", e.Cycle, e.Detail)
	case e.Block >= 0:
		return fmt.Sprintf("validator: assertion failed at block %d: %s", e.Block, e.Detail)
	default:
		return fmt.Sprintf("validator: assertion failed: %s", e.Detail)
	}
}

// Logger is the structured-logging hook Options accepts for per-cycle
// verbose tracing, matching the zap-backed shape of
// github.com/luxfi/log.Logger (log.NewTestLogger, log.NewDefaultLogger)
// used for test/CLI loggers elsewhere in the corpus.
type Logger interface {
	Info(msg string, fields ...zap.Field)
}

// Options configures a validation run.
type Options struct {
	// Log, when non-nil, receives one Info call per cycle describing the
	// emitting lane and token (spec.md §6 CLI --verbose).
	Log Logger
	// SkipChaining disables ValidateChaining (CLI --no-chaining-check).
	SkipChaining bool
}

func (o Options) logf(msg string, fields ...zap.Field) {
	if o.Log != nil {
		o.Log.Info(msg, fields...)
	}
}

// ValidatePermutation asserts that permutation_for_block yields a valid
// permutation of {0..x-1} for every full block of cycles cycles (block 0
// at least), using permKey and p. A trailing partial block is not checked.
func ValidatePermutation(p *params.Params, permKey []byte, cycles int) error {
	numBlocks := cycles / p.X
	if numBlocks < 1 {
		numBlocks = 1
	}
	for b := 0; b < numBlocks; b++ {
		phaseBlock := phase.Clock(uint64(b)*uint64(p.X), p)
		perm, err := permutation.ForBlock(p.X, uint64(b), permKey, phaseBlock.Phi)
		if err != nil {
			return err
		}
		if err := assertPermutationValid(p.X, perm, int64(b)); err != nil {
			return err
		}
	}
	return nil
}

func assertPermutationValid(x int, perm []int, block int64) error {
	seen := make([]bool, x)
	for _, idx := range perm {
		if idx < 0 || idx >= x || seen[idx] {
			return &AssertionFailure{Block: block, Cycle: -1, Detail: "permutation_for_block did not yield a valid permutation"}
		}
		seen[idx] = true
	}
	return nil
}

// ValidateCycles runs device.Cycle for t in [0, cycles) against st,
// asserting the single-match property (spec.md §8 invariant 2) at every
// cycle and the round-coverage property (invariant 3) at every full
// block. st is mutated in place, exactly as a normal simulation run
// would mutate it.
func ValidateCycles(p *params.Params, sec []secrets.ProviderSecrets, st *device.State, cycles int, opts Options) error {
	blockCounts := make(map[int64]map[int]int)

	for t := 0; t < cycles; t++ {
		idx, tok, err := device.Cycle(uint64(t), p, st)
		if err != nil {
			return err
		}

		ph := phase.Clock(uint64(t), p)
		matches := make([]int, 0, 1)
		for i, s := range sec {
			candidate, err := token.Derive(uint64(t), ph, p, s)
			if err != nil {
				return err
			}
			if candidate.Cmp(tok) == 0 {
				matches = append(matches, i)
			}
		}
		if len(matches) != 1 || matches[0] != idx {
			return &AssertionFailure{
				Cycle: int64(t), Block: -1,
				Detail: fmt.Sprintf("single-match property violated: matched lanes %v, expected exactly [%d]", matches, idx),
			}
		}

		block := int64(t) / int64(p.X)
		if t < (cycles/p.X)*p.X {
			if blockCounts[block] == nil {
				blockCounts[block] = make(map[int]int)
			}
			blockCounts[block][idx]++
		}

		opts.logf("cycle complete", zap.Int("t", t), zap.Int("idx", idx), zap.String("token", tok.String()))
	}

	for block, counts := range blockCounts {
		for lane := 0; lane < p.X; lane++ {
			if counts[lane] != 1 {
				return &AssertionFailure{
					Block: block, Cycle: -1,
					Detail: fmt.Sprintf("round-coverage violated: lane %d emitted %d times in block %d, want exactly 1", lane, counts[lane], block),
				}
			}
		}
	}
	return nil
}

// ValidateChaining builds two independent device.State values sharing the
// same secrets and initial W/S/perm_key, flips one bit of a non-emitting
// lane's stored token in one of them, runs device.Cycle(0) on both, and
// asserts their resulting S values differ (spec.md §8 invariant 6 /
// Open Question (b)). Both states are independent clones of st, so st
// itself is left unchanged; st is expected not to have run any cycle yet.
func ValidateChaining(p *params.Params, st *device.State) error {
	baseline := cloneState(st)
	tampered := cloneState(st)

	phaseBlock := phase.Clock(0, p)
	perm, err := permutation.ForBlock(p.X, 0, tampered.PermKey, phaseBlock.Phi)
	if err != nil {
		return err
	}
	nonEmitting := (perm[0] + 1) % p.X
	flipOneBit(tampered.W[nonEmitting])

	if _, _, err := device.Cycle(0, p, baseline); err != nil {
		return err
	}
	if _, _, err := device.Cycle(0, p, tampered); err != nil {
		return err
	}

	if string(baseline.S) == string(tampered.S) {
		return &AssertionFailure{Cycle: 0, Block: -1, Detail: "chaining check failed: tampering a non-emitting lane's token did not change S"}
	}
	return nil
}

func cloneState(st *device.State) *device.State {
	w := make([]*big.Int, len(st.W))
	for i, v := range st.W {
		w[i] = new(big.Int).Set(v)
	}
	s := append([]byte(nil), st.S...)
	permKey := append([]byte(nil), st.PermKey...)
	sec := append([]secrets.ProviderSecrets(nil), st.Secrets...)
	return &device.State{W: w, S: s, PermKey: permKey, Secrets: sec}
}

func flipOneBit(v *big.Int) {
	v.Xor(v, big.NewInt(1))
}

// ValidateAll runs ValidatePermutation, ValidateChaining (unless
// opts.SkipChaining, and on a clone of st), and ValidateCycles in
// sequence, stopping at the first failure.
func ValidateAll(p *params.Params, sec []secrets.ProviderSecrets, st *device.State, cycles int, opts Options) error {
	if err := ValidatePermutation(p, st.PermKey, cycles); err != nil {
		return err
	}
	if !opts.SkipChaining {
		if err := ValidateChaining(p, cloneState(st)); err != nil {
			return err
		}
	}
	if err := ValidateCycles(p, sec, st, cycles, opts); err != nil {
		return err
	}
	return nil
}
