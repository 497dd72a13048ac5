// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pcpl is the public façade over the PCPL simulation core. It
// re-exports the external interfaces described in SPEC_FULL.md §5.10 as
// a single flat API, so a CLI, trace exporter, or difficulty-report
// collaborator depends on one import path instead of reaching into
// internal/....
package pcpl

import (
	"math/big"

	"github.com/cekkr/phaselane/internal/bouquet"
	"github.com/cekkr/phaselane/internal/device"
	"github.com/cekkr/phaselane/internal/fixture"
	"github.com/cekkr/phaselane/internal/params"
	"github.com/cekkr/phaselane/internal/permutation"
	"github.com/cekkr/phaselane/internal/phase"
	"github.com/cekkr/phaselane/internal/secrets"
	"github.com/cekkr/phaselane/internal/token"
	"github.com/cekkr/phaselane/internal/validator"
)

type (
	// Params is the immutable structural constant set for one simulation.
	Params = params.Params
	// BuildConfig configures BuildParams.
	BuildConfig = params.BuildConfig
	// PrimeMode selects fixed or generated prime/modulus derivation.
	PrimeMode = params.PrimeMode
	// Phase is the per-cycle arithmetic phase tuple and digest.
	Phase = phase.Phase
	// ProviderSecrets holds one lane's three bouquets.
	ProviderSecrets = secrets.ProviderSecrets
	// CompoundConfig configures fixture secret generation.
	CompoundConfig = fixture.CompoundConfig
	// CompoundMode selects how a compound integer is constructed.
	CompoundMode = fixture.CompoundMode
	// State is the mutable DeviceState aggregate.
	State = device.State
	// ValidateOptions configures a validation run.
	ValidateOptions = validator.Options
	// AssertionFailure is returned by the Validate* functions when a
	// structural invariant does not hold.
	AssertionFailure = validator.AssertionFailure
)

const (
	ModeFixed     = params.ModeFixed
	ModeGenerated = params.ModeGenerated

	ClassicMode    = fixture.ClassicMode
	PrimePowerMode = fixture.PrimePowerMode
	SemiprimeMode  = fixture.SemiprimeMode
	OffsetMode     = fixture.OffsetMode
	BlendMode      = fixture.BlendMode

	DefaultNumCompounds      = fixture.DefaultNumCompounds
	DefaultPrimesPerCompound = fixture.DefaultPrimesPerCompound
	DefaultPoolLabel         = fixture.DefaultPoolLabel
)

// BuildParams builds the structural parameters for a simulation.
func BuildParams(cfg BuildConfig) (*Params, error) {
	return params.Build(cfg)
}

// BuildCompoundConfig builds the configuration governing how every lane's
// bouquet compounds are generated.
func BuildCompoundConfig(seed uint64, p *Params, numCompounds, primesPerCompound int, mode CompoundMode,
	offsetMax, primeBits, poolSize int, poolLabel string) (*CompoundConfig, error) {
	return fixture.BuildCompoundConfig(seed, p, numCompounds, primesPerCompound, mode, offsetMax, primeBits, poolSize, poolLabel)
}

// BuildFixture derives the per-lane provider secrets and the initial
// device state for a simulation.
func BuildFixture(seed uint64, p *Params, cfg *CompoundConfig) ([]ProviderSecrets, *State, error) {
	st, err := fixture.Build(seed, p, cfg)
	if err != nil {
		return nil, nil, err
	}
	return st.Secrets, st, nil
}

// PhaseClock computes the arithmetic phase tuple and digest for cycle t.
func PhaseClock(t uint64, p *Params) Phase {
	return phase.Clock(t, p)
}

// Period returns lcm(P,Q,R), the structural periodicity of the phase
// clock (reporting-only; not enforced by the core).
func Period(p *Params) *big.Int {
	return phase.Period(p)
}

// PermutationForBlock computes the emitting-lane permutation for block B.
func PermutationForBlock(p *Params, b uint64, permKey, phiBlock []byte) ([]int, error) {
	return permutation.ForBlock(p.X, b, permKey, phiBlock)
}

// EvalBouquet evaluates a single lane's bouquet at the given phase
// residue and cross-product.
func EvalBouquet(bq []*big.Int, xres, u *big.Int, p *Params) (*big.Int, error) {
	return bouquet.Eval(bq, xres, u, p)
}

// LaneToken derives the token a lane would compute for cycle t under ph.
func LaneToken(t uint64, ph Phase, p *Params, sec ProviderSecrets) (*big.Int, error) {
	return token.Derive(t, ph, p, sec)
}

// DeviceCycle advances st by exactly one cycle, returning the emitting
// lane index and its token.
func DeviceCycle(t uint64, p *Params, st *State) (int, *big.Int, error) {
	return device.Cycle(t, p, st)
}

// ValidatePermutation asserts every block's permutation schedule is
// well-formed.
func ValidatePermutation(p *Params, permKey []byte, cycles int) error {
	return validator.ValidatePermutation(p, permKey, cycles)
}

// ValidateCycles re-runs cycles against st, asserting the single-match
// and round-coverage properties.
func ValidateCycles(p *Params, sec []ProviderSecrets, st *State, cycles int, opts ValidateOptions) error {
	return validator.ValidateCycles(p, sec, st, cycles, opts)
}

// ValidateChaining asserts that tampering a non-emitting lane's stored
// token diverges the chained seed on the next cycle.
func ValidateChaining(p *Params, st *State) error {
	return validator.ValidateChaining(p, st)
}

// ValidateAll runs ValidatePermutation, ValidateChaining (unless
// opts.SkipChaining), and ValidateCycles in sequence.
func ValidateAll(p *Params, sec []ProviderSecrets, st *State, cycles int, opts ValidateOptions) error {
	return validator.ValidateAll(p, sec, st, cycles, opts)
}
