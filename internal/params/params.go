// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package params builds the immutable structural constants of a PCPL
// simulation: the three phase-clock primes P, Q, R, the modulus M, and
// the derived byte-size constants. See SPEC_FULL.md §5.2.
package params

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/cekkr/phaselane/internal/prng"
)

// ErrInvalidParameter is the sentinel error kind for every precondition
// violation this package can detect. Use errors.Is against it; the wrapped
// message carries the specific precondition that failed.
var ErrInvalidParameter = errors.New("params: invalid parameter")

// PrimeMode selects how P, Q, R, and M are derived.
type PrimeMode int

const (
	// ModeFixed uses the reference constants from the original source:
	// the next prime at or above 1_000_003 / 1_000_033 / 1_000_037
	// coprime with x, and M = 2^61 - 1.
	ModeFixed PrimeMode = iota
	// ModeGenerated derives P, Q, R, and M deterministically from a user
	// seed via prng.Stream, at caller-chosen bit widths.
	ModeGenerated
)

// Default fixed-mode search starting points, per spec.md §4.2.
const (
	fixedPStart = 1_000_003
	fixedQStart = 1_000_033
	fixedRStart = 1_000_037
)

// fixedM is 2^61 - 1, a known Mersenne prime used as the fixed modulus.
var fixedM = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 61), big.NewInt(1))

// Params holds the immutable structural constants of one simulation.
// Every field is fixed for the lifetime of the value; construct a new
// Params rather than mutating one.
type Params struct {
	X          int
	P, Q, R    *big.Int
	M          *big.Int
	A0, B0, C0 int64
	TokenBits  int
	TokenBytes int
	SeedBytes  int
	ModBytes   int
}

// BuildConfig configures Build. Seed and the bit-width fields are only
// consulted in ModeGenerated.
type BuildConfig struct {
	X           int
	TokenBits   int
	SeedBytes   int // defaults to 32 when zero
	Mode        PrimeMode
	Seed        uint64
	PrimeBits   int // ModeGenerated only, must be >= 8
	ModulusBits int // ModeGenerated only, must be >= 16
}

// Build constructs a Params from cfg, validating every invariant from
// spec.md §3 and §4.2 before returning.
func Build(cfg BuildConfig) (*Params, error) {
	if cfg.X < 2 {
		return nil, fmt.Errorf("%w: x must be at least 2, got %d", ErrInvalidParameter, cfg.X)
	}
	if cfg.TokenBits <= 0 {
		return nil, fmt.Errorf("%w: token_bits must be positive, got %d", ErrInvalidParameter, cfg.TokenBits)
	}
	tokenBytes := (cfg.TokenBits + 7) / 8
	if tokenBytes > 64 {
		return nil, fmt.Errorf("%w: token_bits too large for blake2b truncation (token_bytes=%d > 64)", ErrInvalidParameter, tokenBytes)
	}
	seedBytes := cfg.SeedBytes
	if seedBytes == 0 {
		seedBytes = 32
	}

	var p, q, r, m *big.Int
	var err error
	switch cfg.Mode {
	case ModeFixed:
		p, q, r, m, err = buildFixed(cfg.X)
	case ModeGenerated:
		p, q, r, m, err = buildGenerated(cfg)
	default:
		return nil, fmt.Errorf("%w: unknown prime mode %d", ErrInvalidParameter, cfg.Mode)
	}
	if err != nil {
		return nil, err
	}

	if err := validateStructure(cfg.X, p, q, r, m); err != nil {
		return nil, err
	}

	return &Params{
		X:          cfg.X,
		P:          p,
		Q:          q,
		R:          r,
		M:          m,
		A0:         1,
		B0:         2,
		C0:         3,
		TokenBits:  cfg.TokenBits,
		TokenBytes: tokenBytes,
		SeedBytes:  seedBytes,
		ModBytes:   (m.BitLen() + 7) / 8,
	}, nil
}

func validateStructure(x int, p, q, r, m *big.Int) error {
	if p.Cmp(q) == 0 || q.Cmp(r) == 0 || p.Cmp(r) == 0 {
		return fmt.Errorf("%w: P, Q, R must be distinct primes", ErrInvalidParameter)
	}
	xBig := big.NewInt(int64(x))
	if new(big.Int).GCD(nil, nil, m, xBig).Cmp(big.NewInt(1)) != 0 {
		return fmt.Errorf("%w: M must be coprime with x", ErrInvalidParameter)
	}
	return nil
}

func buildFixed(x int) (p, q, r, m *big.Int, err error) {
	xBig := big.NewInt(int64(x))
	p = nextPrimeAvoiding(big.NewInt(fixedPStart), xBig)
	q = nextPrimeAvoiding(big.NewInt(fixedQStart), xBig)
	r = nextPrimeAvoiding(big.NewInt(fixedRStart), xBig)
	m = new(big.Int).Set(fixedM)
	return p, q, r, m, nil
}

func buildGenerated(cfg BuildConfig) (p, q, r, m *big.Int, err error) {
	if cfg.PrimeBits < 8 {
		return nil, nil, nil, nil, fmt.Errorf("%w: prime_bits must be >= 8, got %d", ErrInvalidParameter, cfg.PrimeBits)
	}
	if cfg.ModulusBits < 16 {
		return nil, nil, nil, nil, fmt.Errorf("%w: modulus_bits must be >= 16, got %d", ErrInvalidParameter, cfg.ModulusBits)
	}

	xBig := big.NewInt(int64(cfg.X))
	stream := prng.New(cfg.Seed, "PARAMS")

	primes := make([]*big.Int, 0, 3)
	for len(primes) < 3 {
		cand := generatePrimeCoprime(stream, cfg.PrimeBits, xBig, primes)
		primes = append(primes, cand)
	}
	p, q, r = primes[0], primes[1], primes[2]

	exclude := []*big.Int{p, q, r}
	m = generatePrimeCoprime(stream, cfg.ModulusBits, xBig, exclude)

	return p, q, r, m, nil
}

// generatePrimeCoprime draws odd, top-bit-set candidates of the given bit
// width from stream until one is prime, coprime with avoidGCD, and
// distinct from every entry in distinctFrom.
func generatePrimeCoprime(stream *prng.Stream, bits int, avoidGCD *big.Int, distinctFrom []*big.Int) *big.Int {
	one := big.NewInt(1)
	for {
		cand := stream.OddWithTopBit(bits)
		if new(big.Int).GCD(nil, nil, cand, avoidGCD).Cmp(one) != 0 {
			continue
		}
		dup := false
		for _, d := range distinctFrom {
			if cand.Cmp(d) == 0 {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		if isProbablePrime(cand) {
			return cand
		}
	}
}

// millerRabinWitnesses is the fixed witness set from spec.md §4.2,
// sufficient to deterministically test primality of any integer below
// 2^64 (and, for our purposes, re-used unconditionally for generated
// primes of any configured bit width).
var millerRabinWitnesses = []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}

func isProbablePrime(n *big.Int) bool {
	if n.Sign() <= 0 {
		return false
	}
	two := big.NewInt(2)
	if n.Cmp(two) == 0 {
		return true
	}
	if n.Bit(0) == 0 {
		return false
	}
	if n.Cmp(two) < 0 {
		return false
	}

	// n - 1 = d * 2^s with d odd.
	nMinus1 := new(big.Int).Sub(n, big.NewInt(1))
	d := new(big.Int).Set(nMinus1)
	s := 0
	for d.Bit(0) == 0 {
		d.Rsh(d, 1)
		s++
	}

	for _, wBase := range millerRabinWitnesses {
		a := big.NewInt(wBase)
		if a.Cmp(n) >= 0 {
			continue
		}
		if !millerRabinRound(n, nMinus1, a, d, s) {
			return false
		}
	}
	return true
}

func millerRabinRound(n, nMinus1, a, d *big.Int, s int) bool {
	x := new(big.Int).Exp(a, d, n)
	if x.Cmp(big.NewInt(1)) == 0 || x.Cmp(nMinus1) == 0 {
		return true
	}
	for i := 0; i < s-1; i++ {
		x.Mul(x, x)
		x.Mod(x, n)
		if x.Cmp(nMinus1) == 0 {
			return true
		}
	}
	return false
}

func isPrimeSmall(n *big.Int) bool {
	return isProbablePrime(n)
}

// IsProbablePrime runs the fixed-witness-set Miller-Rabin test from
// spec.md §4.2 against n. It is exported so other packages (notably
// fixture's compound-pool generation) can reuse the same deterministic
// primality test rather than falling back to math/big's own witness
// selection, which is not part of the cross-implementation contract.
func IsProbablePrime(n *big.Int) bool {
	return isProbablePrime(n)
}

// nextPrimeAvoiding finds the smallest prime >= start that is coprime
// with avoid, scanning upward one integer at a time (spec.md §4.2's
// next_prime_avoiding).
func nextPrimeAvoiding(start, avoid *big.Int) *big.Int {
	candidate := new(big.Int).Set(start)
	one := big.NewInt(1)
	for {
		if isPrimeSmall(candidate) && new(big.Int).GCD(nil, nil, candidate, avoid).Cmp(one) == 0 {
			return new(big.Int).Set(candidate)
		}
		candidate.Add(candidate, one)
	}
}
