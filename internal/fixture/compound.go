// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fixture

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/cekkr/phaselane/internal/params"
	"github.com/cekkr/phaselane/internal/pcplhash"
	"github.com/cekkr/phaselane/internal/prng"
)

// ErrInvalidCompoundConfig is the sentinel for CompoundConfig precondition
// failures (spec.md §7 InvalidParameter, scoped to compound configuration).
var ErrInvalidCompoundConfig = errors.New("fixture: invalid compound configuration")

// CompoundMode selects how a single compound integer is built from the
// prime pool, per spec.md §4.8.
type CompoundMode int

const (
	ClassicMode CompoundMode = iota
	PrimePowerMode
	SemiprimeMode
	OffsetMode
	BlendMode
)

// defaultPrimePool is PRIME_POOL from original_source/demo/pcpl_cycle_test.py,
// used whenever CompoundConfig is built with compound_prime_bits == 0.
var defaultPrimePool = []*big.Int{
	big.NewInt(3), big.NewInt(5), big.NewInt(7), big.NewInt(11), big.NewInt(13),
	big.NewInt(17), big.NewInt(19), big.NewInt(23), big.NewInt(29), big.NewInt(31),
	big.NewInt(37), big.NewInt(41), big.NewInt(43), big.NewInt(47), big.NewInt(53),
	big.NewInt(59), big.NewInt(61), big.NewInt(67),
}

// Defaults matching the shapes exercised by both original_source demo
// scripts (build_fixture's generate_provider_secrets call and
// export_token_trace.py's build_compound_config call).
const (
	DefaultNumCompounds       = 4
	DefaultPrimesPerCompound  = 3
	DefaultPoolLabel          = "COMPOUND_POOL"
	defaultExponentMin        = 1
	defaultExponentMax        = 3
)

// CompoundConfig is the immutable configuration for how every lane's
// bouquet compounds are generated (spec.md §3 / §4.8).
type CompoundConfig struct {
	NumCompounds      int
	PrimesPerCompound int
	Mode              CompoundMode
	OffsetMax         int
	ExponentMin       int
	ExponentMax       int
	PrimePool         []*big.Int
}

// BuildCompoundConfig constructs a CompoundConfig per spec.md §6's
// build_compound_config signature. When primeBits > 0 the prime pool is
// itself generated deterministically (spec.md §4.8 step 4): seeded from
// H(seed, poolLabel, out_len=8) interpreted as a PRNG seed, producing
// poolSize distinct primes of primeBits bits, excluding p.M. Otherwise the
// fixed 18-entry defaultPrimePool is used.
func BuildCompoundConfig(
	seed uint64,
	p *params.Params,
	numCompounds, primesPerCompound int,
	mode CompoundMode,
	offsetMax int,
	primeBits, poolSize int,
	poolLabel string,
) (*CompoundConfig, error) {
	if numCompounds <= 0 {
		return nil, fmt.Errorf("%w: num_compounds must be positive, got %d", ErrInvalidCompoundConfig, numCompounds)
	}
	if primesPerCompound <= 0 {
		return nil, fmt.Errorf("%w: primes_per_compound must be positive, got %d", ErrInvalidCompoundConfig, primesPerCompound)
	}
	if offsetMax < 0 {
		return nil, fmt.Errorf("%w: offset_max must be non-negative, got %d", ErrInvalidCompoundConfig, offsetMax)
	}

	var pool []*big.Int
	if primeBits > 0 {
		if poolSize <= 0 {
			return nil, fmt.Errorf("%w: pool_size must be positive when compound_prime_bits > 0, got %d", ErrInvalidCompoundConfig, poolSize)
		}
		generated, err := generatePrimePool(seed, poolLabel, primeBits, poolSize, p.M)
		if err != nil {
			return nil, err
		}
		pool = generated
	} else {
		pool = defaultPrimePool
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: prime_pool must be nonempty", ErrInvalidCompoundConfig)
	}

	return &CompoundConfig{
		NumCompounds:      numCompounds,
		PrimesPerCompound: primesPerCompound,
		Mode:              mode,
		OffsetMax:         offsetMax,
		ExponentMin:       defaultExponentMin,
		ExponentMax:       defaultExponentMax,
		PrimePool:         pool,
	}, nil
}

func generatePrimePool(seed uint64, poolLabel string, primeBits, poolSize int, m *big.Int) ([]*big.Int, error) {
	seedDigest := pcplhash.MustH(8, pcplhash.Uint64(seed), pcplhash.String(poolLabel))
	var poolSeed uint64
	for _, b := range seedDigest {
		poolSeed = (poolSeed << 8) | uint64(b)
	}

	stream := prng.New(poolSeed, "POOL")
	pool := make([]*big.Int, 0, poolSize)
	seen := make(map[string]bool, poolSize)
	for len(pool) < poolSize {
		cand := stream.OddWithTopBit(primeBits)
		if cand.Cmp(m) == 0 {
			continue
		}
		key := cand.String()
		if seen[key] {
			continue
		}
		if !params.IsProbablePrime(cand) {
			continue
		}
		seen[key] = true
		pool = append(pool, cand)
	}
	return pool, nil
}

// makeCompound draws one compound integer for the given CompoundConfig's
// mode, using stream for every random draw.
func makeCompound(stream *prng.Stream, cfg *CompoundConfig) *big.Int {
	switch cfg.Mode {
	case ClassicMode:
		return classicCompound(stream, cfg)
	case PrimePowerMode:
		return primePowerCompound(stream, cfg)
	case SemiprimeMode:
		return semiprimeCompound(stream, cfg)
	case OffsetMode:
		return offsetCompound(stream, cfg)
	case BlendMode:
		return blendCompound(stream, cfg)
	default:
		return classicCompound(stream, cfg)
	}
}

func classicCompound(stream *prng.Stream, cfg *CompoundConfig) *big.Int {
	value := big.NewInt(1)
	for i := 0; i < cfg.PrimesPerCompound; i++ {
		prime := cfg.PrimePool[stream.Intn(len(cfg.PrimePool))]
		exponent := stream.IntRange(cfg.ExponentMin, cfg.ExponentMax)
		term := new(big.Int).Exp(prime, big.NewInt(int64(exponent)), nil)
		value.Mul(value, term)
	}
	return value
}

func primePowerCompound(stream *prng.Stream, cfg *CompoundConfig) *big.Int {
	prime := cfg.PrimePool[stream.Intn(len(cfg.PrimePool))]
	lo := cfg.ExponentMin
	if lo < 2 {
		lo = 2
	}
	hi := cfg.ExponentMax
	if hi < lo {
		hi = lo
	}
	exponent := stream.IntRange(lo, hi)
	return new(big.Int).Exp(prime, big.NewInt(int64(exponent)), nil)
}

func semiprimeCompound(stream *prng.Stream, cfg *CompoundConfig) *big.Int {
	a := cfg.PrimePool[stream.Intn(len(cfg.PrimePool))]
	b := cfg.PrimePool[stream.Intn(len(cfg.PrimePool))]
	return new(big.Int).Mul(a, b)
}

func offsetCompound(stream *prng.Stream, cfg *CompoundConfig) *big.Int {
	value := classicCompound(stream, cfg)
	if cfg.OffsetMax > 0 {
		offset := stream.IntRange(1, cfg.OffsetMax)
		value.Add(value, big.NewInt(int64(offset)))
	}
	return value
}

func blendCompound(stream *prng.Stream, cfg *CompoundConfig) *big.Int {
	roll := stream.Float64()
	switch {
	case roll < 0.5:
		return classicCompound(stream, cfg)
	case roll < 0.7:
		return primePowerCompound(stream, cfg)
	case roll < 0.85:
		return semiprimeCompound(stream, cfg)
	default:
		return offsetCompound(stream, cfg)
	}
}
