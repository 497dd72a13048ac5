// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package fixture builds a complete, ready-to-cycle simulation: the per-lane
// provider secrets (three compound bouquets each) and the initial
// device.State (perm_key, seed S, and the lane slots W), all derived
// deterministically from a single seed. See SPEC_FULL.md §5.8 and
// original_source/demo/pcpl_cycle_test.py's build_fixture /
// generate_provider_secrets.
package fixture

import (
	"math/big"

	"github.com/cekkr/phaselane/internal/device"
	"github.com/cekkr/phaselane/internal/params"
	"github.com/cekkr/phaselane/internal/pcplhash"
	"github.com/cekkr/phaselane/internal/prng"
	"github.com/cekkr/phaselane/internal/secrets"
)

// GenerateProviderSecrets draws one ProviderSecrets per lane (p.X lanes
// total), each holding NumCompounds entries per bouquet drawn from cfg's
// prime pool under cfg's mode. Generation is sequential and fully
// deterministic: lane i's secrets depend only on (seed, i), never on the
// other lanes.
func GenerateProviderSecrets(seed uint64, p *params.Params, cfg *CompoundConfig) []secrets.ProviderSecrets {
	out := make([]secrets.ProviderSecrets, p.X)
	for i := 0; i < p.X; i++ {
		laneSeed := pcplhash.MustH(8, pcplhash.Uint64(seed), pcplhash.String("LANE"), pcplhash.Uint64(uint64(i)))
		var seedU64 uint64
		for _, b := range laneSeed {
			seedU64 = (seedU64 << 8) | uint64(b)
		}
		stream := prng.New(seedU64, "SECRETS")

		out[i] = secrets.ProviderSecrets{
			BouquetA: drawBouquet(stream, cfg),
			BouquetB: drawBouquet(stream, cfg),
			BouquetC: drawBouquet(stream, cfg),
		}
	}
	return out
}

func drawBouquet(stream *prng.Stream, cfg *CompoundConfig) []*big.Int {
	bouquet := make([]*big.Int, cfg.NumCompounds)
	for i := range bouquet {
		bouquet[i] = makeCompound(stream, cfg)
	}
	return bouquet
}

// Build constructs a complete simulation: p.X lanes of provider secrets
// plus the initial device.State from which device.Cycle can begin
// advancing at t=0, per spec.md §4.8 step 3. A 32-byte seed_material is
// drawn from a Stream seeded by seed; perm_key, the initial S, and every
// W[i] are all derived from that seed_material (never from the raw seed
// directly), exactly as original_source/demo/pcpl_cycle_test.py's
// build_fixture does: `perm_key = H(seed_material, "PERMKEY", 32)`,
// `S = H(seed_material, "SEED", seed_bytes)`, `W[i] =
// trunc_bits(H(seed_material, "W", i, out_len=max(32, token_bytes)),
// token_bits)`.
func Build(seed uint64, p *params.Params, cfg *CompoundConfig) (*device.State, error) {
	sec := GenerateProviderSecrets(seed, p, cfg)

	seedMaterial := prng.New(seed, "FIXTURE").Bytes(32)

	permKey := pcplhash.MustH(32, pcplhash.Bytes(seedMaterial), pcplhash.String("PERMKEY"))
	initialS, err := pcplhash.H(p.SeedBytes, pcplhash.Bytes(seedMaterial), pcplhash.String("SEED"))
	if err != nil {
		return nil, err
	}

	thLen := 32
	if p.TokenBytes > thLen {
		thLen = p.TokenBytes
	}
	w := make([]*big.Int, p.X)
	for i := range w {
		wHash := pcplhash.MustH(thLen, pcplhash.Bytes(seedMaterial), pcplhash.String("W"), pcplhash.Int64(int64(i)))
		w[i] = pcplhash.TruncBits(wHash, p.TokenBits)
	}

	return &device.State{
		W:       w,
		S:       initialS,
		PermKey: permKey,
		Secrets: sec,
	}, nil
}
