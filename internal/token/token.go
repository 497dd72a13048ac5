// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package token implements PCPL lane token derivation (SPEC_FULL.md
// §5.6): the KDF-then-tokenization-hash pipeline that turns a lane's
// three bouquet evaluations and the cycle's phase digest into the
// token_bits-wide value a provider or device commits for cycle t.
package token

import (
	"math/big"

	"github.com/cekkr/phaselane/internal/bouquet"
	"github.com/cekkr/phaselane/internal/params"
	"github.com/cekkr/phaselane/internal/pcplhash"
	"github.com/cekkr/phaselane/internal/phase"
	"github.com/cekkr/phaselane/internal/secrets"
)

// Derive computes the token for lane secrets at cycle t under phase ph
// and params p. It is a pure function of (t, ph, p, secrets); the lane
// index plays no role in the derivation itself (only in which secrets
// the caller passes).
func Derive(t uint64, ph phase.Phase, p *params.Params, sec secrets.ProviderSecrets) (*big.Int, error) {
	ea, err := bouquet.Eval(sec.BouquetA, ph.A, ph.U1, p)
	if err != nil {
		return nil, err
	}
	eb, err := bouquet.Eval(sec.BouquetB, ph.B, ph.U2, p)
	if err != nil {
		return nil, err
	}
	ec, err := bouquet.Eval(sec.BouquetC, ph.C, ph.U3, p)
	if err != nil {
		return nil, err
	}

	kdf := pcplhash.MustH(32,
		pcplhash.Int(ea), pcplhash.Int(eb), pcplhash.Int(ec), pcplhash.Bytes(ph.Phi),
		pcplhash.String("KDF"),
	)

	thLen := 32
	if p.TokenBytes > thLen {
		thLen = p.TokenBytes
	}
	tokHash := pcplhash.MustH(thLen,
		pcplhash.Bytes(kdf), pcplhash.Uint64(t), pcplhash.Bytes(ph.Phi),
		pcplhash.String("TOK"),
	)

	return pcplhash.TruncBits(tokHash, p.TokenBits), nil
}
