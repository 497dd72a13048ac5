// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pcplhash implements the domain-separated, tagged, length-prefixed
// hashing primitive shared by every other PCPL package. It is the only
// package in this module that touches a cryptographic hash function
// directly; everything above it (phase clock, permutation schedule,
// bouquet evaluation, token derivation, chained seed) composes on top of
// H and TruncBits.
package pcplhash

import (
	"errors"
	"math/big"

	"golang.org/x/crypto/blake2b"
)

// ErrOutputLength is returned when an out_len outside [1, 64] is requested.
var ErrOutputLength = errors.New("pcplhash: out_len must be between 1 and 64 bytes")

// MaxOutputLength is the largest digest BLAKE2b can produce in one call.
const MaxOutputLength = 64

// H feeds the encoded parts, in order, to a keyed BLAKE2b instance
// configured for an outLen-byte digest, and returns that digest. Each
// part is encoded as [tag(1)][len(4, big-endian)][payload]; this framing
// prevents any two distinct input tuples from colliding on the byte
// stream fed to the hash. Negative integers (see Int, Int64) surface as
// ErrNegativeInt.
func H(outLen int, parts ...Part) ([]byte, error) {
	if outLen < 1 || outLen > MaxOutputLength {
		return nil, ErrOutputLength
	}
	h, err := blake2b.New(outLen, nil)
	if err != nil {
		return nil, err
	}
	for _, p := range parts {
		encoded, err := p.encode()
		if err != nil {
			return nil, err
		}
		if _, err := h.Write(encoded); err != nil {
			return nil, err
		}
	}
	return h.Sum(nil), nil
}

// MustH is H with panic-on-error semantics, for call sites where the
// input shape is a compile-time invariant (e.g. all Int parts are known
// non-negative) and a returned error would only ever indicate a bug.
func MustH(outLen int, parts ...Part) []byte {
	digest, err := H(outLen, parts...)
	if err != nil {
		panic(err)
	}
	return digest
}

// TruncBits reads the first ceil(bits/8) bytes of data as a big-endian
// integer and right-shifts it so the result lies in [0, 2^bits).
func TruncBits(data []byte, bits int) *big.Int {
	byteLen := (bits + 7) / 8
	if byteLen > len(data) {
		byteLen = len(data)
	}
	value := new(big.Int).SetBytes(data[:byteLen])
	extra := byteLen*8 - bits
	if extra > 0 {
		value.Rsh(value, uint(extra))
	}
	return value
}
