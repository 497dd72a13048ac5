// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pcplhash

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestH_DeterministicAndLengthRespected(t *testing.T) {
	for _, outLen := range []int{1, 8, 32, 64} {
		d1, err := H(outLen, Uint64(7), String("PHASE"), Bytes([]byte{0xaa, 0xbb}))
		require.NoError(t, err)
		require.Len(t, d1, outLen)

		d2, err := H(outLen, Uint64(7), String("PHASE"), Bytes([]byte{0xaa, 0xbb}))
		require.NoError(t, err)
		require.Equal(t, d1, d2, "H must be deterministic for identical inputs")
	}
}

func TestH_DistinctInputsDoNotCollideOnConcatenation(t *testing.T) {
	// "AB" + "" vs "A" + "B": without length-prefixing these could collide
	// on a naive concatenation; tagged+length-prefixed framing must not.
	d1, err := H(32, String("AB"), String(""))
	require.NoError(t, err)
	d2, err := H(32, String("A"), String("B"))
	require.NoError(t, err)
	require.NotEqual(t, d1, d2)
}

func TestH_RejectsOutOfRangeLength(t *testing.T) {
	_, err := H(0, String("x"))
	require.ErrorIs(t, err, ErrOutputLength)

	_, err = H(65, String("x"))
	require.ErrorIs(t, err, ErrOutputLength)
}

func TestH_RejectsNegativeInt(t *testing.T) {
	_, err := H(32, Int(big.NewInt(-1)))
	require.ErrorIs(t, err, ErrNegativeInt)

	_, err = H(32, Int64(-5))
	require.ErrorIs(t, err, ErrNegativeInt)
}

func TestH_ZeroEncodesAsSingleByte(t *testing.T) {
	require.Equal(t, []byte{0x00}, Int(big.NewInt(0)).payload)

	withZero, err := H(32, Int(big.NewInt(0)))
	require.NoError(t, err)
	withExplicitZeroByte, err := H(32, Bytes([]byte{0x00}))
	require.NoError(t, err)
	// Different tags ('I' vs 'B') so these must differ despite identical payload.
	require.NotEqual(t, withZero, withExplicitZeroByte)
}

func TestTruncBits_BoundedToRange(t *testing.T) {
	data := make([]byte, 64)
	for i := range data {
		data[i] = 0xff
	}
	for _, bits := range []int{1, 7, 8, 9, 64, 128, 511} {
		v := TruncBits(data, bits)
		limit := new(big.Int).Lsh(big.NewInt(1), uint(bits))
		require.Equal(t, -1, v.Cmp(limit), "TruncBits(%d) must be < 2^%d", bits, bits)
	}
}

func TestTruncBits_OneBit(t *testing.T) {
	v := TruncBits([]byte{0x80}, 1)
	require.Equal(t, big.NewInt(1), v)
	v = TruncBits([]byte{0x7f}, 1)
	require.Equal(t, big.NewInt(0), v)
}
