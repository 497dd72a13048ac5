// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pcplhash

import (
	"encoding/binary"
	"errors"
	"math/big"
)

// ErrNegativeInt is returned when an integer part is negative; the wire
// encoding has no sign bit and negative inputs are a programmer error.
var ErrNegativeInt = errors.New("pcplhash: negative integers are not supported")

// tag bytes for the encoded part header, one per Part variant.
const (
	tagBytes  byte = 'B'
	tagString byte = 'S'
	tagInt    byte = 'I'
)

// Part is a single tagged input fed to H. The only constructors are
// Bytes, String, and Int below (plus Uint64 and Int64, which build Int
// parts); there is no way to construct a Part of an unsupported shape.
type Part struct {
	tag     byte
	payload []byte
	invalid bool
}

// Bytes wraps a raw byte slice as a hash input part.
func Bytes(b []byte) Part {
	return Part{tag: tagBytes, payload: b}
}

// String wraps an ASCII string as a hash input part.
func String(s string) Part {
	return Part{tag: tagString, payload: []byte(s)}
}

// Int wraps a non-negative integer as a hash input part, encoded as its
// minimal big-endian representation (zero encodes as the single byte
// 0x00). Panics are never raised here; negative values surface as
// ErrNegativeInt from H.
func Int(v *big.Int) Part {
	if v.Sign() < 0 {
		return Part{tag: tagInt, invalid: true}
	}
	if v.Sign() == 0 {
		return Part{tag: tagInt, payload: []byte{0x00}}
	}
	return Part{tag: tagInt, payload: v.Bytes()}
}

// Uint64 wraps a native uint64 as an Int part.
func Uint64(v uint64) Part {
	return Int(new(big.Int).SetUint64(v))
}

// Int64 wraps a native non-negative int64 as an Int part. Negative values
// produce a part that fails encoding with ErrNegativeInt, matching Int's
// contract for *big.Int.
func Int64(v int64) Part {
	if v < 0 {
		return Part{tag: tagInt, invalid: true}
	}
	return Int(big.NewInt(v))
}

func (p Part) encode() ([]byte, error) {
	if p.invalid {
		return nil, ErrNegativeInt
	}
	out := make([]byte, 0, 1+4+len(p.payload))
	out = append(out, p.tag)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(p.payload)))
	out = append(out, lenBuf[:]...)
	out = append(out, p.payload...)
	return out, nil
}
