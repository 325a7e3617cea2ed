// Package util contains fixed-width hash types shared across the SDK.
package util

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Uint160Size is the size of Uint160 in bytes.
const Uint160Size = 20

// Uint160 is a 20-byte hash, big-endian in its display/hex form. It is
// typically used as a script hash (RIPEMD160(SHA256(script))).
type Uint160 [Uint160Size]byte

// Uint160DecodeBytesBE decodes a big-endian byte slice into a Uint160.
func Uint160DecodeBytesBE(b []byte) (u Uint160, err error) {
	if len(b) != Uint160Size {
		return u, fmt.Errorf("expected []byte of size %d, got %d", Uint160Size, len(b))
	}
	copy(u[:], b)
	return u, nil
}

// Uint160DecodeBytesLE decodes a little-endian byte slice into a Uint160.
func Uint160DecodeBytesLE(b []byte) (u Uint160, err error) {
	u, err = Uint160DecodeBytesBE(b)
	if err != nil {
		return
	}
	u.reverse()
	return
}

// Uint160DecodeStringBE decodes a big-endian hex string (no 0x prefix
// required) into a Uint160.
func Uint160DecodeStringBE(s string) (u Uint160, err error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != Uint160Size*2 {
		return u, fmt.Errorf("expected string size of %d got %d", Uint160Size*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, err
	}
	return Uint160DecodeBytesBE(b)
}

// Uint160DecodeStringLE is the little-endian counterpart of
// Uint160DecodeStringBE.
func Uint160DecodeStringLE(s string) (u Uint160, err error) {
	u, err = Uint160DecodeStringBE(s)
	if err != nil {
		return
	}
	u.reverse()
	return
}

func (u *Uint160) reverse() {
	for i, j := 0, len(u)-1; i < j; i, j = i+1, j-1 {
		u[i], u[j] = u[j], u[i]
	}
}

// BytesBE returns a big-endian byte slice representation of u.
func (u Uint160) BytesBE() []byte {
	b := make([]byte, Uint160Size)
	copy(b, u[:])
	return b
}

// BytesLE returns a little-endian byte slice representation of u, the
// form used on the wire (see pkg/io serialization rules).
func (u Uint160) BytesLE() []byte {
	b := u.BytesBE()
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}

// Equals returns true if u == other.
func (u Uint160) Equals(other Uint160) bool {
	return u == other
}

// Less returns true if u is lexicographically less than other, comparing
// big-endian bytes. Used to sort public keys/script hashes canonically.
func (u Uint160) Less(other Uint160) bool {
	return bytes.Compare(u[:], other[:]) < 0
}

// IsZero returns true if every byte is zero.
func (u Uint160) IsZero() bool {
	return u == Uint160{}
}

// String implements fmt.Stringer, returning the big-endian hex form
// without a 0x prefix.
func (u Uint160) String() string {
	return hex.EncodeToString(u.BytesBE())
}

// StringLE returns the little-endian hex form, used by some legacy RPCs.
func (u Uint160) StringLE() string {
	return hex.EncodeToString(u.BytesLE())
}

// MarshalJSON implements the json.Marshaler interface, encoding as
// "0x"+hex(big-endian).
func (u Uint160) MarshalJSON() ([]byte, error) {
	return json.Marshal("0x" + u.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface. It accepts
// hex strings with or without a 0x prefix.
func (u *Uint160) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	res, err := Uint160DecodeStringBE(s)
	if err != nil {
		return err
	}
	*u = res
	return nil
}
