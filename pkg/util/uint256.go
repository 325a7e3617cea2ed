package util

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Uint256Size is the size of Uint256 in bytes.
const Uint256Size = 32

// Uint256 is a 32-byte hash, big-endian in its display/hex form. It is
// typically the single SHA-256 id of a transaction.
type Uint256 [Uint256Size]byte

// Uint256DecodeBytesBE decodes a big-endian byte slice into a Uint256.
func Uint256DecodeBytesBE(b []byte) (u Uint256, err error) {
	if len(b) != Uint256Size {
		return u, fmt.Errorf("expected []byte of size %d, got %d", Uint256Size, len(b))
	}
	copy(u[:], b)
	return u, nil
}

// Uint256DecodeBytesLE decodes a little-endian byte slice into a Uint256.
func Uint256DecodeBytesLE(b []byte) (u Uint256, err error) {
	u, err = Uint256DecodeBytesBE(b)
	if err != nil {
		return
	}
	u.reverse()
	return
}

// Uint256DecodeStringBE decodes a big-endian hex string into a Uint256.
func Uint256DecodeStringBE(s string) (u Uint256, err error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != Uint256Size*2 {
		return u, fmt.Errorf("expected string size of %d got %d", Uint256Size*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, err
	}
	return Uint256DecodeBytesBE(b)
}

// Uint256DecodeStringLE is the little-endian counterpart of
// Uint256DecodeStringBE.
func Uint256DecodeStringLE(s string) (u Uint256, err error) {
	u, err = Uint256DecodeStringBE(s)
	if err != nil {
		return
	}
	u.reverse()
	return
}

func (u *Uint256) reverse() {
	for i, j := 0, len(u)-1; i < j; i, j = i+1, j-1 {
		u[i], u[j] = u[j], u[i]
	}
}

// BytesBE returns a big-endian byte slice representation of u.
func (u Uint256) BytesBE() []byte {
	b := make([]byte, Uint256Size)
	copy(b, u[:])
	return b
}

// BytesLE returns a little-endian byte slice representation of u.
func (u Uint256) BytesLE() []byte {
	b := u.BytesBE()
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}

// Equals returns true if u == other.
func (u Uint256) Equals(other Uint256) bool {
	return u == other
}

// Less compares two hashes as big-endian byte strings.
func (u Uint256) Less(other Uint256) bool {
	return bytes.Compare(u[:], other[:]) < 0
}

// String returns the big-endian hex form without a 0x prefix.
func (u Uint256) String() string {
	return hex.EncodeToString(u.BytesBE())
}

// StringLE returns the little-endian hex form.
func (u Uint256) StringLE() string {
	return hex.EncodeToString(u.BytesLE())
}

// MarshalJSON implements the json.Marshaler interface.
func (u Uint256) MarshalJSON() ([]byte, error) {
	return json.Marshal("0x" + u.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (u *Uint256) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	res, err := Uint256DecodeStringBE(s)
	if err != nil {
		return err
	}
	*u = res
	return nil
}
