// Package base58 implements Base58 and Base58Check encoding as used by
// WIF, NEP-2, and Neo addresses.
package base58

import (
	"bytes"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/hash"
)

// Encode encodes b as Base58.
func Encode(b []byte) string {
	return base58.Encode(b)
}

// Decode decodes a Base58 string into bytes.
func Decode(s string) ([]byte, error) {
	return base58.Decode(s)
}

// CheckEncode encodes payload || checksum(payload)[0:4] as Base58, where
// checksum(x) = SHA256(SHA256(x)).
func CheckEncode(payload []byte) string {
	b := make([]byte, 0, len(payload)+4)
	b = append(b, payload...)
	b = append(b, hash.Checksum(payload)...)
	return Encode(b)
}

// CheckDecode is the inverse of CheckEncode: it Base58-decodes s, then
// validates and strips the trailing 4-byte checksum.
func CheckDecode(s string) ([]byte, error) {
	b, err := Decode(s)
	if err != nil {
		return nil, err
	}
	if len(b) < 5 {
		return nil, fmt.Errorf("base58check: payload too short")
	}
	payload, checksum := b[:len(b)-4], b[len(b)-4:]
	expected := hash.Checksum(payload)
	if !bytes.Equal(checksum, expected) {
		return nil, fmt.Errorf("base58check: invalid checksum")
	}
	return payload, nil
}
