// Package hash implements the hash primitives used throughout the SDK:
// SHA-256 (a single pass of which gives transaction ids), the doubled
// SHA-256 behind Base58Check checksums, and the RIPEMD-160(SHA-256(.))
// construction used for script hashes.
package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"

	"github.com/nspcc-dev/neo-sdk-go/pkg/util"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // required for Hash160
)

// Sha256 computes a single SHA-256 digest.
func Sha256(data []byte) util.Uint256 {
	h := sha256.Sum256(data)
	return h
}

// DoubleSha256 computes SHA-256(SHA-256(data)). Transaction and block
// ids use a single Sha256 pass (see transaction.Transaction.Hash);
// DoubleSha256 exists for callers working with externally-sourced data
// that was hashed the Bitcoin way.
func DoubleSha256(data []byte) util.Uint256 {
	h1 := sha256.Sum256(data)
	return Sha256(h1[:])
}

// RipeMD160 computes a RIPEMD-160 digest.
func RipeMD160(data []byte) []byte {
	h := ripemd160.New()
	_, _ = h.Write(data)
	return h.Sum(nil)
}

// Hash160 computes RIPEMD160(SHA256(data)), the digest used for script
// hashes (contract and account identifiers).
func Hash160(data []byte) util.Uint160 {
	sha := sha256.Sum256(data)
	ripe := RipeMD160(sha[:])
	var u util.Uint160
	copy(u[:], ripe)
	return u
}

// Checksum returns the first 4 bytes of DoubleSha256(data), the checksum
// appended by Base58Check.
func Checksum(data []byte) []byte {
	h := DoubleSha256(data)
	return h[:4]
}

// HMACSHA256 computes an HMAC-SHA256 over data with the given key.
func HMACSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// HMACSHA512 computes an HMAC-SHA512 over data with the given key.
func HMACSHA512(key, data []byte) []byte {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}
