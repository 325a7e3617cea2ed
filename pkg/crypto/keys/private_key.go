package keys

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math/big"

	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/secret"
	"github.com/nspcc-dev/rfc6979"
)

// PrivateKey is a secp256r1 scalar d, held inside a secret container so it
// is never implicitly copied, logged, or serialized. The derived public
// key is cached alongside it.
type PrivateKey struct {
	d   *secret.Bytes
	pub *PublicKey
}

// NewPrivateKey draws 32 bytes from a CSPRNG, rejecting (and reseeding)
// any sample that falls outside [1, n).
func NewPrivateKey() (*PrivateKey, error) {
	n := curve().Params().N
	for {
		b := make([]byte, PrivateKeySize)
		if _, err := rand.Read(b); err != nil {
			return nil, errors.New("crypto/keys: CSPRNG failure: " + err.Error())
		}
		d := new(big.Int).SetBytes(b)
		if d.Sign() > 0 && d.Cmp(n) < 0 {
			return newFromScalar(b, d)
		}
	}
}

// NewPrivateKeyFromBytes validates and wraps a 32-byte scalar.
func NewPrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeySize {
		return nil, errors.New("crypto/keys: private key must be 32 bytes")
	}
	d := new(big.Int).SetBytes(b)
	n := curve().Params().N
	if d.Sign() <= 0 || d.Cmp(n) >= 0 {
		return nil, errors.New("crypto/keys: scalar out of range [1, n)")
	}
	return newFromScalar(b, d)
}

// NewPrivateKeyFromHex decodes a 64-character hex string into a scalar.
func NewPrivateKeyFromHex(s string) (*PrivateKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return NewPrivateKeyFromBytes(b)
}

func newFromScalar(raw []byte, d *big.Int) (*PrivateKey, error) {
	x, y := curve().ScalarBaseMult(raw)
	return &PrivateKey{
		d:   secret.New(raw),
		pub: &PublicKey{X: x, Y: y},
	}, nil
}

// PublicKey returns the derived compressed public key Q = d*G.
func (p *PrivateKey) PublicKey() *PublicKey {
	return p.pub
}

// Bytes returns a copy of the 32-byte scalar. Callers that retain it
// are responsible for zeroizing it with secret.Wipe when done; prefer
// With for transient access. After Destroy it returns nil.
func (p *PrivateKey) Bytes() []byte {
	if p.d.Len() == 0 {
		return nil
	}
	var out []byte
	p.d.With(func(b []byte) {
		out = make([]byte, len(b))
		copy(out, b)
	})
	return out
}

// With grants scoped access to the plaintext scalar bytes.
func (p *PrivateKey) With(fn func(b []byte)) {
	p.d.With(fn)
}

// Destroy zeroizes the held scalar. Safe to call more than once.
func (p *PrivateKey) Destroy() {
	p.d.Destroy()
}

// String never reveals key material.
func (p *PrivateKey) String() string {
	return "keys.PrivateKey{...}"
}

func (p *PrivateKey) ecdsaPrivate() *ecdsa.PrivateKey {
	var priv *ecdsa.PrivateKey
	p.With(func(b []byte) {
		priv = &ecdsa.PrivateKey{
			PublicKey: *p.pub.ecdsaPublic(),
			D:         new(big.Int).SetBytes(b),
		}
	})
	return priv
}

// Sign computes a 64-byte r||s ECDSA signature of SHA256(msg), using a
// deterministic per-message nonce (RFC 6979) and normalizing s to its
// low-S form (s <= n/2) as Neo witnesses require.
func (p *PrivateKey) Sign(msg []byte) []byte {
	digest := hash.Sha256(msg)
	priv := p.ecdsaPrivate()
	r, s := rfc6979.SignECDSA(priv, digest[:], sha256.New)
	s = toLowS(s)
	return packSignature(r, s)
}

func toLowS(s *big.Int) *big.Int {
	n := curve().Params().N
	half := new(big.Int).Rsh(n, 1)
	if s.Cmp(half) > 0 {
		s = new(big.Int).Sub(n, s)
	}
	return s
}

func isLowS(s *big.Int) bool {
	n := curve().Params().N
	half := new(big.Int).Rsh(n, 1)
	return s.Cmp(half) <= 0
}

func packSignature(r, s *big.Int) []byte {
	out := make([]byte, 64)
	rb := r.Bytes()
	sb := s.Bytes()
	copy(out[32-len(rb):32], rb)
	copy(out[64-len(sb):64], sb)
	return out
}
