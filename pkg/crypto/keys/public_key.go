package keys

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math/big"
	"sort"

	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-sdk-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-sdk-go/pkg/util"
	"github.com/nspcc-dev/neo-sdk-go/pkg/vm/emit"
)

var (
	errNotOnCurve  = errors.New("point is not on the curve")
	errInvalidSize = errors.New("public key must be 33 compressed or 65 uncompressed bytes")
)

// PublicKey is a secp256r1 point, always held and serialized in
// compressed (33-byte) form per Neo N3 convention.
type PublicKey struct {
	X, Y *big.Int
}

// NewPublicKeyFromBytes decodes a compressed (33-byte, 0x02/0x03 prefix)
// or uncompressed (65-byte, 0x04 prefix) encoded point, validating that
// it lies on the curve.
func NewPublicKeyFromBytes(b []byte) (*PublicKey, error) {
	switch {
	case len(b) == PublicKeySize && (b[0] == 0x02 || b[0] == 0x03):
		x := new(big.Int).SetBytes(b[1:])
		y, err := decompress(b[0], x)
		if err != nil {
			return nil, err
		}
		return &PublicKey{X: x, Y: y}, nil
	case len(b) == 65 && b[0] == 0x04:
		x := new(big.Int).SetBytes(b[1:33])
		y := new(big.Int).SetBytes(b[33:65])
		if !curve().IsOnCurve(x, y) {
			return nil, errNotOnCurve
		}
		return &PublicKey{X: x, Y: y}, nil
	default:
		return nil, errInvalidSize
	}
}

// NewPublicKeyFromString decodes a hex-encoded compressed public key.
func NewPublicKeyFromString(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return NewPublicKeyFromBytes(b)
}

// Bytes returns the 33-byte compressed encoding.
func (p *PublicKey) Bytes() []byte {
	b := make([]byte, PublicKeySize)
	if p.Y.Bit(0) == 0 {
		b[0] = 0x02
	} else {
		b[0] = 0x03
	}
	xb := p.X.Bytes()
	copy(b[1+PublicKeySize-1-len(xb):], xb)
	return b
}

// String returns the lowercase hex of the compressed encoding.
func (p *PublicKey) String() string {
	return hex.EncodeToString(p.Bytes())
}

// ecdsaPublic adapts p to stdlib's crypto/ecdsa.PublicKey.
func (p *PublicKey) ecdsaPublic() *ecdsa.PublicKey {
	return &ecdsa.PublicKey{Curve: curve(), X: p.X, Y: p.Y}
}

// Verify checks a 64-byte r||s signature of msg under p, rejecting any
// signature whose S component is not already in low-S canonical form.
func (p *PublicKey) Verify(msg, sig []byte) bool {
	if len(sig) != 64 {
		return false
	}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])
	if !isLowS(s) {
		return false
	}
	digest := hash.Sha256(msg)
	return ecdsa.Verify(p.ecdsaPublic(), digest[:], r, s)
}

// Equal reports whether p and other are the same curve point.
func (p *PublicKey) Equal(other *PublicKey) bool {
	if other == nil {
		return false
	}
	return p.X.Cmp(other.X) == 0 && p.Y.Cmp(other.Y) == 0
}

// GetScriptHash returns Hash160 of the single-signature verification
// script derived from p.
func (p *PublicKey) GetScriptHash() util.Uint160 {
	return hash.Hash160(p.GetVerificationScript())
}

// Address returns the Base58Check address for the single-signature
// account derived from p, using the given address version byte.
func (p *PublicKey) Address(version byte) string {
	return address.Uint160ToString(p.GetScriptHash(), version)
}

// GetVerificationScript emits PUSHDATA1 0x21 pubkey SYSCALL(CheckSig),
// the canonical single-signature verification script.
func (p *PublicKey) GetVerificationScript() []byte {
	buf := new(bytes.Buffer)
	emit.Bytes(buf, p.Bytes())
	emit.Syscall(buf, SyscallCheckSig)
	return buf.Bytes()
}

// MarshalJSON implements json.Marshaler, encoding as lowercase hex
// without a 0x prefix per the contract-parameter JSON convention.
func (p *PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	res, err := NewPublicKeyFromString(s)
	if err != nil {
		return err
	}
	*p = *res
	return nil
}

// SyscallCheckSig is the interop name for System.Crypto.CheckSig.
const SyscallCheckSig = "System.Crypto.CheckSig"

// SyscallCheckMultisig is the interop name for System.Crypto.CheckMultisig.
const SyscallCheckMultisig = "System.Crypto.CheckMultisig"

// PublicKeys is a sortable collection of public keys, ordered ascending
// by compressed-encoding bytes as the multisig verification script
// protocol requires.
type PublicKeys []*PublicKey

func (p PublicKeys) Len() int      { return len(p) }
func (p PublicKeys) Swap(i, j int) { p[i], p[j] = p[j], p[i] }
func (p PublicKeys) Less(i, j int) bool {
	return bytes.Compare(p[i].Bytes(), p[j].Bytes()) < 0
}

// Sort sorts p ascending in place, per the multisig protocol requirement.
func (p PublicKeys) Sort() { sort.Sort(p) }

// Contains reports whether p already holds a key equal to k (used to
// reject duplicate public keys in a multisig set).
func (p PublicKeys) Contains(k *PublicKey) bool {
	for _, pk := range p {
		if pk.Equal(k) {
			return true
		}
	}
	return false
}

// CreateMultiSigRedeemScript emits the m-of-n multisig verification
// script: PUSHINT(m), each pubkey pushed in ascending sorted order,
// PUSHINT(n), SYSCALL(CheckMultisig). Duplicate public keys are rejected.
func (p PublicKeys) CreateMultiSigRedeemScript(m int) ([]byte, error) {
	n := len(p)
	if m <= 0 || m > n {
		return nil, errors.New("invalid m for multisig script: must satisfy 1 <= m <= n")
	}
	if n == 0 || n > 1024 {
		return nil, errors.New("invalid n for multisig script: must satisfy 1 <= n <= 1024")
	}
	sorted := make(PublicKeys, n)
	copy(sorted, p)
	sorted.Sort()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if sorted[i].Equal(sorted[j]) {
				return nil, errors.New("duplicate public key in multisig set")
			}
		}
	}

	buf := new(bytes.Buffer)
	emit.Int(buf, int64(m))
	for _, pub := range sorted {
		emit.Bytes(buf, pub.Bytes())
	}
	emit.Int(buf, int64(n))
	emit.Syscall(buf, SyscallCheckMultisig)
	return buf.Bytes(), nil
}

// CreateDefaultMultiSigRedeemScript builds an m-of-len(p) multisig
// script where m is the default majority threshold ceil((2n+1)/3) used
// when the caller has no specific threshold requirement.
func (p PublicKeys) CreateDefaultMultiSigRedeemScript() ([]byte, error) {
	m := len(p) - (len(p)-1)/3
	return p.CreateMultiSigRedeemScript(m)
}
