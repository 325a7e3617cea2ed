package keys

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dsaecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/hash"
)

// SignSecp256k1 signs msg with d over the secp256k1 curve, the alternate
// curve Neo N3's System.Crypto.CheckSig/CheckMultisig interops accept.
// Used only by message-signing helpers: transaction witnesses are
// always verified with secp256r1, never this curve.
func SignSecp256k1(d []byte, msg []byte) ([]byte, error) {
	priv := secp256k1.PrivKeyFromBytes(d)
	digest := hash.Sha256(msg)
	sig := dsaecdsa.SignCompact(priv, digest[:], true)
	// SignCompact returns [recovery-byte || r(32) || s(32)]; callers in
	// this package work with plain r||s, so strip the recovery byte.
	return sig[1:], nil
}

// VerifySecp256k1 verifies a 64-byte r||s signature of msg against a
// compressed or uncompressed secp256k1 public key.
func VerifySecp256k1(pub []byte, msg, sig []byte) bool {
	if len(sig) != 64 {
		return false
	}
	pk, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return false
	}
	digest := hash.Sha256(msg)
	s, err := dsaecdsa.ParseDERSignature(derFromRS(sig[:32], sig[32:]))
	if err != nil {
		return false
	}
	return s.Verify(digest[:], pk)
}

// derFromRS re-encodes a raw r||s signature as DER, the form the decred
// ecdsa package's parser expects.
func derFromRS(r, s []byte) []byte {
	trim := func(b []byte) []byte {
		for len(b) > 1 && b[0] == 0 {
			b = b[1:]
		}
		if b[0]&0x80 != 0 {
			b = append([]byte{0}, b...)
		}
		return b
	}
	rt, st := trim(r), trim(s)
	body := make([]byte, 0, 4+len(rt)+len(st))
	body = append(body, 0x02, byte(len(rt)))
	body = append(body, rt...)
	body = append(body, 0x02, byte(len(st)))
	body = append(body, st...)
	out := make([]byte, 0, 2+len(body))
	out = append(out, 0x30, byte(len(body)))
	out = append(out, body...)
	return out
}
