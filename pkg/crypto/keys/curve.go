package keys

import (
	"crypto/elliptic"
	"math/big"
)

// curve is the secp256r1 (NIST P-256) domain Neo N3 uses for account
// keys and transaction witnesses. Lazily initialized by the stdlib, this
// is the immutable shared domain-parameter value the corpus otherwise
// exposes as a process-wide "NeoConstants" object (see DESIGN.md).
func curve() elliptic.Curve {
	return elliptic.P256()
}

// PublicKeySize is the length in bytes of a compressed public key.
const PublicKeySize = 33

// PrivateKeySize is the length in bytes of a secp256r1 scalar.
const PrivateKeySize = 32

// decompress reconstructs the Y coordinate of a compressed point,
// choosing the root matching the parity byte (0x02 even, 0x03 odd).
func decompress(prefix byte, x *big.Int) (*big.Int, error) {
	c := curve().Params()
	// y^2 = x^3 - 3x + b (mod p)
	y2 := new(big.Int).Mul(x, x)
	y2.Mul(y2, x)
	threeX := new(big.Int).Lsh(x, 1)
	threeX.Add(threeX, x)
	y2.Sub(y2, threeX)
	y2.Add(y2, c.B)
	y2.Mod(y2, c.P)

	// p ≡ 3 (mod 4) for P-256, so sqrt(a) = a^((p+1)/4) mod p.
	exp := new(big.Int).Add(c.P, big.NewInt(1))
	exp.Rsh(exp, 2)
	y := new(big.Int).Exp(y2, exp, c.P)

	check := new(big.Int).Mul(y, y)
	check.Mod(check, c.P)
	if check.Cmp(y2) != 0 {
		return nil, errNotOnCurve
	}
	if y.Bit(0) != uint(prefix&0x01) {
		y.Sub(c.P, y)
	}
	return y, nil
}
