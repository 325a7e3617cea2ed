package keys

import (
	"errors"
	"math/big"

	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/hash"
)

// SignWithRecovery signs msg like Sign, additionally returning the
// recovery id (0-3) needed to reconstruct the signer's public key from
// the signature alone. This is for message-signing helpers only — Neo
// transaction witnesses never carry a recovery id (the verification
// script already names the public key).
func (p *PrivateKey) SignWithRecovery(msg []byte) (sig []byte, recID int, err error) {
	sig = p.Sign(msg)
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])
	digest := hash.Sha256(msg)
	pub := p.PublicKey()
	n := curve().Params().N
	for id := 0; id < 4; id++ {
		cand, err := RecoverPublicKey(r, s, digest[:], id)
		if err == nil && cand.Equal(pub) {
			return sig, id, nil
		}
	}
	_ = n
	return nil, 0, errors.New("crypto/keys: failed to determine recovery id")
}

// RecoverPublicKey reconstructs the public key that could have produced
// signature (r,s) over digest z with recovery id recID ∈ {0,1,2,3}: bit 0
// selects the Y parity of the ephemeral point R, bit 1 selects whether R's
// X coordinate overflowed the curve order.
func RecoverPublicKey(r, s *big.Int, z []byte, recID int) (*PublicKey, error) {
	if recID < 0 || recID > 3 {
		return nil, errors.New("crypto/keys: recovery id must be in [0,3]")
	}
	c := curve()
	params := c.Params()
	n := params.N
	p := params.P

	i := new(big.Int).SetInt64(int64(recID / 2))
	rx := new(big.Int).Add(r, new(big.Int).Mul(i, n))
	if rx.Cmp(p) >= 0 {
		return nil, errors.New("crypto/keys: candidate R.x out of range")
	}
	parity := byte(0x02 | (recID & 1))
	ry, err := decompress(parity, rx)
	if err != nil {
		return nil, err
	}

	e := new(big.Int).SetBytes(z)
	if nbits, ebits := n.BitLen(), e.BitLen(); ebits > nbits {
		e.Rsh(e, uint(ebits-nbits))
	}
	e.Mod(e, n)

	sRx, sRy := c.ScalarMult(rx, ry, s.Bytes())
	eGx, eGy := c.ScalarBaseMult(e.Bytes())
	negEGy := new(big.Int).Sub(p, eGy)
	negEGy.Mod(negEGy, p)
	sumX, sumY := c.Add(sRx, sRy, eGx, negEGy)

	rInv := new(big.Int).ModInverse(r, n)
	if rInv == nil {
		return nil, errors.New("crypto/keys: r has no inverse mod n")
	}
	qx, qy := c.ScalarMult(sumX, sumY, rInv.Bytes())
	if !c.IsOnCurve(qx, qy) {
		return nil, errors.New("crypto/keys: recovered point is not on curve")
	}
	return &PublicKey{X: qx, Y: qy}, nil
}
