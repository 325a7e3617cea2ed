package keys

import (
	"math/big"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignWithRecoveryAndRecover(t *testing.T) {
	p, err := NewPrivateKey()
	require.NoError(t, err)
	msg := []byte("recover me")

	sig, recID, err := p.SignWithRecovery(msg)
	require.NoError(t, err)
	assert.True(t, recID >= 0 && recID <= 3)

	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])
	digest := hash.Sha256(msg)

	recovered, err := RecoverPublicKey(r, s, digest[:], recID)
	require.NoError(t, err)
	assert.True(t, p.PublicKey().Equal(recovered))
}

func TestRecoverPublicKeyRejectsBadRecID(t *testing.T) {
	p, err := NewPrivateKey()
	require.NoError(t, err)
	msg := []byte("bad recid")
	sig := p.Sign(msg)
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])
	digest := hash.Sha256(msg)
	_, err = RecoverPublicKey(r, s, digest[:], 7)
	assert.Error(t, err)
}

func TestSecp256k1SignVerifyRoundTrip(t *testing.T) {
	d := make([]byte, 32)
	d[31] = 0x01
	msg := []byte("alt curve message")

	sig, err := SignSecp256k1(d, msg)
	require.NoError(t, err)
	require.Len(t, sig, 64)

	priv := secp256k1.PrivKeyFromBytes(d)
	pubBytes := priv.PubKey().SerializeCompressed()
	assert.True(t, VerifySecp256k1(pubBytes, msg, sig))
	assert.False(t, VerifySecp256k1(pubBytes, []byte("other message"), sig))
}
