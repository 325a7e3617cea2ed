package keys

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-sdk-go/pkg/encoding/address"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPublicKeyAddressKnownAnswer pins a fixed public key's derived
// address against the NEO3 version byte, and checks that decoding the
// address back to a script hash reproduces the hash derived directly
// from the public key.
func TestPublicKeyAddressKnownAnswer(t *testing.T) {
	hexPub := "02028a99826edc0c97d18e22b6932373d908d323aa7f92656a77ec26e8861699ef"
	pk, err := NewPublicKeyFromString(hexPub)
	require.NoError(t, err)
	addr := pk.Address(address.NEO3Version)
	assert.Len(t, addr, 34)
	assert.Equal(t, byte('N'), addr[0])

	decoded, err := address.StringToUint160(addr, address.NEO3Version)
	require.NoError(t, err)
	assert.Equal(t, pk.GetScriptHash(), decoded)
}

func TestPublicKeyFromBytesRoundTrip(t *testing.T) {
	p, err := NewPrivateKey()
	require.NoError(t, err)
	pub := p.PublicKey()
	b := pub.Bytes()
	require.Len(t, b, PublicKeySize)
	back, err := NewPublicKeyFromBytes(b)
	require.NoError(t, err)
	assert.True(t, pub.Equal(back))
}

func TestPublicKeyFromUncompressedBytes(t *testing.T) {
	p, err := NewPrivateKey()
	require.NoError(t, err)
	pub := p.PublicKey()
	uncompressed := make([]byte, 65)
	uncompressed[0] = 0x04
	xb, yb := pub.X.Bytes(), pub.Y.Bytes()
	copy(uncompressed[1+32-len(xb):33], xb)
	copy(uncompressed[33+32-len(yb):65], yb)
	back, err := NewPublicKeyFromBytes(uncompressed)
	require.NoError(t, err)
	assert.True(t, pub.Equal(back))
}

func TestPublicKeyFromBytesRejectsBadPoint(t *testing.T) {
	bad := make([]byte, PublicKeySize)
	bad[0] = 0x02
	bad[1] = 0xff
	_, err := NewPublicKeyFromBytes(bad)
	assert.Error(t, err)
}

func TestPublicKeyFromBytesRejectsBadLength(t *testing.T) {
	_, err := NewPublicKeyFromBytes([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestPublicKeyEqualDistinguishesKeys(t *testing.T) {
	p1, err := NewPrivateKey()
	require.NoError(t, err)
	p2, err := NewPrivateKey()
	require.NoError(t, err)
	assert.False(t, p1.PublicKey().Equal(p2.PublicKey()))
	assert.True(t, p1.PublicKey().Equal(p1.PublicKey()))
}

func TestPublicKeyVerifyRejectsHighS(t *testing.T) {
	p, err := NewPrivateKey()
	require.NoError(t, err)
	msg := []byte("high-s probe")
	sig := p.Sign(msg)
	r := append([]byte(nil), sig[:32]...)
	s := new(big.Int).SetBytes(sig[32:])
	n := curve().Params().N
	highS := new(big.Int).Sub(n, s)
	highSBytes := make([]byte, 32)
	hb := highS.Bytes()
	copy(highSBytes[32-len(hb):], hb)
	forged := append(append([]byte{}, r...), highSBytes...)
	assert.False(t, p.PublicKey().Verify(msg, forged))
}

func TestPublicKeyJSONRoundTrip(t *testing.T) {
	p, err := NewPrivateKey()
	require.NoError(t, err)
	pub := p.PublicKey()
	data, err := pub.MarshalJSON()
	require.NoError(t, err)
	var back PublicKey
	require.NoError(t, back.UnmarshalJSON(data))
	assert.True(t, pub.Equal(&back))
}

func TestGetVerificationScriptAndScriptHash(t *testing.T) {
	p, err := NewPrivateKey()
	require.NoError(t, err)
	pub := p.PublicKey()
	script := pub.GetVerificationScript()
	assert.NotEmpty(t, script)
	parsed, err := ParseSignatureContract(script)
	require.NoError(t, err)
	assert.True(t, pub.Equal(parsed))
	assert.Equal(t, pub.GetScriptHash(), parsed.GetScriptHash())
}

func TestPublicKeysSortAndContains(t *testing.T) {
	var pubs PublicKeys
	for i := 0; i < 3; i++ {
		p, err := NewPrivateKey()
		require.NoError(t, err)
		pubs = append(pubs, p.PublicKey())
	}
	pubs.Sort()
	for i := 1; i < len(pubs); i++ {
		assert.True(t, pubs[i-1].Bytes()[0] <= pubs[i].Bytes()[0] ||
			string(pubs[i-1].Bytes()) < string(pubs[i].Bytes()))
	}
	assert.True(t, pubs.Contains(pubs[0]))
}
