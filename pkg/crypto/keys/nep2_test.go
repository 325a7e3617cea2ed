package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNEP2RoundTrip(t *testing.T) {
	p, err := NewPrivateKey()
	require.NoError(t, err)
	enc, err := NEP2Encrypt(p, "TestingOneTwoThree", 0x35, DefaultScryptParams)
	require.NoError(t, err)
	assert.True(t, len(enc) > 0 && enc[:2] == "6P")

	dec, err := NEP2Decrypt(enc, "TestingOneTwoThree", 0x35, DefaultScryptParams)
	require.NoError(t, err)
	assert.Equal(t, p.Bytes(), dec.Bytes())
}

func TestNEP2WrongPasswordFails(t *testing.T) {
	p, err := NewPrivateKey()
	require.NoError(t, err)
	enc, err := NEP2Encrypt(p, "correct horse battery staple", 0x35, DefaultScryptParams)
	require.NoError(t, err)

	_, err = NEP2Decrypt(enc, "wrong password", 0x35, DefaultScryptParams)
	assert.Error(t, err)
}

func TestNEP2RejectsMalformedPayload(t *testing.T) {
	_, err := NEP2Decrypt("not a nep2 string at all", "pw", 0x35, DefaultScryptParams)
	assert.Error(t, err)
}

func TestNEP2ScryptParamsValidation(t *testing.T) {
	p, err := NewPrivateKey()
	require.NoError(t, err)

	bad := ScryptParams{N: 3, R: 8, P: 8}
	_, err = NEP2Encrypt(p, "pw", 0x35, bad)
	assert.Error(t, err)

	tooHeavy := ScryptParams{N: 1 << 20, R: 8, P: 8, MemoryCeiling: 1024}
	_, err = NEP2Encrypt(p, "pw", 0x35, tooHeavy)
	assert.Error(t, err)
}

func TestNEP2DifferentAddressVersionsDifferentCiphertext(t *testing.T) {
	p, err := NewPrivateKey()
	require.NoError(t, err)
	a, err := NEP2Encrypt(p, "pw", 0x35, DefaultScryptParams)
	require.NoError(t, err)
	b, err := NEP2Encrypt(p, "pw", 0x17, DefaultScryptParams)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	// decrypting with the wrong version fails the address-hash check.
	_, err = NEP2Decrypt(a, "pw", 0x17, DefaultScryptParams)
	assert.Error(t, err)
}
