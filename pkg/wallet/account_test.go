package wallet

import (
	"testing"

	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/keys"
	"github.com/stretchr/testify/require"
)

const testAddrVersion = 0x35

func TestNewAccount(t *testing.T) {
	acc, err := NewAccount(testAddrVersion)
	require.NoError(t, err)
	require.NotNil(t, acc.PrivateKey())
	require.NotEmpty(t, acc.Address)
	require.False(t, acc.IsMultiSig())
}

func TestNewAccountFromWIF(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	acc, err := NewAccountFromWIF(priv.WIF(), testAddrVersion)
	require.NoError(t, err)
	require.Equal(t, priv.PublicKey().Address(testAddrVersion), acc.Address)
}

func TestAccountEncryptDecryptRoundTrip(t *testing.T) {
	acc, err := NewAccount(testAddrVersion)
	require.NoError(t, err)
	wif := acc.PrivateKey().WIF()

	require.NoError(t, acc.Encrypt("correct horse battery staple", testAddrVersion, keys.DefaultScryptParams))
	require.Nil(t, acc.PrivateKey())
	require.NotEmpty(t, acc.EncryptedWIF)

	require.NoError(t, acc.Decrypt("correct horse battery staple", testAddrVersion, keys.DefaultScryptParams))
	require.Equal(t, wif, acc.PrivateKey().WIF())
}

func TestAccountDecryptWrongPassword(t *testing.T) {
	acc, err := NewAccount(testAddrVersion)
	require.NoError(t, err)
	require.NoError(t, acc.Encrypt("rightpass", testAddrVersion, keys.DefaultScryptParams))
	require.Error(t, acc.Decrypt("wrongpass", testAddrVersion, keys.DefaultScryptParams))
}

func TestNewMultiSigAccount(t *testing.T) {
	var pubs keys.PublicKeys
	for i := 0; i < 3; i++ {
		priv, err := keys.NewPrivateKey()
		require.NoError(t, err)
		pubs = append(pubs, priv.PublicKey())
	}
	acc, err := NewMultiSigAccount(pubs, 2, testAddrVersion)
	require.NoError(t, err)
	require.True(t, acc.IsMultiSig())
	m, err := acc.SigningThreshold()
	require.NoError(t, err)
	require.Equal(t, 2, m)
}

func TestWatchOnlyAccountIsNeverMultiSig(t *testing.T) {
	acc := NewWatchOnlyAccount("NVTiAjNgagDkTr5HTzDmQP9kPwPHN5BgVq")
	require.False(t, acc.IsMultiSig())
	_, err := acc.SigningThreshold()
	require.Error(t, err)
}

func TestSingleSigAccountThreshold(t *testing.T) {
	acc, err := NewAccount(testAddrVersion)
	require.NoError(t, err)
	m, err := acc.SigningThreshold()
	require.NoError(t, err)
	require.Equal(t, 1, m)
}

func TestAccountStringHidesKeyMaterial(t *testing.T) {
	acc, err := NewAccount(testAddrVersion)
	require.NoError(t, err)
	require.NotContains(t, acc.String(), acc.PrivateKey().WIF())
}
