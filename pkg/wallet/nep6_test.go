package wallet

import (
	"encoding/base64"
	"testing"

	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/keys"
	"github.com/stretchr/testify/require"
)

func TestNEP6RoundTripSingleSig(t *testing.T) {
	w := New("mywallet", testAddrVersion)
	acc, err := NewAccount(testAddrVersion)
	require.NoError(t, err)
	require.NoError(t, acc.Encrypt("testpass", testAddrVersion, keys.DefaultScryptParams))
	require.NoError(t, w.AddAccount(acc))

	data, err := w.MarshalJSON()
	require.NoError(t, err)

	var decoded Wallet
	decoded.AddressVersion = testAddrVersion
	require.NoError(t, decoded.UnmarshalJSON(data))
	require.NoError(t, decoded.Validate())

	require.Len(t, decoded.Accounts, 1)
	require.Equal(t, acc.Address, decoded.Accounts[0].Address)
	require.Equal(t, acc.EncryptedWIF, decoded.Accounts[0].EncryptedWIF)
	require.True(t, decoded.Accounts[0].Default)
	require.Len(t, decoded.Accounts[0].Contract.Parameters, 1)
}

func TestNEP6RoundTripMultiSig(t *testing.T) {
	w := New("multisig", testAddrVersion)
	var pubs keys.PublicKeys
	for i := 0; i < 3; i++ {
		priv, err := keys.NewPrivateKey()
		require.NoError(t, err)
		pubs = append(pubs, priv.PublicKey())
	}
	acc, err := NewMultiSigAccount(pubs, 2, testAddrVersion)
	require.NoError(t, err)
	require.NoError(t, w.AddAccount(acc))

	data, err := w.MarshalJSON()
	require.NoError(t, err)

	var decoded Wallet
	decoded.AddressVersion = testAddrVersion
	require.NoError(t, decoded.UnmarshalJSON(data))
	require.True(t, decoded.Accounts[0].IsMultiSig())
	require.Len(t, decoded.Accounts[0].Contract.Parameters, 2)
}

func TestNEP6RejectsMultipleDefaults(t *testing.T) {
	raw := []byte(`{
		"name": "bad",
		"version": "1.0",
		"scrypt": {"n": 16384, "r": 8, "p": 8},
		"accounts": [
			{"address": "NVTiAjNgagDkTr5HTzDmQP9kPwPHN5BgVq", "isDefault": true, "lock": false},
			{"address": "NLnyLtep7jwyq1qhNPkwXbJpurC4jUT8ke", "isDefault": true, "lock": false}
		],
		"extra": null
	}`)
	var w Wallet
	require.Error(t, w.UnmarshalJSON(raw))
}

func TestNEP6RejectsMismatchedParamCount(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	script := priv.PublicKey().GetVerificationScript()
	raw := `{
		"name": "bad",
		"version": "1.0",
		"scrypt": {"n": 16384, "r": 8, "p": 8},
		"accounts": [
			{"address": "NVTiAjNgagDkTr5HTzDmQP9kPwPHN5BgVq", "isDefault": true, "lock": false,
			 "contract": {"script": "` + base64.StdEncoding.EncodeToString(script) + `", "parameters": [], "deployed": false}}
		],
		"extra": null
	}`
	var w Wallet
	require.Error(t, w.UnmarshalJSON([]byte(raw)))
}
