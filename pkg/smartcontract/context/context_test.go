package context

import (
	"testing"

	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-sdk-go/pkg/transaction"
	"github.com/nspcc-dev/neo-sdk-go/pkg/util"
	"github.com/stretchr/testify/require"
)

const testNetwork = uint32(860833102)

func newContractTx(t *testing.T, account util.Uint160) *transaction.Transaction {
	signer := transaction.Signer{Account: account, Scopes: transaction.CalledByEntry}
	return transaction.New([]byte{0x51}, 0, 0, 1000, 1, []transaction.Signer{signer}, nil)
}

func TestParameterContextAddSignatureSingleSig(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	pub := priv.PublicKey()
	script := pub.GetVerificationScript()
	scriptHash := pub.GetScriptHash()

	tx := newContractTx(t, scriptHash)
	c := NewParameterContext("Neo.Network.P2P.Payloads.Transaction", testNetwork, tx)

	msg := tx.SigningMessage(testNetwork)
	sig := priv.Sign(msg)

	other, err := keys.NewPrivateKey()
	require.NoError(t, err)
	require.Error(t, c.AddSignature(scriptHash, script, other.PublicKey(), sig))

	require.NoError(t, c.AddSignature(scriptHash, script, pub, sig))
	require.True(t, c.Complete())

	w, err := c.GetWitness(scriptHash)
	require.NoError(t, err)
	require.Equal(t, script, w.VerificationScript)
}

func TestParameterContextAddSignatureMultiSig(t *testing.T) {
	var privs []*keys.PrivateKey
	var pubs keys.PublicKeys
	for i := 0; i < 4; i++ {
		p, err := keys.NewPrivateKey()
		require.NoError(t, err)
		privs = append(privs, p)
		pubs = append(pubs, p.PublicKey())
	}
	script, err := pubs.CreateMultiSigRedeemScript(3)
	require.NoError(t, err)
	scriptHash := keysScriptHash(t, script)

	tx := newContractTx(t, scriptHash)
	c := NewParameterContext("Neo.Network.P2P.Payloads.Transaction", testNetwork, tx)
	msg := tx.SigningMessage(testNetwork)

	_, err = c.GetWitness(scriptHash)
	require.Error(t, err)

	for _, i := range []int{3, 0, 1} {
		sig := privs[i].Sign(msg)
		require.NoError(t, c.AddSignature(scriptHash, script, pubs[i], sig))
		require.Error(t, c.AddSignature(scriptHash, script, pubs[i], sig))
	}
	require.True(t, c.Complete())

	w, err := c.GetWitness(scriptHash)
	require.NoError(t, err)
	require.Equal(t, script, w.VerificationScript)
	require.NotEmpty(t, w.InvocationScript)
}

func TestParameterContextIncomplete(t *testing.T) {
	var pubs keys.PublicKeys
	var privs []*keys.PrivateKey
	for i := 0; i < 3; i++ {
		p, err := keys.NewPrivateKey()
		require.NoError(t, err)
		privs = append(privs, p)
		pubs = append(pubs, p.PublicKey())
	}
	script, err := pubs.CreateMultiSigRedeemScript(2)
	require.NoError(t, err)
	scriptHash := keysScriptHash(t, script)

	tx := newContractTx(t, scriptHash)
	c := NewParameterContext("Neo.Network.P2P.Payloads.Transaction", testNetwork, tx)
	msg := tx.SigningMessage(testNetwork)

	sig := privs[0].Sign(msg)
	require.NoError(t, c.AddSignature(scriptHash, script, pubs[0], sig))
	require.False(t, c.Complete())
	_, err = c.GetWitness(scriptHash)
	require.Error(t, err)
}

func TestParameterContextMarshalJSON(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	pub := priv.PublicKey()
	script := pub.GetVerificationScript()
	scriptHash := pub.GetScriptHash()

	tx := newContractTx(t, scriptHash)
	c := NewParameterContext("Neo.Network.P2P.Payloads.Transaction", testNetwork, tx)
	msg := tx.SigningMessage(testNetwork)
	sig := priv.Sign(msg)
	require.NoError(t, c.AddSignature(scriptHash, script, pub, sig))

	data, err := c.MarshalJSON()
	require.NoError(t, err)
	require.Contains(t, string(data), `"type":"Neo.Network.P2P.Payloads.Transaction"`)
}

func keysScriptHash(t *testing.T, script []byte) util.Uint160 {
	t.Helper()
	return hash.Hash160(script)
}
