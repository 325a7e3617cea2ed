// Package wallet implements Neo N3 accounts and the NEP-6 wallet
// container that groups them: key-bearing, encrypted, multi-sig, and
// watch-only accounts, each carrying the verification script and
// contract parameters needed to build a Signer/Witness pair.
package wallet

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-sdk-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-sdk-go/pkg/neoerr"
	"github.com/nspcc-dev/neo-sdk-go/pkg/smartcontract"
	"github.com/nspcc-dev/neo-sdk-go/pkg/util"
)

// ContractParam declares one named, typed argument a verification
// script expects — the NEP-6 "parameters" entries, not a
// smartcontract.Parameter value (there is nothing to evaluate yet,
// only a name and an ABI type).
type ContractParam struct {
	Name string
	Type smartcontract.ParamType
}

// Contract carries the verification script an account's witness must
// satisfy, along with the named parameters a NEP-6 UI would prompt for
// when building that witness by hand.
type Contract struct {
	Script     []byte
	Parameters []ContractParam
	Deployed   bool
}

// ScriptHash returns Hash160 of c's verification script.
func (c *Contract) ScriptHash() util.Uint160 {
	return hash.Hash160(c.Script)
}

// Account is either key-bearing (a live or NEP-2-locked ECKeyPair),
// multi-sig (a verification script whose m/n is recovered by parsing),
// or watch-only (address only, no script).
type Account struct {
	Address      string
	Label        string
	Locked       bool
	Default      bool
	Contract     *Contract
	EncryptedWIF string

	key *keys.PrivateKey
}

// NewAccount generates a fresh single-signature key-bearing account.
func NewAccount(addrVersion byte) (*Account, error) {
	priv, err := keys.NewPrivateKey()
	if err != nil {
		return nil, neoerr.New(neoerr.CryptoError, "NewAccount", err)
	}
	return NewAccountFromPrivateKey(priv, addrVersion), nil
}

// NewAccountFromPrivateKey builds a single-signature account around an
// already-generated key pair.
func NewAccountFromPrivateKey(priv *keys.PrivateKey, addrVersion byte) *Account {
	pub := priv.PublicKey()
	return &Account{
		Address: pub.Address(addrVersion),
		Contract: &Contract{
			Script:     pub.GetVerificationScript(),
			Parameters: []ContractParam{{Name: "signature", Type: smartcontract.SignatureType}},
		},
		key: priv,
	}
}

// NewAccountFromWIF decodes wif into a single-signature account.
func NewAccountFromWIF(wif string, addrVersion byte) (*Account, error) {
	priv, err := keys.NewPrivateKeyFromWIF(wif)
	if err != nil {
		return nil, neoerr.New(neoerr.CryptoError, "NewAccountFromWIF", err)
	}
	return NewAccountFromPrivateKey(priv, addrVersion), nil
}

// NewAccountFromEncryptedWIF decrypts a NEP-2 string into a
// single-signature account, immediately locking it again under
// EncryptedWIF so PrivateKey() requires a subsequent Decrypt call.
func NewAccountFromEncryptedWIF(nep2, password string, addrVersion byte, params keys.ScryptParams) (*Account, error) {
	priv, err := keys.NEP2Decrypt(nep2, password, addrVersion, params)
	if err != nil {
		return nil, err
	}
	acc := NewAccountFromPrivateKey(priv, addrVersion)
	acc.EncryptedWIF = nep2
	priv.Destroy()
	acc.key = nil
	return acc, nil
}

// NewWatchOnlyAccount builds an account that can only ever appear as a
// signer in CustomContracts/Global scope or be inspected, never sign.
func NewWatchOnlyAccount(addr string) *Account {
	return &Account{Address: addr}
}

// NewMultiSigAccount builds a multi-sig account from its participants
// and threshold, deriving the address from the resulting verification
// script.
func NewMultiSigAccount(pubs keys.PublicKeys, m int, addrVersion byte) (*Account, error) {
	script, err := pubs.CreateMultiSigRedeemScript(m)
	if err != nil {
		return nil, neoerr.New(neoerr.InvalidArgument, "NewMultiSigAccount", err)
	}
	params := make([]ContractParam, m)
	for i := range params {
		params[i] = ContractParam{Name: fmt.Sprintf("signature%d", i), Type: smartcontract.SignatureType}
	}
	h := hash.Hash160(script)
	return &Account{
		Address: address.Uint160ToString(h, addrVersion),
		Contract: &Contract{
			Script:     script,
			Parameters: params,
		},
	}, nil
}

// ScriptHash returns the account's script hash as derived from its
// contract, falling back to decoding Address for watch-only accounts.
func (a *Account) ScriptHash(addrVersion byte) (util.Uint160, error) {
	if a.Contract != nil {
		return a.Contract.ScriptHash(), nil
	}
	return address.StringToUint160(a.Address, addrVersion)
}

// IsMultiSig reports whether a's verification script parses as an
// m-of-n multisig contract. A watch-only account (no Contract) is
// never multi-sig, even if it happens to track a multisig address:
// without the verification script there is nothing to parse, so this
// deliberately returns false rather than guessing from the address.
func (a *Account) IsMultiSig() bool {
	if a.Contract == nil {
		return false
	}
	return keys.IsMultiSigContract(a.Contract.Script)
}

// SigningThreshold returns the m of an m-of-n multisig account, or 1
// for a single-signature account, or an error for watch-only/unparsable
// contracts.
func (a *Account) SigningThreshold() (int, error) {
	if a.Contract == nil {
		return 0, errors.New("wallet: watch-only account has no verification script")
	}
	if m, _, err := keys.ParseMultiSigContract(a.Contract.Script); err == nil {
		return m, nil
	}
	if _, err := keys.ParseSignatureContract(a.Contract.Script); err == nil {
		return 1, nil
	}
	return 0, errors.New("wallet: verification script is not a recognized signature or multisig contract")
}

// PrivateKey returns the account's held key, or nil if it is locked
// (EncryptedWIF set, Decrypt not yet called) or watch-only.
func (a *Account) PrivateKey() *keys.PrivateKey {
	return a.key
}

// Decrypt unlocks EncryptedWIF under password, populating the account's
// live PrivateKey. A wrong password surfaces as a CryptoError and
// leaves the account locked.
func (a *Account) Decrypt(password string, addrVersion byte, params keys.ScryptParams) error {
	if a.EncryptedWIF == "" {
		return neoerr.New(neoerr.InvalidState, "Account.Decrypt", errors.New("account has no encrypted key"))
	}
	priv, err := keys.NEP2Decrypt(a.EncryptedWIF, password, addrVersion, params)
	if err != nil {
		return err
	}
	a.key = priv
	return nil
}

// Encrypt locks the account's live key under password, storing the
// result as EncryptedWIF and discarding the plaintext key from memory.
func (a *Account) Encrypt(password string, addrVersion byte, params keys.ScryptParams) error {
	if a.key == nil {
		return neoerr.New(neoerr.InvalidState, "Account.Encrypt", errors.New("account has no private key to encrypt"))
	}
	nep2, err := keys.NEP2Encrypt(a.key, password, addrVersion, params)
	if err != nil {
		return err
	}
	a.EncryptedWIF = nep2
	a.key.Destroy()
	a.key = nil
	return nil
}

// String never reveals key material.
func (a *Account) String() string {
	return fmt.Sprintf("wallet.Account{Address: %s}", a.Address)
}
