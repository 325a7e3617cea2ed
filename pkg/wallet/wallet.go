package wallet

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-sdk-go/pkg/neoerr"
	"github.com/nspcc-dev/neo-sdk-go/pkg/util"
)

// DefaultScryptParams are the NEP-6 standard scrypt parameters
// (N=16384, r=8, p=8), which New assigns to a wallet's Scrypt field.
var DefaultScryptParams = keys.DefaultScryptParams

// Wallet is an ordered collection of accounts, all sharing the same
// address version, with exactly one designated default account.
type Wallet struct {
	Name           string
	Version        string
	Scrypt         keys.ScryptParams
	AddressVersion byte
	Accounts       []*Account
	Extra          map[string]interface{}
}

// New returns an empty Wallet using addrVersion for every address it
// derives and the NEP-6 default scrypt parameters.
func New(name string, addrVersion byte) *Wallet {
	return &Wallet{
		Name:           name,
		Version:        "1.0",
		Scrypt:         DefaultScryptParams,
		AddressVersion: addrVersion,
	}
}

// AddAccount appends acc, rejecting a script hash already present. The
// first account added becomes the default.
func (w *Wallet) AddAccount(acc *Account) error {
	h, err := acc.ScriptHash(w.AddressVersion)
	if err != nil {
		return neoerr.New(neoerr.InvalidArgument, "Wallet.AddAccount", err)
	}
	for _, existing := range w.Accounts {
		eh, err := existing.ScriptHash(w.AddressVersion)
		if err == nil && eh == h {
			return neoerr.New(neoerr.InvalidArgument, "Wallet.AddAccount",
				fmt.Errorf("account %s already present", existing.Address))
		}
	}
	if len(w.Accounts) == 0 {
		acc.Default = true
	}
	w.Accounts = append(w.Accounts, acc)
	return nil
}

// RemoveAccount removes the account at scriptHash. Removing the last
// remaining account is rejected; removing the default promotes the
// first remaining account to default.
func (w *Wallet) RemoveAccount(scriptHash util.Uint160) error {
	if len(w.Accounts) <= 1 {
		return neoerr.New(neoerr.InvalidState, "Wallet.RemoveAccount",
			errors.New("cannot remove the wallet's last account"))
	}
	idx := -1
	for i, acc := range w.Accounts {
		h, err := acc.ScriptHash(w.AddressVersion)
		if err == nil && h == scriptHash {
			idx = i
			break
		}
	}
	if idx < 0 {
		return neoerr.New(neoerr.InvalidArgument, "Wallet.RemoveAccount",
			fmt.Errorf("no account with script hash %s", scriptHash.StringLE()))
	}
	wasDefault := w.Accounts[idx].Default
	w.Accounts = append(w.Accounts[:idx], w.Accounts[idx+1:]...)
	if wasDefault {
		w.Accounts[0].Default = true
	}
	return nil
}

// GetAccount returns the account matching scriptHash, or nil.
func (w *Wallet) GetAccount(scriptHash util.Uint160) *Account {
	for _, acc := range w.Accounts {
		h, err := acc.ScriptHash(w.AddressVersion)
		if err == nil && h == scriptHash {
			return acc
		}
	}
	return nil
}

// DefaultAccount returns the wallet's designated default account, or
// nil if the wallet is empty.
func (w *Wallet) DefaultAccount() *Account {
	for _, acc := range w.Accounts {
		if acc.Default {
			return acc
		}
	}
	return nil
}

// SetDefault marks scriptHash's account as the default, clearing the
// flag on every other account.
func (w *Wallet) SetDefault(scriptHash util.Uint160) error {
	acc := w.GetAccount(scriptHash)
	if acc == nil {
		return neoerr.New(neoerr.InvalidArgument, "Wallet.SetDefault",
			fmt.Errorf("no account with script hash %s", scriptHash.StringLE()))
	}
	for _, other := range w.Accounts {
		other.Default = false
	}
	acc.Default = true
	return nil
}

// Validate checks the invariants a well-formed wallet must satisfy:
// at least one account, exactly one default, no duplicate script
// hashes.
func (w *Wallet) Validate() error {
	if len(w.Accounts) == 0 {
		return errors.New("wallet: must contain at least one account")
	}
	seen := make(map[util.Uint160]struct{}, len(w.Accounts))
	defaults := 0
	for _, acc := range w.Accounts {
		h, err := acc.ScriptHash(w.AddressVersion)
		if err != nil {
			return fmt.Errorf("wallet: account %s: %w", acc.Address, err)
		}
		if _, dup := seen[h]; dup {
			return fmt.Errorf("wallet: duplicate script hash %s", h.StringLE())
		}
		seen[h] = struct{}{}
		if acc.Default {
			defaults++
		}
	}
	if defaults != 1 {
		return fmt.Errorf("wallet: expected exactly one default account, found %d", defaults)
	}
	return nil
}
