package wallet

import (
	"encoding/base64"
	"errors"
	"fmt"

	json "github.com/nspcc-dev/go-ordered-json"
	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/base58"
	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-sdk-go/pkg/neoerr"
	"github.com/nspcc-dev/neo-sdk-go/pkg/smartcontract"
)

// nep6Wallet mirrors the on-disk NEP-6 wallet JSON shape. Marshalling
// writes fields in the struct's declaration order; the formatting of
// an input file and any fields the struct does not declare are not
// kept, so re-marshalled output is not a byte-for-byte copy of it.
type nep6Wallet struct {
	Name     string            `json:"name"`
	Version  string            `json:"version"`
	Scrypt   nep6Scrypt        `json:"scrypt"`
	Accounts []nep6Account     `json:"accounts"`
	Extra    map[string]interface{} `json:"extra"`
}

type nep6Scrypt struct {
	N int `json:"n"`
	R int `json:"r"`
	P int `json:"p"`
}

type nep6Account struct {
	Address   string           `json:"address"`
	Label     *string          `json:"label"`
	IsDefault bool             `json:"isDefault"`
	Lock      bool             `json:"lock"`
	Key       *string          `json:"key"`
	Contract  *nep6Contract    `json:"contract"`
	Extra     map[string]interface{} `json:"extra"`
}

type nep6Contract struct {
	Script     string              `json:"script"`
	Parameters []nep6ContractParam `json:"parameters"`
	Deployed   bool                `json:"deployed"`
}

type nep6ContractParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// MarshalJSON implements json.Marshaler in the NEP-6 wire shape.
func (w *Wallet) MarshalJSON() ([]byte, error) {
	out := nep6Wallet{
		Name:    w.Name,
		Version: w.Version,
		Scrypt:  nep6Scrypt{N: w.Scrypt.N, R: w.Scrypt.R, P: w.Scrypt.P},
		Extra:   w.Extra,
	}
	for _, acc := range w.Accounts {
		enc, err := encodeAccount(acc)
		if err != nil {
			return nil, err
		}
		out.Accounts = append(out.Accounts, enc)
	}
	return json.Marshal(out)
}

func encodeAccount(acc *Account) (nep6Account, error) {
	enc := nep6Account{
		Address:   acc.Address,
		IsDefault: acc.Default,
		Lock:      acc.Locked,
		Extra:     map[string]interface{}{},
	}
	if acc.Label != "" {
		enc.Label = &acc.Label
	}
	if acc.EncryptedWIF != "" {
		enc.Key = &acc.EncryptedWIF
	}
	if acc.Contract != nil {
		params := make([]nep6ContractParam, len(acc.Contract.Parameters))
		for i, p := range acc.Contract.Parameters {
			params[i] = nep6ContractParam{Name: p.Name, Type: p.Type.String()}
		}
		enc.Contract = &nep6Contract{
			Script:     base64.StdEncoding.EncodeToString(acc.Contract.Script),
			Parameters: params,
			Deployed:   acc.Contract.Deployed,
		}
	}
	return enc, nil
}

// UnmarshalJSON implements json.Unmarshaler, validating the NEP-6
// wallet file's invariants as it decodes: exactly one default account,
// every keyed account holding a syntactically valid NEP-2 string,
// every contract script decoding as valid bytes, and parameter-count
// consistency with the recovered signing threshold.
func (w *Wallet) UnmarshalJSON(data []byte) error {
	var in nep6Wallet
	if err := json.Unmarshal(data, &in); err != nil {
		return neoerr.New(neoerr.SerializationError, "Wallet.UnmarshalJSON", err)
	}
	out := &Wallet{
		Name:           in.Name,
		Version:        in.Version,
		Scrypt:         keys.ScryptParams{N: in.Scrypt.N, R: in.Scrypt.R, P: in.Scrypt.P},
		AddressVersion: w.AddressVersion,
		Extra:          in.Extra,
	}
	if out.AddressVersion == 0 {
		out.AddressVersion = 0x35
	}

	defaults := 0
	for _, a := range in.Accounts {
		acc := &Account{
			Address: a.Address,
			Locked:  a.Lock,
			Default: a.IsDefault,
		}
		if a.Label != nil {
			acc.Label = *a.Label
		}
		if a.IsDefault {
			defaults++
		}
		if a.Key != nil {
			if _, err := keys.NewPrivateKeyFromWIF(*a.Key); err == nil {
				return neoerr.New(neoerr.SerializationError, "Wallet.UnmarshalJSON",
					fmt.Errorf("account %s: key field must be NEP-2, not WIF", a.Address))
			}
			if p, err := base58.CheckDecode(*a.Key); err != nil || len(p) != 39 || p[0] != 0x01 || p[1] != 0x42 || p[2] != 0xe0 {
				return neoerr.New(neoerr.SerializationError, "Wallet.UnmarshalJSON",
					fmt.Errorf("account %s: key field is not a NEP-2 string", a.Address))
			}
			acc.EncryptedWIF = *a.Key
		}
		if a.Contract != nil {
			script, err := base64.StdEncoding.DecodeString(a.Contract.Script)
			if err != nil {
				return neoerr.New(neoerr.SerializationError, "Wallet.UnmarshalJSON",
					fmt.Errorf("account %s: %w", a.Address, err))
			}
			params := make([]ContractParam, len(a.Contract.Parameters))
			for i, p := range a.Contract.Parameters {
				pt, err := smartcontract.ParseParamType(p.Type)
				if err != nil {
					return neoerr.New(neoerr.SerializationError, "Wallet.UnmarshalJSON", err)
				}
				params[i] = ContractParam{Name: p.Name, Type: pt}
			}
			acc.Contract = &Contract{
				Script:     script,
				Parameters: params,
				Deployed:   a.Contract.Deployed,
			}
			if err := validateParamCount(acc); err != nil {
				return neoerr.New(neoerr.SerializationError, "Wallet.UnmarshalJSON",
					fmt.Errorf("account %s: %w", a.Address, err))
			}
		}
		out.Accounts = append(out.Accounts, acc)
	}
	if len(out.Accounts) > 0 && defaults != 1 {
		return neoerr.New(neoerr.SerializationError, "Wallet.UnmarshalJSON",
			fmt.Errorf("expected exactly one default account, found %d", defaults))
	}
	*w = *out
	return nil
}

// validateParamCount checks that a multi-sig contract declares exactly
// m parameters and a single-signature contract declares exactly one,
// matching the number of signatures its verification script expects.
func validateParamCount(acc *Account) error {
	if m, _, err := keys.ParseMultiSigContract(acc.Contract.Script); err == nil {
		if len(acc.Contract.Parameters) != m {
			return fmt.Errorf("multisig contract declares %d parameters, want %d", len(acc.Contract.Parameters), m)
		}
		return nil
	}
	if _, err := keys.ParseSignatureContract(acc.Contract.Script); err == nil {
		if len(acc.Contract.Parameters) != 1 {
			return fmt.Errorf("signature contract declares %d parameters, want 1", len(acc.Contract.Parameters))
		}
		return nil
	}
	if acc.Contract.Deployed {
		return nil
	}
	return errors.New("contract script is not a recognized signature or multisig verification script")
}
