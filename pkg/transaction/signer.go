package transaction

import (
	"encoding/json"
	"fmt"

	io "github.com/nspcc-dev/neo-sdk-go/pkg/io"
	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-sdk-go/pkg/util"
)

// MaxSignerSubitems bounds AllowedContracts, AllowedGroups, and Rules,
// matching the protocol ceiling enforced by consensus nodes.
const MaxSignerSubitems = 16

// MaxSigners bounds the number of signers a single transaction may carry.
const MaxSigners = 16

// Signer attaches a witness scope to one of a transaction's signing
// accounts, restricting which contracts its witness is valid for.
type Signer struct {
	Account          util.Uint160
	Scopes           WitnessScope
	AllowedContracts []util.Uint160
	AllowedGroups    []*keys.PublicKey
	Rules            []WitnessRule
}

// EncodeBinary writes s: the account, the scope byte, then whichever of
// AllowedContracts/AllowedGroups/Rules the scope bits select.
func (s *Signer) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(s.Account.BytesLE())
	w.WriteB(byte(s.Scopes))
	if s.Scopes&CustomContracts != 0 {
		w.WriteVarUint(uint64(len(s.AllowedContracts)))
		for _, h := range s.AllowedContracts {
			w.WriteBytes(h.BytesLE())
		}
	}
	if s.Scopes&CustomGroups != 0 {
		w.WriteVarUint(uint64(len(s.AllowedGroups)))
		for _, g := range s.AllowedGroups {
			w.WriteBytes(g.Bytes())
		}
	}
	if s.Scopes&Rules != 0 {
		w.WriteVarUint(uint64(len(s.Rules)))
		for _, r := range s.Rules {
			r.EncodeBinary(w)
		}
	}
}

// DecodeBinary reads s, validating subitem counts and scope consistency.
func (s *Signer) DecodeBinary(r *io.BinReader) {
	buf := make([]byte, util.Uint160Size)
	r.ReadBytes(buf)
	if r.Err != nil {
		return
	}
	account, err := util.Uint160DecodeBytesLE(buf)
	if err != nil {
		r.Err = err
		return
	}
	s.Account = account

	scopes, err := ScopesFromByte(r.ReadB())
	if err != nil {
		r.Err = err
		return
	}
	s.Scopes = scopes

	s.AllowedContracts = nil
	s.AllowedGroups = nil
	s.Rules = nil

	if scopes&CustomContracts != 0 {
		n := r.ReadVarUint()
		if n > MaxSignerSubitems {
			r.Err = fmt.Errorf("transaction: too many allowed contracts (%d)", n)
			return
		}
		s.AllowedContracts = make([]util.Uint160, n)
		for i := range s.AllowedContracts {
			hb := make([]byte, util.Uint160Size)
			r.ReadBytes(hb)
			if r.Err != nil {
				return
			}
			h, err := util.Uint160DecodeBytesLE(hb)
			if err != nil {
				r.Err = err
				return
			}
			s.AllowedContracts[i] = h
		}
	}
	if scopes&CustomGroups != 0 {
		n := r.ReadVarUint()
		if n > MaxSignerSubitems {
			r.Err = fmt.Errorf("transaction: too many allowed groups (%d)", n)
			return
		}
		s.AllowedGroups = make([]*keys.PublicKey, n)
		for i := range s.AllowedGroups {
			pb := make([]byte, 33)
			r.ReadBytes(pb)
			if r.Err != nil {
				return
			}
			pk, err := keys.NewPublicKeyFromBytes(pb)
			if err != nil {
				r.Err = err
				return
			}
			s.AllowedGroups[i] = pk
		}
	}
	if scopes&Rules != 0 {
		n := r.ReadVarUint()
		if n > MaxSignerSubitems {
			r.Err = fmt.Errorf("transaction: too many witness rules (%d)", n)
			return
		}
		s.Rules = make([]WitnessRule, n)
		for i := range s.Rules {
			rule, err := DecodeWitnessRule(r)
			if err != nil {
				r.Err = err
				return
			}
			s.Rules[i] = rule
		}
	}
}

// MarshalJSON implements json.Marshaler.
func (s *Signer) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{
		"account": "0x" + s.Account.String(),
		"scopes":  s.Scopes.String(),
	}
	if len(s.AllowedContracts) > 0 {
		contracts := make([]string, len(s.AllowedContracts))
		for i, h := range s.AllowedContracts {
			contracts[i] = "0x" + h.String()
		}
		m["allowedcontracts"] = contracts
	}
	if len(s.AllowedGroups) > 0 {
		groups := make([]string, len(s.AllowedGroups))
		for i, g := range s.AllowedGroups {
			groups[i] = g.String()
		}
		m["allowedgroups"] = groups
	}
	if len(s.Rules) > 0 {
		m["rules"] = s.Rules
	}
	return json.Marshal(m)
}

// validate checks the scope-consistency invariants: CustomContracts and
// CustomGroups must carry at least one entry, Rules must carry at least
// one rule, and Global must appear alone.
func (s *Signer) validate() error {
	if s.Scopes&Global != 0 && s.Scopes != Global {
		return fmt.Errorf("transaction: signer %s combines Global with other scopes", s.Account.StringLE())
	}
	if s.Scopes&CustomContracts != 0 && len(s.AllowedContracts) == 0 {
		return fmt.Errorf("transaction: signer %s sets CustomContracts with no allowed contracts", s.Account.StringLE())
	}
	if s.Scopes&CustomContracts == 0 && len(s.AllowedContracts) > 0 {
		return fmt.Errorf("transaction: signer %s has allowed contracts without CustomContracts scope", s.Account.StringLE())
	}
	if s.Scopes&CustomGroups != 0 && len(s.AllowedGroups) == 0 {
		return fmt.Errorf("transaction: signer %s sets CustomGroups with no allowed groups", s.Account.StringLE())
	}
	if s.Scopes&CustomGroups == 0 && len(s.AllowedGroups) > 0 {
		return fmt.Errorf("transaction: signer %s has allowed groups without CustomGroups scope", s.Account.StringLE())
	}
	if s.Scopes&Rules != 0 && len(s.Rules) == 0 {
		return fmt.Errorf("transaction: signer %s sets Rules with no rules", s.Account.StringLE())
	}
	if s.Scopes&Rules == 0 && len(s.Rules) > 0 {
		return fmt.Errorf("transaction: signer %s has rules without Rules scope", s.Account.StringLE())
	}
	if len(s.AllowedContracts) > MaxSignerSubitems {
		return fmt.Errorf("transaction: signer %s exceeds %d allowed contracts", s.Account.StringLE(), MaxSignerSubitems)
	}
	if len(s.AllowedGroups) > MaxSignerSubitems {
		return fmt.Errorf("transaction: signer %s exceeds %d allowed groups", s.Account.StringLE(), MaxSignerSubitems)
	}
	if len(s.Rules) > MaxSignerSubitems {
		return fmt.Errorf("transaction: signer %s exceeds %d rules", s.Account.StringLE(), MaxSignerSubitems)
	}
	return nil
}
