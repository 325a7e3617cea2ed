// Package context implements offline/multi-party transaction signing:
// ContractParametersContext accumulates signatures for a transaction's
// signer accounts until each has enough to build its witness.
package context

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/nspcc-dev/neo-sdk-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-sdk-go/pkg/smartcontract"
	"github.com/nspcc-dev/neo-sdk-go/pkg/transaction"
	"github.com/nspcc-dev/neo-sdk-go/pkg/util"
)

// Verifiable is the subset of transaction.Transaction a ParameterContext
// needs: its id, the exact bytes the signing digest is computed over,
// and the raw per-network signing message (unhashed — keys.PublicKey.Verify
// hashes it itself).
type Verifiable interface {
	Hash() util.Uint256
	UnsignedBytes() []byte
	SigningMessage(network uint32) []byte
}

// Item accumulates the witness material for one signer account: the
// verification script, any contract parameters it still needs, and the
// signatures collected so far, keyed by the signer's public key hex.
type Item struct {
	Script     []byte
	Parameters []smartcontract.Parameter
	Signatures map[string][]byte
}

// ParameterContext is the JSON-serializable offline-signing envelope:
// the transaction under signature plus one Item per signer account.
type ParameterContext struct {
	Type       string
	Network    uint32
	Verifiable Verifiable
	Items      map[util.Uint160]*Item
}

// NewParameterContext builds an empty context around verifiable.
func NewParameterContext(typ string, network uint32, verifiable Verifiable) *ParameterContext {
	return &ParameterContext{
		Type:       typ,
		Network:    network,
		Verifiable: verifiable,
		Items:      make(map[util.Uint160]*Item),
	}
}

func (c *ParameterContext) itemFor(scriptHash util.Uint160, script []byte) *Item {
	item, ok := c.Items[scriptHash]
	if !ok {
		item = &Item{Script: script, Signatures: make(map[string][]byte)}
		c.Items[scriptHash] = item
	}
	return item
}

// AddSignature validates sig against pub and the context's signing
// message, then records it under scriptHash's Item. script must be
// either pub's own single-signature verification script or an m-of-n
// multisig script containing pub.
func (c *ParameterContext) AddSignature(scriptHash util.Uint160, script []byte, pub *keys.PublicKey, sig []byte) error {
	msg := c.Verifiable.SigningMessage(c.Network)
	if !pub.Verify(msg, sig) {
		return fmt.Errorf("context: invalid signature for %s", pub.String())
	}

	if single, err := keys.ParseSignatureContract(script); err == nil {
		if !single.Equal(pub) {
			return fmt.Errorf("context: public key %s does not match verification script", pub.String())
		}
		item := c.itemFor(scriptHash, script)
		item.Signatures[pub.String()] = sig
		return nil
	}

	if _, pubs, err := keys.ParseMultiSigContract(script); err == nil {
		if !pubs.Contains(pub) {
			return fmt.Errorf("context: public key %s is not part of the multisig contract", pub.String())
		}
		item := c.itemFor(scriptHash, script)
		if _, dup := item.Signatures[pub.String()]; dup {
			return fmt.Errorf("context: signature for %s already added", pub.String())
		}
		item.Signatures[pub.String()] = sig
		return nil
	}

	return fmt.Errorf("context: script does not belong to a known contract type")
}

// GetWitness builds the witness for scriptHash once enough signatures
// have been collected: immediately for a single-signature contract, or
// once at least m signatures are present for an m-of-n multisig one.
func (c *ParameterContext) GetWitness(scriptHash util.Uint160) (*transaction.Witness, error) {
	item, ok := c.Items[scriptHash]
	if !ok {
		return nil, fmt.Errorf("context: no item for script hash %s", scriptHash.String())
	}

	if pub, err := keys.ParseSignatureContract(item.Script); err == nil {
		sig, ok := item.Signatures[pub.String()]
		if !ok {
			return nil, fmt.Errorf("context: missing signature for %s", pub.String())
		}
		w := transaction.SingleSigWitness(pub, sig)
		return &w, nil
	}

	if m, pubs, err := keys.ParseMultiSigContract(item.Script); err == nil {
		var sigs [][]byte
		for _, pub := range pubs {
			if sig, ok := item.Signatures[pub.String()]; ok {
				sigs = append(sigs, sig)
				if len(sigs) == m {
					break
				}
			}
		}
		if len(sigs) < m {
			return nil, fmt.Errorf("context: have %d of %d required signatures", len(sigs), m)
		}
		w := transaction.MultiSigWitness(item.Script, sigs)
		return &w, nil
	}

	return nil, fmt.Errorf("context: script does not belong to a known contract type")
}

// Complete reports whether every item in the context has enough
// signatures to produce its witness.
func (c *ParameterContext) Complete() bool {
	for hash := range c.Items {
		if _, err := c.GetWitness(hash); err != nil {
			return false
		}
	}
	return true
}

type itemJSON struct {
	Script     string            `json:"script"`
	Parameters []smartcontract.Parameter `json:"parameters,omitempty"`
	Signatures map[string]string `json:"signatures"`
}

// MarshalJSON implements json.Marshaler in the wire shape:
// {type, hash, data, items:{"0x"+scripthash:{script,parameters,signatures}}, network}.
func (c *ParameterContext) MarshalJSON() ([]byte, error) {
	items := make(map[string]itemJSON, len(c.Items))
	for hash, item := range c.Items {
		sigs := make(map[string]string, len(item.Signatures))
		for pub, sig := range item.Signatures {
			sigs[pub] = base64.StdEncoding.EncodeToString(sig)
		}
		items["0x"+hash.String()] = itemJSON{
			Script:     base64.StdEncoding.EncodeToString(item.Script),
			Parameters: item.Parameters,
			Signatures: sigs,
		}
	}
	return json.Marshal(map[string]interface{}{
		"type":    c.Type,
		"hash":    "0x" + c.Verifiable.Hash().String(),
		"data":    base64.StdEncoding.EncodeToString(c.Verifiable.UnsignedBytes()),
		"items":   items,
		"network": c.Network,
	})
}
